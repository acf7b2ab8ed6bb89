package vlist

import (
	"sync"
	"time"
)

// SearchFeature is the Search enhancer: owns query state, a
// debounce interval, and a minimum query length, and exposes the query to
// Collection via SetSearchQuery's accessor so every adapter request reads
// the current value.
type SearchFeature struct {
	mu sync.Mutex

	cfg   SearchConfig
	query string
	open  bool
	timer *time.Timer

	bus      *EventBus
	onCommit func(query string)
}

// NewSearchFeature constructs the Search enhancer. onCommit is called after
// the debounce interval elapses for a query meeting MinLength (or
// immediately when the query is cleared) — typically Collection.Reload
// followed by an EnsureRange for the initial viewport.
func NewSearchFeature(cfg SearchConfig, bus *EventBus, onCommit func(string)) *SearchFeature {
	return &SearchFeature{cfg: cfg, bus: bus, onCommit: onCommit}
}

func (f *SearchFeature) Name() string       { return "search" }
func (f *SearchFeature) Provides() []string { return []string{"search"} }
func (f *SearchFeature) Requires() []string { return []string{"lifecycle", "events"} }

// Open marks the search UI as active and emits search:open.
func (f *SearchFeature) Open() {
	f.mu.Lock()
	f.open = true
	f.mu.Unlock()
	if f.bus != nil {
		f.bus.Emit(EventSearchOpen)
	}
}

// Close marks the search UI as inactive and emits search:close.
func (f *SearchFeature) Close() {
	f.mu.Lock()
	f.open = false
	f.mu.Unlock()
	if f.bus != nil {
		f.bus.Emit(EventSearchClose)
	}
}

// IsOpen reports whether the search UI is currently active.
func (f *SearchFeature) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Query returns the current committed (debounced) query, usable as
// "_searchQuery()" by Collection.
func (f *SearchFeature) Query() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// SetQuery records the raw, per-keystroke query and schedules the debounced
// commit. An empty query always commits immediately, since there's nothing
// to debounce and clearing the field should feel instant.
func (f *SearchFeature) SetQuery(q string) {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
	}
	if q == "" {
		f.query = ""
		f.mu.Unlock()
		f.commit("")
		return
	}
	debounce := f.cfg.Debounce
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	minLength := f.cfg.MinLength
	f.timer = time.AfterFunc(debounce, func() {
		if len(q) < minLength {
			return
		}
		f.mu.Lock()
		f.query = q
		f.mu.Unlock()
		f.commit(q)
	})
	f.mu.Unlock()
}

// Clear resets the query to empty and emits search:clear.
func (f *SearchFeature) Clear() {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
	}
	f.query = ""
	f.mu.Unlock()
	if f.bus != nil {
		f.bus.Emit(EventSearchClear)
	}
	if f.onCommit != nil {
		f.onCommit("")
	}
}

func (f *SearchFeature) commit(q string) {
	if f.bus != nil {
		f.bus.Emit(EventSearchChange, q)
	}
	if f.onCommit != nil {
		f.onCommit(q)
	}
}
