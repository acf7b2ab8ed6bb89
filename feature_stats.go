package vlist

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
)

// StatsFeature is the Stats enhancer: recomputes (count,
// position, progress) from viewport total/range events and writes formatted
// strings into the named layout elements Config.Stats.Elements points at.
// Counts are rendered with github.com/dustin/go-humanize (e.g. "12,480 of
// 50,000 (24%)") so large datasets read comfortably instead of as a raw
// digit run.
type StatsFeature struct {
	mu sync.Mutex

	elements map[string]string
	format   string

	count, position, progress int

	bus    *EventBus
	values map[string]string
}

// NewStatsFeature constructs and wires the Stats enhancer to bus; it
// subscribes to viewport:total-items-changed and viewport:range-changed
// itself and never calls back into List, acting as a pure listener.
func NewStatsFeature(cfg StatsConfig, bus *EventBus) *StatsFeature {
	f := &StatsFeature{
		elements: cfg.Elements,
		format:   cfg.Format,
		bus:      bus,
		values:   make(map[string]string),
	}
	if bus != nil {
		bus.On(EventViewportTotalChanged, func(ev Event) {
			if len(ev.Data) == 0 {
				return
			}
			if n, ok := ev.Data[0].(int); ok {
				f.setCount(n)
			}
		})
		bus.On(EventViewportRangeChanged, func(ev Event) {
			if len(ev.Data) < 1 {
				return
			}
			if visible, ok := ev.Data[0].(Range); ok {
				f.setPosition(visible)
			}
		})
	}
	return f
}

func (f *StatsFeature) Name() string       { return "stats" }
func (f *StatsFeature) Provides() []string { return []string{"stats"} }
func (f *StatsFeature) Requires() []string { return []string{"events"} }

func (f *StatsFeature) setCount(n int) {
	f.mu.Lock()
	changed := f.count != n
	f.count = n
	f.mu.Unlock()
	if changed {
		f.recompute()
	}
}

func (f *StatsFeature) setPosition(visible Range) {
	f.mu.Lock()
	position := visible.Start + 1 // 1-based for display
	if visible.Empty() {
		position = 0
	}
	changed := f.position != position
	f.position = position
	f.mu.Unlock()
	if changed {
		f.recompute()
	}
}

// recompute derives progress, rewrites the element text, and emits
// stats:change. setCount and setPosition call it only when count or
// position actually changed, so a repeated value emits nothing.
func (f *StatsFeature) recompute() {
	f.mu.Lock()
	progress := 0
	if f.count > 0 {
		progress = (f.position * 100) / f.count
	}
	f.progress = progress
	count, position := f.count, f.position
	f.mu.Unlock()

	text := fmt.Sprintf("%s of %s (%d%%)", humanize.Comma(int64(position)), humanize.Comma(int64(count)), progress)
	f.mu.Lock()
	for name := range f.elements {
		f.values[name] = text
	}
	f.mu.Unlock()

	if f.bus != nil {
		f.bus.Emit(EventStatsChange, count, position, progress)
	}
}

// Text returns the formatted text last written for the named layout
// element, or "" if unset.
func (f *StatsFeature) Text(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

// Snapshot returns the current (count, position, progress) triple.
func (f *StatsFeature) Snapshot() (count, position, progress int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count, f.position, f.progress
}
