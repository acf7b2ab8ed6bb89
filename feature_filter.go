package vlist

import (
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cast"
)

// FilterFeature is the Filter enhancer: mirrors Search for a map
// of named controls. Each control is either exact-match (compared via
// spf13/cast to a string) or glob (matched against a named item field with
// github.com/bmatcuk/doublestar/v4, for path-like or hierarchical fields).
type FilterFeature struct {
	mu sync.Mutex

	controls map[string]ControlKind
	values   map[string]any

	bus      *EventBus
	onCommit func(values map[string]any)
}

// NewFilterFeature constructs the Filter enhancer. onCommit is called after
// every SetValue/Clear with the normalized value map, typically driving
// Collection.Reload the same way Search's commit does.
func NewFilterFeature(cfg FilterConfig, bus *EventBus, onCommit func(map[string]any)) *FilterFeature {
	return &FilterFeature{
		controls: cfg.Controls,
		values:   make(map[string]any),
		bus:      bus,
		onCommit: onCommit,
	}
}

func (f *FilterFeature) Name() string       { return "filter" }
func (f *FilterFeature) Provides() []string { return []string{"filter"} }
func (f *FilterFeature) Requires() []string { return []string{"lifecycle", "events"} }

// Open emits filter:open.
func (f *FilterFeature) Open() {
	if f.bus != nil {
		f.bus.Emit(EventFilterOpen)
	}
}

// Close emits filter:close.
func (f *FilterFeature) Close() {
	if f.bus != nil {
		f.bus.Emit(EventFilterClose)
	}
}

// SetValue sets control name's value, with empty-value normalization.
func (f *FilterFeature) SetValue(name string, value any) {
	f.mu.Lock()
	if isEmptyFilterValue(value) {
		delete(f.values, name)
	} else {
		f.values[name] = value
	}
	snapshot := f.snapshotLocked()
	f.mu.Unlock()

	if f.bus != nil {
		f.bus.Emit(EventFilterChange, snapshot)
	}
	if f.onCommit != nil {
		f.onCommit(snapshot)
	}
}

func isEmptyFilterValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	default:
		return false
	}
}

// Clear removes every filter value and emits filter:clear.
func (f *FilterFeature) Clear() {
	f.mu.Lock()
	f.values = make(map[string]any)
	f.mu.Unlock()
	if f.bus != nil {
		f.bus.Emit(EventFilterClear)
	}
	if f.onCommit != nil {
		f.onCommit(map[string]any{})
	}
}

// Values returns a copy of the current filter state.
func (f *FilterFeature) Values() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *FilterFeature) snapshotLocked() map[string]any {
	out := make(map[string]any, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Match reports whether item satisfies every active filter control. Exact
// controls compare cast.ToString(item[name]) against cast.ToString(value);
// glob controls match the field against the pattern with doublestar,
// supporting "**" path-style wildcards for hierarchical fields.
func (f *FilterFeature) Match(item Item) bool {
	f.mu.Lock()
	values := f.snapshotLocked()
	controls := f.controls
	f.mu.Unlock()

	for name, value := range values {
		field := cast.ToString(item[name])
		switch controls[name] {
		case ControlGlob:
			pattern := cast.ToString(value)
			ok, err := doublestar.Match(pattern, field)
			if err != nil || !ok {
				return false
			}
		default:
			if field != cast.ToString(value) {
				return false
			}
		}
	}
	return true
}
