package vlist

import (
	"sort"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
)

// SelectionFeature is the Selection enhancer. Click-target
// resolution is reduced to "an index", since walking a host's DOM or
// widget tree to find that index is outside this engine's boundary; the
// engine only needs to turn an index plus modifier flags into a selection
// state change.
type SelectionFeature struct {
	mu sync.Mutex

	mode             SelectionMode
	requireModifiers bool

	selected map[int]bool
	anchor   int
	hasAnchor bool

	bus      *EventBus
	lookupID func(index int) string
}

// NewSelectionFeature constructs the Selection enhancer. lookupID resolves
// an index to its item's stable ID (for SelectedIDs/clipboard export);
// placeholders resolve to "" and are never selectable.
func NewSelectionFeature(cfg SelectionConfig, bus *EventBus, lookupID func(int) string) *SelectionFeature {
	f := &SelectionFeature{
		mode:             cfg.Mode,
		requireModifiers: cfg.RequireModifiers,
		selected:         make(map[int]bool),
		bus:              bus,
		lookupID:         lookupID,
	}
	for _, i := range cfg.SelectedIndices {
		f.selected[i] = true
	}
	return f
}

func (f *SelectionFeature) Name() string       { return "selection" }
func (f *SelectionFeature) Provides() []string { return []string{"selection"} }
func (f *SelectionFeature) Requires() []string { return []string{"events", "viewport", "element"} }

// Click resolves one click at index under the given modifier flags: single mode toggles regardless of modifiers; multiple mode toggles
// on a bare click unless requireModifiers is set, Shift extends a range
// from the last anchor, and Ctrl/Cmd toggles the clicked index individually.
func (f *SelectionFeature) Click(index int, shift, ctrlOrCmd bool) {
	if f.mode == SelectionNone {
		return
	}
	if f.mode == SelectionSingle {
		if f.IsSelected(index) {
			f.toggle(index)
		} else {
			f.selectOnly(index)
		}
		return
	}
	switch {
	case shift && f.hasAnchor:
		f.selectRangeFromAnchor(index)
	case ctrlOrCmd || !f.requireModifiers:
		f.toggle(index)
	default:
		f.selectOnly(index)
	}
}

func (f *SelectionFeature) selectOnly(index int) {
	f.mu.Lock()
	f.selected = map[int]bool{index: true}
	f.anchor, f.hasAnchor = index, true
	f.mu.Unlock()
	f.emitChange(index)
}

func (f *SelectionFeature) toggle(index int) {
	f.mu.Lock()
	if f.selected[index] {
		delete(f.selected, index)
	} else {
		f.selected[index] = true
	}
	f.anchor, f.hasAnchor = index, true
	f.mu.Unlock()
	f.emitChange(index)
}

func (f *SelectionFeature) selectRangeFromAnchor(index int) {
	f.mu.Lock()
	lo, hi := f.anchor, index
	if lo > hi {
		lo, hi = hi, lo
	}
	for i := lo; i <= hi; i++ {
		f.selected[i] = true
	}
	f.mu.Unlock()
	f.emitChange(index)
}

func (f *SelectionFeature) emitChange(lastIndex int) {
	if f.bus == nil {
		return
	}
	f.bus.Emit(EventItemSelectionChange, lastIndex)
	f.bus.Emit(EventSelectionChange, f.Selected())
}

// IsSelected reports whether index is currently selected.
func (f *SelectionFeature) IsSelected(index int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected[index]
}

// Selected returns every selected index, sorted ascending.
func (f *SelectionFeature) Selected() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, 0, len(f.selected))
	for i := range f.selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// SelectedIDs resolves every selected index to its item ID via lookupID,
// skipping any that resolve to "" (unloaded or placeholder).
func (f *SelectionFeature) SelectedIDs() []string {
	indices := f.Selected()
	ids := make([]string, 0, len(indices))
	for _, i := range indices {
		if f.lookupID == nil {
			continue
		}
		if id := f.lookupID(i); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Clear deselects everything.
func (f *SelectionFeature) Clear() {
	f.mu.Lock()
	f.selected = make(map[int]bool)
	f.hasAnchor = false
	f.mu.Unlock()
	if f.bus != nil {
		f.bus.Emit(EventSelectionChange, []int{})
	}
}

// CopySelectionToClipboard joins every selected item's ID, newline
// separated, and copies it to the system clipboard via
// github.com/atotto/clipboard.
func (f *SelectionFeature) CopySelectionToClipboard() error {
	ids := f.SelectedIDs()
	return clipboard.WriteAll(strings.Join(ids, "\n"))
}
