package vlist

import (
	"sync"

	"github.com/rivo/uniseg"
)

// ItemSizeManager tracks estimated and measured per-item sizes.
// It never mutates the virtual total on measurement alone when the virtual
// manager's compression cap is engaged — the cap always wins; callers read
// GetEstimated/GetMeasured, or pass their own measuring flag to
// TotalEstimate/OffsetOf, and compute totals themselves so that policy lives
// in one place (Virtual).
type ItemSizeManager struct {
	mu        sync.RWMutex
	estimated int
	measured  map[int]int
}

// NewItemSizeManager creates a manager with the given default estimated
// size.
func NewItemSizeManager(estimated int) *ItemSizeManager {
	if estimated <= 0 {
		estimated = 50
	}
	return &ItemSizeManager{
		estimated: estimated,
		measured:  make(map[int]int),
	}
}

// GetEstimated returns the configured/default per-item size.
func (m *ItemSizeManager) GetEstimated() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.estimated
}

// SetEstimated updates the default size used for unmeasured indices.
func (m *ItemSizeManager) SetEstimated(size int) {
	if size <= 0 {
		return
	}
	m.mu.Lock()
	m.estimated = size
	m.mu.Unlock()
}

// HasMeasured reports whether index i has an observed pixel size.
func (m *ItemSizeManager) HasMeasured(i int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.measured[i]
	return ok
}

// GetMeasured returns the observed size for index i, if any.
func (m *ItemSizeManager) GetMeasured(i int) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.measured[i]
	return v, ok
}

// SizeOf returns the measured size for i if known, otherwise the estimate.
func (m *ItemSizeManager) SizeOf(i int) int {
	if v, ok := m.GetMeasured(i); ok {
		return v
	}
	return m.GetEstimated()
}

// Measure records a real, non-placeholder element's observed size for
// index i and returns it. text is the element's rendered content; width is
// computed with grapheme-cluster awareness (github.com/rivo/uniseg) rather
// than rune count, so combining marks and wide East-Asian characters don't
// under/over-count the way len() or range-over-string would.
func (m *ItemSizeManager) Measure(text string, i int) int {
	size := uniseg.StringWidth(text)
	if size <= 0 {
		size = m.GetEstimated()
	}
	m.mu.Lock()
	m.measured[i] = size
	m.mu.Unlock()
	return size
}

// Forget clears a measured size, e.g. when the element at i is recycled for
// different content and the old measurement no longer applies.
func (m *ItemSizeManager) Forget(i int) {
	m.mu.Lock()
	delete(m.measured, i)
	m.mu.Unlock()
}

// Reset clears every measurement. Called on full resets (search/filter
// re-entry, Reload).
func (m *ItemSizeManager) Reset() {
	m.mu.Lock()
	m.measured = make(map[int]int)
	m.mu.Unlock()
}

// TotalEstimate returns totalItems*estimated when measuring is disabled, or
// the sum of measured-or-estimated sizes for every index when enabled.
func (m *ItemSizeManager) TotalEstimate(totalItems int, measuring bool) int {
	if totalItems <= 0 {
		return 0
	}
	if !measuring {
		return totalItems * m.GetEstimated()
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for i := 0; i < totalItems; i++ {
		if v, ok := m.measured[i]; ok {
			total += v
		} else {
			total += m.estimated
		}
	}
	return total
}

// OffsetOf returns the cumulative size of every index before i — the
// absolute position an element at i should be drawn at.
func (m *ItemSizeManager) OffsetOf(i int, measuring bool) int {
	if i <= 0 {
		return 0
	}
	if !measuring {
		return i * m.GetEstimated()
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	offset := 0
	for j := 0; j < i; j++ {
		if v, ok := m.measured[j]; ok {
			offset += v
		} else {
			offset += m.estimated
		}
	}
	return offset
}
