package vlist

import "sync"

// Virtual owns the total virtual size (possibly capped) and computes
// visible/render ranges. It holds no rendering state; Rendering and
// Scrolling both call into it through pure accessor methods, and Virtual
// never calls back into its owners — it only recomputes and notifies.
type Virtual struct {
	mu sync.RWMutex

	totalItems int
	itemSize   int
	overscan   int
	viewport   int
	maxScroll  int // host-scroll compression threshold
	measuring  bool
	sizer      *ItemSizeManager

	bus *EventBus
}

// NewVirtual creates a Virtual manager. sizer may be nil if measurement is
// never enabled.
func NewVirtual(itemSize, overscan, maxScroll int, sizer *ItemSizeManager, bus *EventBus) *Virtual {
	return &Virtual{
		itemSize:  itemSize,
		overscan:  overscan,
		maxScroll: maxScroll,
		sizer:     sizer,
		bus:       bus,
	}
}

// SetTotalItems updates totalItems and notifies subscribers. totalItems is
// monotonically non-decreasing within a search/filter session; callers
// enforce that by always routing resets through Collection's full-reset
// path rather than calling SetTotalItems(0) ad hoc.
func (v *Virtual) SetTotalItems(n int) {
	if n < 0 {
		n = 0
	}
	v.mu.Lock()
	changed := v.totalItems != n
	v.totalItems = n
	v.mu.Unlock()
	if changed {
		v.notify()
	}
}

// TotalItems returns the current item count.
func (v *Virtual) TotalItems() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.totalItems
}

// SetViewport updates the viewport size (pixels along the scroll axis).
func (v *Virtual) SetViewport(size int) {
	v.mu.Lock()
	changed := v.viewport != size
	v.viewport = size
	v.mu.Unlock()
	if changed {
		v.notify()
	}
}

// SetMeasuring toggles whether the dynamic-size variant of the range math
// is used.
func (v *Virtual) SetMeasuring(on bool) {
	v.mu.Lock()
	v.measuring = on
	v.mu.Unlock()
}

// RawVirtualSize returns totalItems*itemSize (or the measured-aware sum)
// uncapped — the value compression decides whether to shrink.
func (v *Virtual) RawVirtualSize() int {
	v.mu.RLock()
	total, measuring, sizer := v.totalItems, v.measuring, v.sizer
	v.mu.RUnlock()
	if sizer != nil {
		return sizer.TotalEstimate(total, measuring)
	}
	return total * v.ItemSize()
}

// VirtualSize returns the scrollbar-facing virtual size: RawVirtualSize
// capped to MaxScroll when compression engages.
func (v *Virtual) VirtualSize() int {
	raw := v.RawVirtualSize()
	max := v.MaxScroll()
	if max > 0 && raw > max {
		return max
	}
	return raw
}

// Compressed reports whether the raw virtual size exceeds the host-scroll
// maximum, i.e. whether the Scrollbar should be in compression mode.
func (v *Virtual) Compressed() bool {
	max := v.MaxScroll()
	return max > 0 && v.RawVirtualSize() > max
}

// ItemSize returns the configured fixed/default item size.
func (v *Virtual) ItemSize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.itemSize
}

// MaxScroll returns the configured host-scroll compression threshold.
func (v *Virtual) MaxScroll() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.maxScroll
}

// Viewport returns the current viewport size.
func (v *Virtual) Viewport() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.viewport
}

// Overscan returns the configured overscan count.
func (v *Virtual) Overscan() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.overscan
}

// CalculateVisibleRange computes visibleRange for the given scroll offset.
// When Compressed() is true, offset lives in capped VirtualSize space rather
// than raw pixel space, so it is mapped through compressedVisibleRange's
// scrollRatio -> startIndex formula instead of divided directly by itemSize
// — otherwise the offset clamp at maxScroll would make every index past
// maxScroll/itemSize permanently unreachable.
func (v *Virtual) CalculateVisibleRange(offset int) Range {
	v.mu.RLock()
	total, itemSize, viewport, measuring, sizer := v.totalItems, v.itemSize, v.viewport, v.measuring, v.sizer
	v.mu.RUnlock()
	if !measuring || sizer == nil {
		if v.Compressed() {
			return compressedVisibleRange(offset, v.MaxScroll(), viewport, itemSize, total)
		}
		return VisibleRangeFixed(offset, itemSize, viewport, total)
	}
	return dynamicVisibleRange(offset, viewport, total, sizer)
}

// compressedVisibleRange maps a compressed-space scroll offset to a start
// index spanning the full [0, totalItems) range: ratio = offset/maxOffset,
// startIndex = floor(ratio * maxStartIndex), with maxStartIndex =
// totalItems - ceil(viewport/itemSize). A ratio within 0.001 of 1 snaps to
// maxStartIndex so the last viewport's worth of items is always reachable
// despite float rounding.
func compressedVisibleRange(offset, maxScroll, viewport, itemSize, total int) Range {
	if total <= 0 || viewport <= 0 || itemSize <= 0 {
		return Range{0, -1}
	}
	count := ceilDiv(viewport, itemSize)
	if count <= 0 {
		count = 1
	}
	maxStartIndex := total - count
	if maxStartIndex < 0 {
		maxStartIndex = 0
	}

	maxOffset := MaxOffset(maxScroll, viewport)
	var start int
	if maxOffset <= 0 {
		start = maxStartIndex
	} else {
		ratio := float64(clamp(offset, 0, maxOffset)) / float64(maxOffset)
		if ratio >= 0.999 {
			start = maxStartIndex
		} else {
			start = int(ratio * float64(maxStartIndex))
		}
	}

	start = clamp(start, 0, total-1)
	end := start + count - 1
	end = clamp(end, 0, total-1)
	if end < start {
		end = start
	}
	return Range{start, end}
}

func dynamicVisibleRange(offset, viewport, total int, sizer *ItemSizeManager) Range {
	if total <= 0 || viewport <= 0 {
		return Range{0, -1}
	}
	start := IndexAtPosition(offset, 0, total, sizer, true)
	end := IndexAtPosition(offset+viewport, 0, total, sizer, true)
	start = clamp(start, 0, total-1)
	end = clamp(end, 0, total-1)
	if end < start {
		end = start
	}
	return Range{start, end}
}

// CalculateRenderRange expands visible by the configured overscan.
func (v *Virtual) CalculateRenderRange(visible Range) Range {
	return RenderRangeFromVisible(visible, v.Overscan(), v.TotalItems())
}

func (v *Virtual) notify() {
	if v.bus != nil {
		v.bus.Emit(EventDimensionsChanged)
	}
}
