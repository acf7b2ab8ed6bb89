package vlist

// Range is a contiguous span of item indices: Start and End are
// both inclusive, Count = End-Start+1, and End >= Start. A Range with
// Count() == 0 represents "no visible items" (e.g. totalItems == 0).
type Range struct {
	Start, End int
}

// Count returns the number of indices covered by r, or 0 if r is empty.
func (r Range) Count() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Empty reports whether r covers no indices.
func (r Range) Empty() bool {
	return r.Count() == 0
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ceilDiv computes ceil(a/b) for positive b.
func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// VisibleRangeFixed computes visibleRange for a fixed item size: visibleStart = floor(offset/size), visibleCount = ceil(viewport/size).
// Offset is expressed in pixels rather than item count, so it composes with
// variable item sizes elsewhere in the package.
func VisibleRangeFixed(offset, itemSize, viewport, totalItems int) Range {
	if totalItems <= 0 || itemSize <= 0 || viewport <= 0 {
		return Range{0, -1}
	}
	start := offset / itemSize
	count := ceilDiv(viewport, itemSize)
	if count <= 0 {
		count = 1
	}
	end := start + count - 1
	start = clamp(start, 0, totalItems-1)
	end = clamp(end, 0, totalItems-1)
	if end < start {
		return Range{0, -1}
	}
	return Range{start, end}
}

// RenderRangeFromVisible expands visible by overscan on both ends and
// clamps to [0, totalItems-1].
func RenderRangeFromVisible(visible Range, overscan, totalItems int) Range {
	if totalItems <= 0 || visible.Empty() {
		return Range{0, -1}
	}
	start := clamp(visible.Start-overscan, 0, totalItems-1)
	end := clamp(visible.End+overscan, 0, totalItems-1)
	return Range{start, end}
}

// IndexAtPosition returns the index whose fixed-size slot contains pixel
// position p. sizer, when non-nil, is consulted for measured-or-estimated
// per-index sizes; when nil, itemSize (the fixed estimate) is used
// uniformly.
func IndexAtPosition(p, itemSize, totalItems int, sizer *ItemSizeManager, measuring bool) int {
	if totalItems <= 0 {
		return 0
	}
	if sizer == nil || !measuring {
		if itemSize <= 0 {
			return 0
		}
		return clamp(p/itemSize, 0, totalItems-1)
	}
	cum := 0
	for i := 0; i < totalItems; i++ {
		size := sizer.SizeOf(i)
		if cum+size > p {
			return i
		}
		cum += size
	}
	return totalItems - 1
}

// PositionOfIndex returns the pixel offset at which index i's slot begins —
// the round-trip partner of IndexAtPosition.
func PositionOfIndex(i, itemSize int, sizer *ItemSizeManager, measuring bool) int {
	if i <= 0 {
		return 0
	}
	if sizer == nil || !measuring {
		return i * itemSize
	}
	return sizer.OffsetOf(i, measuring)
}

// ScrollAlignment selects how ScrollToIndex positions the target index
// within the viewport.
type ScrollAlignment string

const (
	AlignStart  ScrollAlignment = "start"
	AlignCenter ScrollAlignment = "center"
	AlignEnd    ScrollAlignment = "end"
)

// OffsetForIndex computes the scroll offset that satisfies the requested
// alignment for index i, clamped to [0, maxOffset]. itemSize is the
// (measured-or-estimated) size of the target item.
func OffsetForIndex(i, itemPos, itemSize, viewport, maxOffset int, align ScrollAlignment) int {
	var target int
	switch align {
	case AlignCenter:
		target = itemPos - viewport/2 + itemSize/2
	case AlignEnd:
		target = itemPos - viewport + itemSize
	default: // AlignStart
		target = itemPos
	}
	return clamp(target, 0, maxOffset)
}

// MaxOffset returns the largest valid scroll offset for a virtual size of
// totalSize pixels displayed in a viewport of viewport pixels.
func MaxOffset(totalSize, viewport int) int {
	m := totalSize - viewport
	if m < 0 {
		return 0
	}
	return m
}
