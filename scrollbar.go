package vlist

import "sync"

// minThumbSize is the smallest thumb length shown regardless of how large
// the virtual size is relative to the track, so the thumb never shrinks to
// invisibility. Clamped to [1, height] in cell terms, generalized here to a
// minThumbSize expressed in pixels rather than character cells.
const minThumbSize = 20

// Scrollbar is the synthetic scrollbar: a track/thumb model
// driven entirely by Virtual's reported size and ScrollingManager's offset,
// with a compression mode for virtual sizes that exceed the host's usable
// scroll range. Thumb math follows the classic terminal scrollbar formula
// (thumb := height*height/total, pos := offset*(height-thumb)/(total-height)),
// generalized from a terminal-cell track to a pixel track and from
// render-only to an interactive drag/track-click source of scroll input.
type Scrollbar struct {
	mu sync.Mutex

	virtual   *Virtual
	scrolling *ScrollingManager

	dragging     bool
	dragStartPos int
	dragStartOff int
}

// NewScrollbar creates a Scrollbar bound to virtual (for size/compression)
// and scrolling (the sole owner of scrollOffset).
func NewScrollbar(virtual *Virtual, scrolling *ScrollingManager) *Scrollbar {
	return &Scrollbar{virtual: virtual, scrolling: scrolling}
}

// ThumbSize returns the thumb's length along the track, proportional to
// viewport/virtualSize and floored at minThumbSize.
func (s *Scrollbar) ThumbSize() int {
	track := s.virtual.Viewport()
	total := s.virtual.VirtualSize()
	if track <= 0 || total <= 0 {
		return 0
	}
	thumb := track * track / total
	if thumb < minThumbSize {
		thumb = minThumbSize
	}
	if thumb > track {
		thumb = track
	}
	return thumb
}

// ThumbPosition returns the thumb's leading edge for the given scrollOffset,
// clamped to [0, track-thumb]. In compression mode, offset is
// expressed against the capped VirtualSize, not the raw one — the caller
// converts a thumb position back to a raw-space scroll target via
// PositionFromThumb.
func (s *Scrollbar) ThumbPosition(offset int) int {
	track := s.virtual.Viewport()
	total := s.virtual.VirtualSize()
	thumb := s.ThumbSize()
	if track <= 0 || total <= track || thumb <= 0 {
		return 0
	}
	pos := offset * (track - thumb) / (total - track)
	return clamp(pos, 0, track-thumb)
}

// PositionFromThumb is the inverse of ThumbPosition: given a thumb leading
// edge, returns the scrollOffset (in VirtualSize space) that places the
// thumb there. Used by both track clicks and drag updates.
func (s *Scrollbar) PositionFromThumb(thumbPos int) int {
	track := s.virtual.Viewport()
	total := s.virtual.VirtualSize()
	thumb := s.ThumbSize()
	if track <= thumb {
		return 0
	}
	thumbPos = clamp(thumbPos, 0, track-thumb)
	offset := thumbPos * (total - track) / (track - thumb)
	return clamp(offset, 0, MaxOffset(total, track))
}

// Compressed reports whether the thumb represents a scaled-down view of a
// virtual size exceeding the host's maxScroll, rather than the raw size.
// Feature code that shows "page N of M" alongside the
// scrollbar should consult this to avoid implying false precision.
func (s *Scrollbar) Compressed() bool {
	return s.virtual.Compressed()
}

// BeginDrag starts an interactive drag at thumb-relative position p.
func (s *Scrollbar) BeginDrag(p int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragging = true
	s.dragStartPos = p
	s.dragStartOff = s.scrolling.Offset()
}

// DragTo previews a drag in progress. It does not move scrollOffset or emit
// any event — only EndDrag commits.
func (s *Scrollbar) DragTo(p int) int {
	s.mu.Lock()
	dragging := s.dragging
	start := s.dragStartPos
	startOff := s.dragStartOff
	s.mu.Unlock()
	if !dragging {
		return s.scrolling.Offset()
	}
	track := s.virtual.Viewport()
	total := s.virtual.VirtualSize()
	thumb := s.ThumbSize()
	if track <= thumb {
		return startOff
	}
	deltaThumb := p - start
	deltaOffset := deltaThumb * (total - track) / (track - thumb)
	return clamp(startOff+deltaOffset, 0, MaxOffset(total, track))
}

// EndDrag commits the drag at thumb-relative position p: it moves
// scrollOffset exactly once, via ScrollingManager.DragEnd, which is the only
// point that emits scroll:position:changed for a drag gesture.
func (s *Scrollbar) EndDrag(p int) {
	target := s.DragTo(p)
	s.mu.Lock()
	s.dragging = false
	s.mu.Unlock()
	s.scrolling.DragEnd(target)
}

// TrackClick jumps directly to the offset corresponding to a click at
// track-relative position p, outside the thumb. Unlike drag, a single click commits immediately.
func (s *Scrollbar) TrackClick(p int) {
	target := s.PositionFromThumb(p)
	s.scrolling.ScrollToPosition(target)
}
