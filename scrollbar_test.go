package vlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestScrollbar(total, viewport int) (*Scrollbar, *Virtual, *ScrollingManager) {
	bus := NewEventBus()
	virtual := NewVirtual(1, 0, 0, nil, bus)
	virtual.SetTotalItems(total)
	virtual.SetViewport(viewport)
	scrolling := NewScrollingManager(virtual, bus, ScrollingConfig{Sensitivity: 1}, nil)
	return NewScrollbar(virtual, scrolling), virtual, scrolling
}

func TestScrollbarThumbSizeFloorsAtMinimum(t *testing.T) {
	bar, _, _ := newTestScrollbar(1_000_000, 100)
	assert.Equal(t, minThumbSize, bar.ThumbSize())
}

func TestScrollbarThumbSizeFillsTrackWhenContentFits(t *testing.T) {
	bar, _, _ := newTestScrollbar(5, 50)
	assert.Equal(t, 50, bar.ThumbSize())
}

func TestScrollbarThumbPositionTracksOffset(t *testing.T) {
	bar, _, scrolling := newTestScrollbar(1000, 100)
	scrolling.ScrollToPosition(450)
	pos := bar.ThumbPosition(scrolling.Offset())
	assert.True(t, pos > 0)
}

func TestScrollbarPositionFromThumbRoundTrips(t *testing.T) {
	bar, _, _ := newTestScrollbar(1000, 100)
	thumbPos := bar.ThumbPosition(400)
	offset := bar.PositionFromThumb(thumbPos)
	assert.True(t, offset >= 0 && offset <= 900)
}

func TestScrollbarDragPreviewDoesNotCommit(t *testing.T) {
	bar, _, scrolling := newTestScrollbar(1000, 100)
	bar.BeginDrag(0)
	bar.DragTo(50)
	assert.Equal(t, 0, scrolling.Offset())
}

func TestScrollbarEndDragCommitsOnce(t *testing.T) {
	bar, _, scrolling := newTestScrollbar(1000, 100)
	bar.BeginDrag(0)
	bar.EndDrag(50)
	assert.True(t, scrolling.Offset() > 0)
}

func TestScrollbarTrackClickJumps(t *testing.T) {
	bar, _, scrolling := newTestScrollbar(1000, 100)
	bar.TrackClick(90)
	assert.True(t, scrolling.Offset() > 0)
}

func TestScrollbarCompressedReflectsVirtual(t *testing.T) {
	bus := NewEventBus()
	virtual := NewVirtual(1, 0, 500, nil, bus)
	virtual.SetTotalItems(10_000)
	virtual.SetViewport(50)
	scrolling := NewScrollingManager(virtual, bus, ScrollingConfig{Sensitivity: 1}, nil)
	bar := NewScrollbar(virtual, scrolling)
	assert.True(t, bar.Compressed())
}

func TestScrollbarCompressedTrackClickReachesDatasetTail(t *testing.T) {
	bus := NewEventBus()
	virtual := NewVirtual(1, 0, 500, nil, bus)
	virtual.SetTotalItems(10_000)
	virtual.SetViewport(50)
	scrolling := NewScrollingManager(virtual, bus, ScrollingConfig{Sensitivity: 1}, nil)
	bar := NewScrollbar(virtual, scrolling)

	track := virtual.Viewport()
	bar.TrackClick(track) // click at the very end of the track

	visible := virtual.CalculateVisibleRange(scrolling.Offset())
	assert.Equal(t, 9_950, visible.Start, "clicking the track end should reach the last viewport, not saturate at maxScroll/itemSize")
	assert.Equal(t, 9_999, visible.End)
}

func TestScrollbarCompressedDragSpansFullIndexRange(t *testing.T) {
	bus := NewEventBus()
	virtual := NewVirtual(1, 0, 500, nil, bus)
	virtual.SetTotalItems(10_000)
	virtual.SetViewport(50)
	scrolling := NewScrollingManager(virtual, bus, ScrollingConfig{Sensitivity: 1}, nil)
	bar := NewScrollbar(virtual, scrolling)

	bar.BeginDrag(0)
	bar.EndDrag(virtual.Viewport())

	visible := virtual.CalculateVisibleRange(scrolling.Offset())
	assert.Equal(t, 9_950, visible.Start)
	assert.Equal(t, 9_999, visible.End)
}
