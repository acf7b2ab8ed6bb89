package vlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScrolling(cfg ScrollingConfig, onRange RenderRangeFunc) (*ScrollingManager, *Virtual) {
	bus := NewEventBus()
	virtual := NewVirtual(1, 0, 0, nil, bus)
	virtual.SetTotalItems(100)
	virtual.SetViewport(10)
	return NewScrollingManager(virtual, bus, cfg, onRange), virtual
}

func TestScrollingHandleWheelClampsToMax(t *testing.T) {
	s, _ := newTestScrolling(ScrollingConfig{Sensitivity: 1}, nil)
	s.HandleWheel(-50)
	assert.Equal(t, 0, s.Offset())

	s.HandleWheel(1000)
	assert.Equal(t, 90, s.Offset())
}

func TestScrollingScrollToIndexAligns(t *testing.T) {
	s, _ := newTestScrolling(ScrollingConfig{Sensitivity: 1}, nil)
	s.ScrollToIndex(50, AlignStart)
	assert.Equal(t, 50, s.Offset())
}

func TestScrollingSettleFiresRenderCallback(t *testing.T) {
	var gotVisible, gotRender Range
	calls := 0
	onRange := func(visible, render Range) {
		calls++
		gotVisible, gotRender = visible, render
	}
	s, _ := newTestScrolling(ScrollingConfig{Sensitivity: 1}, onRange)
	s.HandleWheel(5)
	require.Equal(t, 1, calls)
	assert.Equal(t, 5, gotVisible.Start)
	assert.True(t, gotRender.Start <= gotVisible.Start)
}

func TestScrollingSettleSkippedWhenUnchanged(t *testing.T) {
	calls := 0
	s, _ := newTestScrolling(ScrollingConfig{Sensitivity: 1}, func(Range, Range) { calls++ })
	s.HandleWheel(-10) // already at 0, no change
	assert.Equal(t, 0, calls)
}

func TestScrollingVelocityTracksAndDecays(t *testing.T) {
	s, _ := newTestScrolling(ScrollingConfig{
		Sensitivity: 1,
		Momentum: MomentumConfig{
			Window:            50 * time.Millisecond,
			Decay:             0.5,
			VelocityThreshold: 0.01,
		},
	}, nil)

	s.HandleWheel(20)
	assert.True(t, s.SmoothedVelocity() > 0)
	assert.True(t, s.FastScrolling())

	for i := 0; i < 50; i++ {
		s.Tick()
	}
	assert.False(t, s.FastScrolling())
}

func TestScrollingDragEndMovesOffset(t *testing.T) {
	s, _ := newTestScrolling(ScrollingConfig{Sensitivity: 1}, nil)
	s.DragEnd(42)
	assert.Equal(t, 42, s.Offset())
}
