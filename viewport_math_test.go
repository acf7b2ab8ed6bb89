package vlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeCountAndEmpty(t *testing.T) {
	assert.Equal(t, 5, Range{0, 4}.Count())
	assert.Equal(t, 0, Range{0, -1}.Count())
	assert.True(t, Range{0, -1}.Empty())
	assert.False(t, Range{0, 4}.Empty())
}

func TestVisibleRangeFixedComputesStartAndCount(t *testing.T) {
	r := VisibleRangeFixed(100, 10, 35, 1000)
	assert.Equal(t, Range{10, 13}, r)
}

func TestVisibleRangeFixedZeroTotalIsEmpty(t *testing.T) {
	assert.True(t, VisibleRangeFixed(0, 10, 30, 0).Empty())
}

func TestVisibleRangeFixedClampsToTotalItems(t *testing.T) {
	r := VisibleRangeFixed(90, 10, 50, 10)
	assert.Equal(t, 9, r.End)
}

func TestRenderRangeFromVisibleExpandsByOverscanAndClamps(t *testing.T) {
	r := RenderRangeFromVisible(Range{5, 10}, 3, 100)
	assert.Equal(t, Range{2, 13}, r)

	r2 := RenderRangeFromVisible(Range{0, 2}, 5, 100)
	assert.Equal(t, 0, r2.Start)
}

func TestRenderRangeFromVisibleEmptyInputIsEmpty(t *testing.T) {
	assert.True(t, RenderRangeFromVisible(Range{0, -1}, 3, 100).Empty())
}

func TestIndexAtPositionFixedSize(t *testing.T) {
	idx := IndexAtPosition(105, 10, 100, nil, false)
	assert.Equal(t, 10, idx)
}

func TestIndexAtPositionWithSizer(t *testing.T) {
	m := NewItemSizeManager(10)
	m.Measure("hello", 0) // size 5
	idx := IndexAtPosition(7, 10, 100, m, true)
	assert.Equal(t, 1, idx)
}

func TestPositionOfIndexFixedSize(t *testing.T) {
	assert.Equal(t, 50, PositionOfIndex(5, 10, nil, false))
	assert.Equal(t, 0, PositionOfIndex(0, 10, nil, false))
}

func TestPositionOfIndexWithSizer(t *testing.T) {
	m := NewItemSizeManager(10)
	m.Measure("hello", 0) // size 5
	assert.Equal(t, 5, PositionOfIndex(1, 10, m, true))
}

func TestOffsetForIndexAlignStart(t *testing.T) {
	offset := OffsetForIndex(5, 100, 10, 40, 500, AlignStart)
	assert.Equal(t, 100, offset)
}

func TestOffsetForIndexAlignCenter(t *testing.T) {
	offset := OffsetForIndex(5, 100, 10, 40, 500, AlignCenter)
	assert.Equal(t, 100-20+5, offset)
}

func TestOffsetForIndexAlignEnd(t *testing.T) {
	offset := OffsetForIndex(5, 100, 10, 40, 500, AlignEnd)
	assert.Equal(t, 100-40+10, offset)
}

func TestOffsetForIndexClampsToMaxOffset(t *testing.T) {
	offset := OffsetForIndex(5, 1000, 10, 40, 200, AlignStart)
	assert.Equal(t, 200, offset)
}

func TestMaxOffsetNeverNegative(t *testing.T) {
	assert.Equal(t, 0, MaxOffset(50, 100))
	assert.Equal(t, 60, MaxOffset(100, 40))
}
