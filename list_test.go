package vlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeElement struct {
	x, y, w, h int
}

func (e *fakeElement) SetBounds(x, y, w, h int)      { e.x, e.y, e.w, e.h = x, y, w, h }
func (e *fakeElement) Bounds() (int, int, int, int) { return e.x, e.y, e.w, e.h }

func testTemplate(item Item, index int, reuse Element) (Element, error) {
	if reuse != nil {
		return reuse, nil
	}
	return &fakeElement{}, nil
}

func testItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{"id": string(rune('a' + i)), "title": "item"}
	}
	return items
}

func newTestList(t *testing.T, n int) *List {
	t.Helper()
	cfg := DefaultConfig(NewStaticAdapter(testItems(n)))
	cfg.Virtual.ItemSize = 1
	cfg.Virtual.Overscan = 1
	list, err := New(testTemplate, cfg)
	require.NoError(t, err)
	list.SetViewportSize(5)
	t.Cleanup(list.Destroy)
	return list
}

func TestNewListDefaults(t *testing.T) {
	list := newTestList(t, 20)
	assert.NotNil(t, list)
	assert.NotNil(t, list.Scrollbar())
}

func TestNewListRequiresAdapter(t *testing.T) {
	cfg := DefaultConfig(nil)
	_, err := New(testTemplate, cfg)
	assert.Error(t, err)
}

func TestListLoadPopulatesTotal(t *testing.T) {
	list := newTestList(t, 20)
	require.NoError(t, list.Load(context.Background()))
	assert.Eventually(t, func() bool {
		return list.TotalItems() == 20
	}, time.Second, 5*time.Millisecond)
}

func TestListItemLookupFallsBackToPlaceholder(t *testing.T) {
	list := newTestList(t, 0)
	item, ok := list.Item(0)
	assert.True(t, ok)
	assert.True(t, IsPlaceholder(item))
}

func TestListClickWithoutSelectionDisabled(t *testing.T) {
	list := newTestList(t, 10)
	assert.False(t, list.cfg.Selection.Enabled)
	err := list.Click(0, false, false)
	assert.ErrorIs(t, err, ErrSelectionUnavailable)
}

func TestListClickWithSelectionEnabled(t *testing.T) {
	cfg := DefaultConfig(NewStaticAdapter(testItems(10)))
	cfg.Virtual.ItemSize = 1
	cfg.Selection.Enabled = true
	list, err := New(testTemplate, cfg)
	require.NoError(t, err)
	defer list.Destroy()
	list.SetViewportSize(5)

	require.NoError(t, list.Click(0, false, false))
	assert.True(t, list.IsSelected(0))
	assert.Equal(t, []int{0}, list.Selected())
}

func TestListScrollToIndexMovesOffset(t *testing.T) {
	list := newTestList(t, 100)
	list.ScrollToIndex(10, AlignStart)
	assert.Greater(t, list.scrolling.Offset(), 0)
}

func TestListReloadResetsState(t *testing.T) {
	list := newTestList(t, 20)
	require.NoError(t, list.Load(context.Background()))
	assert.Eventually(t, func() bool { return list.TotalItems() == 20 }, time.Second, 5*time.Millisecond)

	require.NoError(t, list.Reload(context.Background()))
	assert.Equal(t, 0, list.scrolling.Offset())
}

func TestListScrollRestoreAppliesPendingOnReload(t *testing.T) {
	cfg := DefaultConfig(NewStaticAdapter(testItems(20)))
	cfg.Virtual.ItemSize = 1
	cfg.ScrollRestore.Enabled = true
	cfg.ScrollRestore.AutoClear = true
	list, err := New(testTemplate, cfg)
	require.NoError(t, err)
	defer list.Destroy()
	list.SetViewportSize(5)

	list.SetPendingScroll(7, "")
	require.NoError(t, list.Reload(context.Background()))
	assert.Equal(t, 7, list.scrolling.Offset())

	// AutoClear means a second reload goes back to the top.
	require.NoError(t, list.Reload(context.Background()))
	assert.Equal(t, 0, list.scrolling.Offset())
}

func TestListLoadReturnsAggregatedAdapterError(t *testing.T) {
	boom := errors.New("boom")
	cfg := DefaultConfig(&failingAdapter{err: boom})
	cfg.Virtual.ItemSize = 1
	cfg.AutoLoad = false
	list, err := New(testTemplate, cfg)
	require.NoError(t, err)
	defer list.Destroy()
	list.SetViewportSize(5)

	err = list.Load(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestListAwaitSelectByIDDoesNotAccumulateHandlers(t *testing.T) {
	list := newTestList(t, 20)

	list.awaitSelectByID("a")
	list.awaitSelectByID("b")
	list.awaitSelectByID("c")

	list.bus.mu.RLock()
	count := len(list.bus.handlers[EventRangeLoaded])
	list.bus.mu.RUnlock()

	assert.Equal(t, 1, count, "repeated awaitSelectByID calls should replace the prior watch, not accumulate handlers")
}

func TestListAwaitSelectByIDUnsubscribesOnceItFires(t *testing.T) {
	list := newTestList(t, 20)
	require.NoError(t, list.Load(context.Background()))

	assert.Eventually(t, func() bool { return list.TotalItems() == 20 }, time.Second, 5*time.Millisecond)
	list.awaitSelectByID("a")
	assert.Eventually(t, func() bool {
		list.bus.mu.RLock()
		defer list.bus.mu.RUnlock()
		return len(list.bus.handlers[EventRangeLoaded]) == 0
	}, time.Second, 5*time.Millisecond, "the watch should unsubscribe itself once the target id resolves")
}

func TestListRepeatedReloadWithSelectIDDoesNotAccumulateHandlers(t *testing.T) {
	cfg := DefaultConfig(NewStaticAdapter(testItems(20)))
	cfg.Virtual.ItemSize = 1
	list, err := New(testTemplate, cfg)
	require.NoError(t, err)
	defer list.Destroy()
	list.SetViewportSize(5)

	for i := 0; i < 5; i++ {
		require.NoError(t, list.reloadAt(context.Background(), 0, "a"))
	}

	list.bus.mu.RLock()
	count := len(list.bus.handlers[EventRangeLoaded])
	list.bus.mu.RUnlock()

	assert.LessOrEqual(t, count, 1, "reloadAt with a selectID should never leave more than one pending watch")
}

func TestListDestroyIsIdempotent(t *testing.T) {
	list := newTestList(t, 5)
	list.Destroy()
	assert.NotPanics(t, func() { list.Destroy() })
}

func TestListLayoutElementLookup(t *testing.T) {
	list := newTestList(t, 5)
	_, ok := list.LayoutElement("nonexistent-element")
	assert.False(t, ok)
}

func TestListDebugLogDisabledIsInert(t *testing.T) {
	list := newTestList(t, 5)
	assert.NotPanics(t, func() {
		list.DebugLog().Add("list", "info", "noop")
	})
}
