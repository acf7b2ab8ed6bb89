// Package vlist implements a virtual, incrementally-loaded list engine: a
// viewport that renders only the indices currently visible (plus overscan),
// backed by a paging Adapter, with an optional pipeline of feature
// enhancers (selection, search, filter, stats, velocity display, scroll
// restore) composed over a shared event bus.
//
// List is the top-level orchestrator. It owns nothing algorithmic itself —
// that lives in Virtual, ScrollingManager, RenderingManager, Collection,
// PlaceholderProfile and the feature enhancers — and instead wires those
// pieces together and exposes one public surface a host program drives.
package vlist

import (
	"context"
	"sync"
	"time"

	"go.uber.org/dig"
)

// List ties together every manager and feature enhancer for one virtual
// list instance. Each List owns a private dig.Container so multiple Lists
// in one process never share wiring state.
type List struct {
	mu sync.Mutex

	cfg      Config
	template Template
	layout   map[string]LayoutNode

	bus          *EventBus
	sizer        *ItemSizeManager
	virtual      *Virtual
	scrolling    *ScrollingManager
	scrollbar    *Scrollbar
	rendering    *RenderingManager
	collection   *Collection
	placeholders *PlaceholderProfile
	microtasks   *microtaskQueue
	debugLog     *DebugLog

	selection     *SelectionFeature
	search        *SearchFeature
	filter        *FilterFeature
	stats         *StatsFeature
	velocity      *VelocityFeature
	scrollRestore *ScrollRestoreFeature
	features      []Feature

	currentVisible Range
	currentRender  Range
	lastTotal      int
	wasFast        bool

	selectWatch func() // unsubscribes the pending awaitSelectByID handler, if any

	ctx       context.Context
	cancel    context.CancelFunc
	ticker    *time.Ticker
	tickDone  chan struct{}
	destroyed bool
}

// New builds a List from template and cfg. cfg.Adapter must be non-nil
// (wrap a fixed slice with NewStaticAdapter for an in-memory "items[]" source).
// If cfg.AutoLoad is set (the default), the initial range is requested
// before New returns.
func New(template Template, cfg Config) (*List, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layout, err := CompileLayout(cfg.Layout)
	if err != nil {
		return nil, err
	}

	l := &List{cfg: cfg, template: template, layout: layout}
	l.ctx, l.cancel = context.WithCancel(context.Background())

	container := dig.New()
	if err := wireContainer(container, cfg, template, l); err != nil {
		return nil, err
	}
	if err := container.Invoke(l.assemble); err != nil {
		return nil, err
	}

	if err := verifyCapabilities(l.features); err != nil {
		return nil, err
	}

	l.startTicker()

	if cfg.InitialScrollIndex > 0 {
		l.scrolling.ScrollToIndex(cfg.InitialScrollIndex, AlignStart)
	}
	if cfg.AutoLoad {
		if err := l.Load(l.ctx); err != nil {
			l.debugLog.Add("list", "warn", "initial load failed: %v", err)
		}
	}
	return l, nil
}

// wireContainer registers every component constructor. Components that need
// to call back into List (ScrollingManager's onRange, Collection's onLoad,
// the feature enhancers' onCommit hooks) depend on *List itself, which is
// provided once, up front, as a pointer whose fields are filled in by
// assemble after every other constructor has run — a standard late-binding
// idiom for breaking what would otherwise be a construction-order cycle.
func wireContainer(container *dig.Container, cfg Config, template Template, l *List) error {
	providers := []any{
		func() Config { return cfg },
		func() Template { return template },
		func() *List { return l },
		func() *EventBus { return NewEventBus() },
		func(cfg Config) *ItemSizeManager { return NewItemSizeManager(cfg.Virtual.ItemSize) },
		func(cfg Config, sizer *ItemSizeManager, bus *EventBus) *Virtual {
			return NewVirtual(cfg.Virtual.ItemSize, cfg.Virtual.Overscan, cfg.Virtual.MaxScroll, sizer, bus)
		},
		func(cfg Config, virtual *Virtual, bus *EventBus, l *List) *ScrollingManager {
			return NewScrollingManager(virtual, bus, cfg.Scrolling, func(visible, render Range) {
				l.handleRange(visible, render)
			})
		},
		func(virtual *Virtual, scrolling *ScrollingManager) *Scrollbar {
			return NewScrollbar(virtual, scrolling)
		},
		func(cfg Config, sizer *ItemSizeManager, template Template, bus *EventBus) *RenderingManager {
			rm := NewRenderingManager(template, sizer, cfg.Virtual.ItemSize, cfg.Performance.RecycleElements, bus)
			rm.SetMeasuring(cfg.Scrolling.MeasureItems)
			return rm
		},
		func(cfg Config, virtual *Virtual, bus *EventBus, scrolling *ScrollingManager, l *List) *Collection {
			return NewCollection(cfg.Adapter, cfg, virtual, bus, scrolling.FastScrolling, func(r Range) {
				l.handleLoad(r)
			})
		},
		func(cfg Config) *PlaceholderProfile { return NewPlaceholderProfile(cfg.PlaceholderSampleSize) },
		func() *microtaskQueue { return newMicrotaskQueue() },
		func(cfg Config) *DebugLog {
			if !cfg.Debug {
				return NewDebugLog(1) // keeps only the latest entry; non-nil, so Add never panics
			}
			return NewDebugLog(500)
		},
		func(cfg Config, bus *EventBus, l *List) *SelectionFeature {
			return NewSelectionFeature(cfg.Selection, bus, func(i int) string { return l.itemIDAt(i) })
		},
		func(cfg Config, bus *EventBus, l *List) *SearchFeature {
			return NewSearchFeature(cfg.Search, bus, func(q string) { l.handleSearchCommit(q) })
		},
		func(cfg Config, bus *EventBus, l *List) *FilterFeature {
			return NewFilterFeature(cfg.Filter, bus, func(v map[string]any) { l.handleFilterCommit(v) })
		},
		func(cfg Config, bus *EventBus) *StatsFeature { return NewStatsFeature(cfg.Stats, bus) },
		func(cfg Config, bus *EventBus) *VelocityFeature { return NewVelocityFeature(cfg.Velocity, bus) },
		func(cfg Config, bus *EventBus, l *List) *ScrollRestoreFeature {
			return NewScrollRestoreFeature(cfg.ScrollRestore, bus, func(ctx context.Context, pos int, id string) error {
				return l.reloadAt(ctx, pos, id)
			})
		},
	}
	for _, p := range providers {
		if err := container.Provide(p); err != nil {
			return err
		}
	}
	return nil
}

// assemble is invoked once every constructor above has run; it fills in
// l's fields and the enabled-feature list consulted by verifyCapabilities.
func (l *List) assemble(
	bus *EventBus,
	sizer *ItemSizeManager,
	virtual *Virtual,
	scrolling *ScrollingManager,
	scrollbar *Scrollbar,
	rendering *RenderingManager,
	collection *Collection,
	placeholders *PlaceholderProfile,
	microtasks *microtaskQueue,
	debugLog *DebugLog,
	selection *SelectionFeature,
	search *SearchFeature,
	filter *FilterFeature,
	stats *StatsFeature,
	velocity *VelocityFeature,
	scrollRestore *ScrollRestoreFeature,
) error {
	l.bus = bus
	l.sizer = sizer
	l.virtual = virtual
	l.scrolling = scrolling
	l.scrollbar = scrollbar
	l.rendering = rendering
	l.collection = collection
	l.placeholders = placeholders
	l.microtasks = microtasks
	l.debugLog = debugLog

	// Each enhancer is wired in its own microtask, run synchronously in
	// pipeline order —
	// by the time enhancer N's task runs, every earlier enhancer's field on
	// l is already set.
	cfg := l.cfg
	microtasks.scheduleSync(func() {
		if cfg.Selection.Enabled {
			l.selection = selection
			l.features = append(l.features, selection)
		}
	})
	microtasks.scheduleSync(func() {
		l.search = search
		l.features = append(l.features, search)
		collection.SetSearchQuery(search.Query)
	})
	microtasks.scheduleSync(func() {
		if len(cfg.Filter.Controls) > 0 {
			l.filter = filter
			l.features = append(l.features, filter)
			collection.SetFilters(filter.Values)
		}
	})
	microtasks.scheduleSync(func() {
		if len(cfg.Stats.Elements) > 0 {
			l.stats = stats
			l.features = append(l.features, stats)
		}
	})
	microtasks.scheduleSync(func() {
		if len(cfg.Velocity.Elements) > 0 || cfg.Velocity.TrackAverage {
			l.velocity = velocity
			l.features = append(l.features, velocity)
		}
	})
	microtasks.scheduleSync(func() {
		if cfg.ScrollRestore.Enabled {
			l.scrollRestore = scrollRestore
			l.features = append(l.features, scrollRestore)
		}
	})

	bus.On(EventDimensionsChanged, func(Event) { l.handleDimensionsChanged() })
	bus.On(EventRangeFailed, func(ev Event) {
		if len(ev.Data) == 2 {
			l.debugLog.Add("collection", "warn", "range load failed: %v (%v)", ev.Data[1], ev.Data[0])
		}
	})
	bus.On(EventRenderError, func(ev Event) {
		if len(ev.Data) == 2 {
			l.debugLog.Add("rendering", "error", "index %v: %v", ev.Data[0], ev.Data[1])
		}
	})
	return nil
}

// startTicker drives ScrollingManager.Tick once per frame and resolves the velocity-threshold cancel/resume
// transition.
func (l *List) startTicker() {
	l.ticker = time.NewTicker(16 * time.Millisecond)
	l.tickDone = make(chan struct{})
	go func() {
		for {
			select {
			case <-l.ticker.C:
				l.scrolling.Tick()
				l.handleVelocityTransition()
			case <-l.tickDone:
				return
			}
		}
	}()
}

// handleVelocityTransition re-requests the current render range once
// smoothed velocity drops back below the cancel threshold: at that point
// in-flight reads resume for whatever range is now on screen.
func (l *List) handleVelocityTransition() {
	fast := l.scrolling.FastScrolling()
	l.mu.Lock()
	was := l.wasFast
	l.wasFast = fast
	render := l.currentRender
	l.mu.Unlock()

	if fast && !was {
		l.collection.AbandonOutOfRange(render)
	} else if !fast && was {
		l.collection.EnsureRange(l.ctx, render, "velocity-settled")
	}
}

// handleRange is ScrollingManager's onRange callback. It re-renders and asks Collection to fill any gap
// in the new render range.
func (l *List) handleRange(visible, render Range) {
	l.mu.Lock()
	l.currentVisible = visible
	l.currentRender = render
	l.mu.Unlock()

	l.renderCurrent()
	if !l.scrolling.FastScrolling() {
		l.collection.EnsureRange(l.ctx, render, "scroll")
	}
}

// handleLoad is Collection's onLoad callback, invoked after a successful, non-abandoned merge.
func (l *List) handleLoad(loaded Range) {
	l.mu.Lock()
	render := l.currentRender
	l.mu.Unlock()
	if render.Empty() || loaded.End < render.Start || loaded.Start > render.End {
		return
	}
	l.renderCurrent()
}

// handleDimensionsChanged bridges Virtual's generic dimensions:changed
// notification into the more specific viewport:total-items-changed and
// total:changed events Stats and hosts subscribe to.
func (l *List) handleDimensionsChanged() {
	total := l.virtual.TotalItems()
	l.mu.Lock()
	changed := total != l.lastTotal
	l.lastTotal = total
	l.mu.Unlock()
	if !changed {
		return
	}
	l.bus.Emit(EventViewportTotalChanged, total)
	l.bus.Emit(EventTotalChanged, total)
}

// renderCurrent re-runs Rendering over the presently tracked render range,
// sampling any newly-visible real items into the placeholder profile and
// falling back to a generated placeholder for indices Collection hasn't
// filled yet.
func (l *List) renderCurrent() {
	l.mu.Lock()
	render := l.currentRender
	l.mu.Unlock()
	if render.Empty() {
		l.rendering.Clear()
		return
	}
	if err := l.rendering.Render(render, l.lookup); err != nil {
		l.debugLog.Add("rendering", "warn", "render range %d-%d: %v", render.Start, render.End, err)
	}
}

// lookup resolves index to an Item for Rendering: a real item if Collection
// has it (sampled into the placeholder profile along the way), otherwise a
// generated placeholder when enabled, otherwise "missing" so Rendering skips
// the index entirely.
func (l *List) lookup(index int) (Item, bool) {
	if item, ok := l.collection.Item(index); ok {
		l.placeholders.Sample(item)
		return item, true
	}
	if !l.cfg.PlaceholdersEnabled {
		return nil, false
	}
	return l.placeholders.Generate(index, l.cfg.PlaceholderMode), true
}

// itemIDAt resolves index to its stable ID, or "" for an unloaded or
// placeholder index.
func (l *List) itemIDAt(index int) string {
	item, ok := l.collection.Item(index)
	if !ok || IsPlaceholder(item) {
		return ""
	}
	return ItemID(item)
}

// handleSearchCommit is Search's onCommit hook. A committed query always
// updates what Collection will request next; AutoReload additionally
// forces a full reset back to index 0, as if the list were freshly loaded.
func (l *List) handleSearchCommit(query string) {
	_ = query
	if l.cfg.Search.AutoReload {
		_ = l.reloadAt(l.ctx, 0, "")
	}
}

// handleFilterCommit mirrors handleSearchCommit for Filter.
func (l *List) handleFilterCommit(values map[string]any) {
	_ = values
	if l.cfg.Filter.AutoReload {
		_ = l.reloadAt(l.ctx, 0, "")
	}
}

// reloadAt performs the coordinator-level full reset, re-issues the first
// load from the new parameters, and then scrolls to position. The first page
// is loaded synchronously because the reset leaves the total at 0, and
// ScrollToPosition clamps to the total that page reports. It is both
// ScrollRestoreFeature's reloadAt hook and the implementation behind the
// public Reload, and returns the first page's load failure, if any.
func (l *List) reloadAt(ctx context.Context, position int, selectID string) error {
	l.collection.Reload()
	l.rendering.Clear()
	l.sizer.Reset()
	if selectID != "" && l.selection != nil {
		l.awaitSelectByID(selectID)
	}
	err := l.collection.EnsureRangeSync(ctx, Range{0, 0}, "reload")
	l.scrolling.ScrollToPosition(position)
	l.mu.Lock()
	render := l.currentRender
	l.mu.Unlock()
	l.collection.EnsureRange(ctx, render, "reload")
	return err
}

// awaitSelectByID selects the first loaded index whose item resolves to id,
// the moment a range:loaded span containing it arrives — reload's selectId
// target may not be in the index space yet when reloadAt returns, since
// EnsureRange's adapter call runs asynchronously. Any previously pending
// watch is unsubscribed first, and the new one unsubscribes itself once it
// fires, so repeated Load/reloadAt calls never accumulate handlers.
func (l *List) awaitSelectByID(id string) {
	l.mu.Lock()
	if l.selectWatch != nil {
		l.selectWatch()
		l.selectWatch = nil
	}
	l.mu.Unlock()

	var once sync.Once
	var unsubscribe func()
	unsubscribe = l.bus.On(EventRangeLoaded, func(ev Event) {
		if len(ev.Data) == 0 {
			return
		}
		span, ok := ev.Data[0].(Range)
		if !ok {
			return
		}
		for i := span.Start; i <= span.End; i++ {
			if l.itemIDAt(i) == id {
				once.Do(func() {
					unsubscribe()
					l.mu.Lock()
					if l.selectWatch != nil {
						l.selectWatch = nil
					}
					l.mu.Unlock()
					l.selection.Click(i, false, false)
				})
				return
			}
		}
	})

	l.mu.Lock()
	l.selectWatch = unsubscribe
	l.mu.Unlock()
}

// Load requests the initial render range and blocks until it resolves,
// returning the adapter's aggregated failure (if any) rather than leaving a
// broken adapter to fail silently over range:failed. While the render range
// is empty (no total known yet, or a 0 viewport) it loads the first page
// instead, so the adapter can report the total. Hosts call it again after
// SetViewportSize reports the real terminal size, since the viewport is 0
// until then.
func (l *List) Load(ctx context.Context) error {
	l.mu.Lock()
	visible := l.virtual.CalculateVisibleRange(l.scrolling.Offset())
	render := l.virtual.CalculateRenderRange(visible)
	l.currentVisible = visible
	l.currentRender = render
	l.mu.Unlock()

	l.renderCurrent()

	// awaitSelectByID must subscribe before the synchronous read below, since
	// EnsureRangeSync can emit range:loaded from within this call — a
	// handler registered afterward would miss the event.
	if l.cfg.SelectID != "" && l.selection != nil {
		l.awaitSelectByID(l.cfg.SelectID)
	}

	first := render
	if first.Empty() {
		first = Range{0, 0}
	}
	err := l.collection.EnsureRangeSync(ctx, first, "initial")

	if l.cfg.SelectID == "" && l.cfg.AutoSelectFirst && l.selection != nil {
		l.selection.Click(0, false, false)
	}
	l.bus.Emit(EventItemsSet)
	return err
}

// Reload discards all loaded state and re-requests from the top.
func (l *List) Reload(ctx context.Context) error {
	if l.scrollRestore != nil {
		return l.scrollRestore.Reload(ctx)
	}
	return l.reloadAt(ctx, 0, "")
}

// SetViewportSize updates the viewport dimension (pixels along the scroll
// axis) and re-requests the current range, since a larger viewport can
// widen visibleRange/renderRange immediately.
func (l *List) SetViewportSize(size int) {
	l.virtual.SetViewport(size)
	l.mu.Lock()
	offset := l.scrolling.Offset()
	l.mu.Unlock()
	visible := l.virtual.CalculateVisibleRange(offset)
	render := l.virtual.CalculateRenderRange(visible)
	l.handleRange(visible, render)
}

// HandleWheel forwards a wheel delta to the Scrolling manager.
func (l *List) HandleWheel(delta float64) { l.scrolling.HandleWheel(delta) }

// ScrollToPosition forwards a programmatic jump to the Scrolling manager.
func (l *List) ScrollToPosition(p int) { l.scrolling.ScrollToPosition(p) }

// ScrollToIndex forwards an index-aligned jump to the Scrolling manager.
func (l *List) ScrollToIndex(i int, align ScrollAlignment) { l.scrolling.ScrollToIndex(i, align) }

// ScrollOffset returns the current scroll offset in pixel space, the
// coordinate a host needs to translate an Element's SetBounds position into
// a screen row.
func (l *List) ScrollOffset() int { return l.scrolling.Offset() }

// Scrollbar exposes the synthetic scrollbar for a host to drive from
// drag/click input.
func (l *List) Scrollbar() *Scrollbar { return l.scrollbar }

// Item resolves index the same way Rendering does: a real item if loaded,
// otherwise a generated placeholder, otherwise false.
func (l *List) Item(index int) (Item, bool) { return l.lookup(index) }

// TotalItems returns the currently known item count.
func (l *List) TotalItems() int { return l.virtual.TotalItems() }

// Click forwards to the Selection enhancer, if enabled.
func (l *List) Click(index int, shift, ctrlOrCmd bool) error {
	if l.selection == nil {
		return ErrSelectionUnavailable
	}
	l.selection.Click(index, shift, ctrlOrCmd)
	return nil
}

// IsSelected reports whether index is selected, false if selection is
// disabled.
func (l *List) IsSelected(index int) bool {
	if l.selection == nil {
		return false
	}
	return l.selection.IsSelected(index)
}

// Selected returns every selected index, or nil if selection is disabled.
func (l *List) Selected() []int {
	if l.selection == nil {
		return nil
	}
	return l.selection.Selected()
}

// SelectedIDs returns every selected item's stable ID, or nil if selection
// is disabled.
func (l *List) SelectedIDs() []string {
	if l.selection == nil {
		return nil
	}
	return l.selection.SelectedIDs()
}

// ClearSelection deselects everything, a no-op if selection is disabled.
func (l *List) ClearSelection() {
	if l.selection != nil {
		l.selection.Clear()
	}
}

// CopySelectionToClipboard copies every selected ID to the system clipboard.
func (l *List) CopySelectionToClipboard() error {
	if l.selection == nil {
		return ErrSelectionUnavailable
	}
	return l.selection.CopySelectionToClipboard()
}

// Search exposes the Search enhancer directly for hosts that need its full
// surface (Open/Close/SetQuery/Clear); it is always constructed, even when
// no search UI is wired, so _searchQuery() always has a value for Collection
// to read.
func (l *List) Search() *SearchFeature { return l.search }

// Filter exposes the Filter enhancer, or nil if no controls are configured.
func (l *List) Filter() *FilterFeature { return l.filter }

// StatsText returns the Stats enhancer's formatted text for a named layout
// element, "" if Stats is disabled.
func (l *List) StatsText(name string) string {
	if l.stats == nil {
		return ""
	}
	return l.stats.Text(name)
}

// VelocityText returns the Velocity display enhancer's formatted text for a
// named layout element, "" if disabled.
func (l *List) VelocityText(name string) string {
	if l.velocity == nil {
		return ""
	}
	return l.velocity.Text(name)
}

// VelocityHex returns the current gradient color, "" if the Velocity
// display enhancer is disabled.
func (l *List) VelocityHex() string {
	if l.velocity == nil {
		return ""
	}
	return l.velocity.Hex()
}

// SetPendingScroll forwards to the Scroll-restore enhancer, a no-op if
// disabled.
func (l *List) SetPendingScroll(position int, selectID string) {
	if l.scrollRestore != nil {
		l.scrollRestore.SetPendingScroll(position, selectID)
	}
}

// SetPendingScrollWithLookup forwards to the Scroll-restore enhancer, a
// no-op if disabled.
func (l *List) SetPendingScrollWithLookup(id, altID string, lookupPosition func(context.Context, string) (int, bool, error), fallbackPosition int) {
	if l.scrollRestore != nil {
		l.scrollRestore.SetPendingScrollWithLookup(id, altID, lookupPosition, fallbackPosition)
	}
}

// LayoutElement looks up a compiled layout node by name.
func (l *List) LayoutElement(name string) (LayoutNode, bool) {
	n, ok := l.layout[name]
	return n, ok
}

// DebugLog exposes the ring-buffer log for hosts with Config.Debug set.
func (l *List) DebugLog() *DebugLog { return l.debugLog }

// Destroy stops the per-frame ticker and the microtask queue, cancels the
// root context (aborting any in-flight adapter reads), and emits destroyed.
// A List must not be used after Destroy returns.
func (l *List) Destroy() {
	l.mu.Lock()
	if l.destroyed {
		l.mu.Unlock()
		return
	}
	l.destroyed = true
	watch := l.selectWatch
	l.selectWatch = nil
	l.mu.Unlock()

	if watch != nil {
		watch()
	}

	close(l.tickDone)
	l.ticker.Stop()
	l.microtasks.stop()
	l.cancel()
	l.bus.Emit(EventDestroyed)
}
