package vlist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
)

// inflightRequest tracks one adapter call keyed by PageParams.Key(). cancel
// lets Reload stop an in-flight read; abandoned marks a request, left running
// by velocity-triggered abandonment, whose eventual result is still merged
// into the index space but does not trigger a re-render.
type inflightRequest struct {
	cancel    context.CancelFunc
	abandoned bool
}

// Collection is the paging coordinator: it owns the loaded-range
// set, the item index space, and in-flight request bookkeeping, and is the
// only component that talks to Adapter. Rather than holding a
// fully-materialized slice, it keeps a sparse index→Item map backed by
// asynchronous, partial loads.
type Collection struct {
	mu sync.Mutex

	adapter   Adapter
	strategy  PagingStrategy
	limit     int
	transform func(Item) Item

	items      map[int]Item
	totalItems int
	loaded     []Range

	inflight map[string]*inflightRequest
	sem      chan struct{}

	cursorMu   sync.Mutex
	nextCursor string
	cursorDone bool

	pendingRemoval map[string]time.Time
	pendingTTL     time.Duration

	virtual *Virtual
	bus     *EventBus
	onLoad  func(Range)

	fastScrolling func() bool
	searchQuery   func() string
	filters       func() map[string]any
	sort          []SortSpec
}

// NewCollection constructs a Collection. fastScrolling reports whether
// Scrolling's smoothed velocity currently exceeds the cancel threshold;
// onLoad is invoked after every successful, non-abandoned merge so
// Rendering can re-trigger.
func NewCollection(adapter Adapter, cfg Config, virtual *Virtual, bus *EventBus, fastScrolling func() bool, onLoad func(Range)) *Collection {
	limit := cfg.Pagination.Limit
	if limit <= 0 {
		limit = 20
	}
	concurrency := cfg.Performance.MaxConcurrentRequests
	if concurrency <= 0 {
		concurrency = 4
	}
	ttl := cfg.PendingRemovalTTL
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Collection{
		adapter:        adapter,
		strategy:       cfg.Pagination.Strategy,
		limit:          limit,
		transform:      cfg.Transform,
		items:          make(map[int]Item),
		inflight:       make(map[string]*inflightRequest),
		sem:            make(chan struct{}, concurrency),
		pendingRemoval: make(map[string]time.Time),
		pendingTTL:     ttl,
		virtual:        virtual,
		bus:            bus,
		fastScrolling:  fastScrolling,
		onLoad:         onLoad,
	}
}

// SetSearchQuery wires the Search enhancer's query accessor for the
// collection adapter to read on every request.
func (c *Collection) SetSearchQuery(fn func() string) {
	c.mu.Lock()
	c.searchQuery = fn
	c.mu.Unlock()
}

// SetFilters wires the Filter enhancer's state accessor.
func (c *Collection) SetFilters(fn func() map[string]any) {
	c.mu.Lock()
	c.filters = fn
	c.mu.Unlock()
}

// Item returns the item at index, if loaded.
func (c *Collection) Item(index int) (Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[index]
	return item, ok
}

// TotalItems returns the currently known item count.
func (c *Collection) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalItems
}

// MarkPendingRemoval records id as removed; subsequent loads filter it out
// of adapter responses until pendingTTL elapses.
func (c *Collection) MarkPendingRemoval(id string) {
	if id == "" {
		return
	}
	c.mu.Lock()
	c.pendingRemoval[id] = time.Now().Add(c.pendingTTL)
	c.mu.Unlock()
}

func (c *Collection) isPendingRemoval(id string) bool {
	if id == "" {
		return false
	}
	expiry, ok := c.pendingRemoval[id]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(c.pendingRemoval, id)
		return false
	}
	return true
}

// missingKeys computes every page/offset/cursor key covering r that is
// neither loaded nor already in flight.
func (c *Collection) missingKeys(r Range) []PageParams {
	if r.Empty() {
		return nil
	}
	var out []PageParams
	switch c.strategy {
	case StrategyCursor:
		if !c.isLoaded(r) && !c.cursorDone {
			params := c.baseParams(PageParams{Strategy: StrategyCursor, Cursor: c.nextCursor})
			if _, busy := c.inflight[params.Key()]; !busy {
				out = append(out, params)
			}
		}
		return out
	case StrategyPage:
		firstPage := r.Start / c.limit
		lastPage := r.End / c.limit
		for p := firstPage; p <= lastPage; p++ {
			pr := Range{p * c.limit, p*c.limit + c.limit - 1}
			if c.isLoaded(pr) {
				continue
			}
			params := c.baseParams(PageParams{Strategy: StrategyPage, Page: p, Limit: c.limit})
			if _, busy := c.inflight[params.Key()]; busy {
				continue
			}
			out = append(out, params)
		}
		return out
	default: // StrategyOffset
		firstPage := r.Start / c.limit
		lastPage := r.End / c.limit
		for p := firstPage; p <= lastPage; p++ {
			offset := p * c.limit
			pr := Range{offset, offset + c.limit - 1}
			if c.isLoaded(pr) {
				continue
			}
			params := c.baseParams(PageParams{Strategy: StrategyOffset, Offset: offset, Limit: c.limit})
			if _, busy := c.inflight[params.Key()]; busy {
				continue
			}
			out = append(out, params)
		}
		return out
	}
}

func (c *Collection) baseParams(p PageParams) PageParams {
	if c.limit > 0 && p.Limit == 0 {
		p.Limit = c.limit
	}
	if c.searchQuery != nil {
		p.Search = c.searchQuery()
	}
	if c.filters != nil {
		p.Filters = c.filters()
	}
	p.Sort = c.sort
	return p
}

func (c *Collection) isLoaded(r Range) bool {
	for _, lr := range c.loaded {
		if lr.Start <= r.Start && r.End <= lr.End {
			return true
		}
	}
	return false
}

func (c *Collection) markLoaded(r Range) {
	c.loaded = append(c.loaded, r)
	c.loaded = mergeRanges(c.loaded)
}

// mergeRanges collapses overlapping/adjacent ranges, keeping the loaded-set
// small regardless of request granularity.
func mergeRanges(ranges []Range) []Range {
	if len(ranges) < 2 {
		return ranges
	}
	for i := 0; i < len(ranges); i++ {
		for j := i + 1; j < len(ranges); j++ {
			a, b := ranges[i], ranges[j]
			if a.Start <= b.End+1 && b.Start <= a.End+1 {
				merged := Range{min(a.Start, b.Start), max(a.End, b.End)}
				ranges[i] = merged
				ranges = append(ranges[:j], ranges[j+1:]...)
				j--
			}
		}
	}
	return ranges
}

// EnsureRange is the primary entry point. It is safe to call
// repeatedly with overlapping ranges; already-loaded or in-flight pages are
// skipped automatically.
func (c *Collection) EnsureRange(ctx context.Context, r Range, reason string) {
	c.mu.Lock()
	if c.fastScrolling != nil && c.fastScrolling() {
		c.mu.Unlock()
		return
	}
	missing := c.missingKeys(r)
	if len(missing) == 0 {
		c.mu.Unlock()
		return
	}
	if c.strategy == StrategyCursor {
		c.mu.Unlock()
		c.readCursorSequential(ctx, missing[0])
		return
	}
	for _, params := range missing {
		reqCtx, cancel := context.WithCancel(ctx)
		c.inflight[params.Key()] = &inflightRequest{cancel: cancel}
		go c.readOne(reqCtx, params)
	}
	c.mu.Unlock()
}

// EnsureRangeSync is EnsureRange's blocking counterpart: it waits for every
// missing key in r to finish loading and returns their failures aggregated
// into one error, instead of reporting each asynchronously over range:failed.
// List.Load uses it for the initial range so a broken adapter surfaces as a
// returned error rather than a viewport that silently never fills in.
func (c *Collection) EnsureRangeSync(ctx context.Context, r Range, reason string) error {
	c.mu.Lock()
	if c.fastScrolling != nil && c.fastScrolling() {
		c.mu.Unlock()
		return nil
	}
	missing := c.missingKeys(r)
	if len(missing) == 0 {
		c.mu.Unlock()
		return nil
	}
	if c.strategy == StrategyCursor {
		c.mu.Unlock()
		c.cursorMu.Lock()
		defer c.cursorMu.Unlock()

		c.mu.Lock()
		reqCtx, cancel := context.WithCancel(ctx)
		c.inflight[missing[0].Key()] = &inflightRequest{cancel: cancel}
		c.mu.Unlock()

		return c.readOneInstall(reqCtx, missing[0])
	}

	reqCtxs := make([]context.Context, len(missing))
	for i, params := range missing {
		reqCtx, cancel := context.WithCancel(ctx)
		c.inflight[params.Key()] = &inflightRequest{cancel: cancel}
		reqCtxs[i] = reqCtx
	}
	c.mu.Unlock()

	var wg sync.WaitGroup
	errs := make([]error, len(missing))
	for i, params := range missing {
		wg.Add(1)
		go func(i int, params PageParams, reqCtx context.Context) {
			defer wg.Done()
			errs[i] = c.readOneInstall(reqCtx, params)
		}(i, params, reqCtxs[i])
	}
	wg.Wait()

	return aggregateErrors(errs...)
}

// readCursorSequential serializes cursor-mode reads one at a time: a jump
// forward forces sequential loads, not parallel, with one request in
// flight at a time, since a cursor adapter can't skip ahead without first
// walking through every intervening page.
func (c *Collection) readCursorSequential(ctx context.Context, params PageParams) {
	c.cursorMu.Lock()
	defer c.cursorMu.Unlock()

	c.mu.Lock()
	key := params.Key()
	reqCtx, cancel := context.WithCancel(ctx)
	c.inflight[key] = &inflightRequest{cancel: cancel}
	c.mu.Unlock()

	c.readOne(reqCtx, params)
}

// readOne performs a single adapter read under the concurrency semaphore
// and installs its result, emitting range:failed on the bus if it errors.
func (c *Collection) readOne(ctx context.Context, params PageParams) {
	if err := c.readOneInstall(ctx, params); err != nil {
		if c.bus != nil {
			c.bus.Emit(EventRangeFailed, params, err)
		}
	}
}

// readOneInstall is the shared core of readOne and EnsureRangeSync: it reads
// params from the adapter and installs the result, returning the adapter
// error (nil on cancellation, since that isn't a real failure) instead of
// reporting it, so callers can choose whether to emit range:failed or
// aggregate it with sibling reads.
func (c *Collection) readOneInstall(ctx context.Context, params PageParams) error {
	c.sem <- struct{}{}
	defer func() { <-c.sem }()

	result, err := c.adapter.Read(ctx, params)

	c.mu.Lock()
	key := params.Key()
	req, tracked := c.inflight[key]
	delete(c.inflight, key)
	abandoned := tracked && req.abandoned
	c.mu.Unlock()

	if ctx.Err() != nil {
		return nil // cancelled: not a real adapter failure, and any result is discarded
	}
	if err != nil {
		return err
	}

	c.install(params, result, abandoned)
	return nil
}

// install merges a successful result into the index space and emits
// range:loaded; for an abandoned request it skips onLoad, so the merge does
// not trigger a re-render.
func (c *Collection) install(params PageParams, result PageResult, abandoned bool) {
	c.mu.Lock()

	base := params.Offset
	if params.Strategy == StrategyPage {
		base = params.Page * params.Limit
	}
	if params.Strategy == StrategyCursor {
		base = len(c.items)
	}

	for i, raw := range result.Items {
		item := raw
		if c.transform != nil {
			item = c.transform(raw)
		}
		if c.isPendingRemoval(ItemID(item)) {
			continue
		}
		c.items[base+i] = item
	}

	span := Range{base, base + len(result.Items) - 1}
	if len(result.Items) > 0 {
		c.markLoaded(span)
	}

	if result.Meta.Total > 0 {
		c.totalItems = result.Meta.Total
	} else if n := base + len(result.Items); n > c.totalItems {
		c.totalItems = n
	}
	total := c.totalItems

	if params.Strategy == StrategyCursor {
		c.nextCursor = result.Meta.NextCursor
		c.cursorDone = !result.Meta.HasMore
	}

	c.mu.Unlock()

	if c.virtual != nil {
		c.virtual.SetTotalItems(total)
	}
	if c.bus != nil {
		c.bus.Emit(EventRangeLoaded, span, params)
	}
	if !abandoned && c.onLoad != nil {
		c.onLoad(span)
	}
}

// AbandonOutOfRange marks every in-flight request whose key no longer
// intersects currentRender as abandoned: the read keeps running so its data isn't wasted, but its
// arrival will not trigger a re-render.
func (c *Collection) AbandonOutOfRange(currentRender Range) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, req := range c.inflight {
		var start, limit int
		if _, err := fmt.Sscanf(key, "page:%d:%d", &start, &limit); err == nil {
			start *= limit
		} else if _, err := fmt.Sscanf(key, "offset:%d:%d", &start, &limit); err != nil {
			start, limit = len(c.items), c.limit // cursor pages append after the loaded items
		}
		if currentRender.Empty() || start > currentRender.End || start+limit-1 < currentRender.Start {
			req.abandoned = true
		}
	}
}

// Reload performs an explicit cancel-and-discard full reset: every
// in-flight request is cancelled and its eventual result discarded
// entirely, the loaded-range set and item store are cleared, and totalItems
// resets to 0 so the next EnsureRange call re-issues the first load.
func (c *Collection) Reload() {
	c.mu.Lock()
	for _, req := range c.inflight {
		req.cancel()
	}
	c.inflight = make(map[string]*inflightRequest)
	c.items = make(map[int]Item)
	c.loaded = nil
	c.totalItems = 0
	c.nextCursor = ""
	c.cursorDone = false
	c.mu.Unlock()

	if c.virtual != nil {
		c.virtual.SetTotalItems(0)
	}
	if c.bus != nil {
		c.bus.Emit(EventReloadStart)
	}
}

// aggregateErrors collects the per-request failures from EnsureRangeSync's
// fan-out into a single error, rather than reporting each one individually
// over range:failed the way the fire-and-forget EnsureRange path does.
func aggregateErrors(errs...error) error {
	var result *multierror.Error
	for _, e := range errs {
		if e != nil {
			result = multierror.Append(result, e)
		}
	}
	return result.ErrorOrNil()
}
