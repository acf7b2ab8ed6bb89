package vlist

import (
	"context"
	"fmt"
)

// SortSpec names a single sort key and direction, passed through to Adapter
// implementations verbatim. The engine never interprets it.
type SortSpec struct {
	Field      string
	Descending bool
}

// PageParams describes one page request. Exactly the fields
// relevant to Strategy are meaningful; Collection never sets Offset and
// Cursor on the same request.
type PageParams struct {
	Strategy PagingStrategy

	Offset int // StrategyOffset
	Page   int // StrategyPage
	Cursor string // StrategyCursor; empty on the first request

	Limit int

	Sort    []SortSpec
	Filters map[string]any
	Search  string
}

// Key returns the paging key Collection uses to dedupe in-flight and
// already-loaded requests.
func (p PageParams) Key() string {
	switch p.Strategy {
	case StrategyPage:
		return fmt.Sprintf("page:%d:%d", p.Page, p.Limit)
	case StrategyCursor:
		return fmt.Sprintf("cursor:%s", p.Cursor)
	default:
		return fmt.Sprintf("offset:%d:%d", p.Offset, p.Limit)
	}
}

// Meta carries the bookkeeping an Adapter reports alongside a page of
// items: Total drives Virtual.SetTotalItems, NextCursor/HasMore drive
// cursor-mode continuation.
type Meta struct {
	Total      int
	NextCursor string
	HasMore    bool
}

// PageResult is what Adapter.Read returns: the items for the requested page
// plus Meta.
type PageResult struct {
	Items []Item
	Meta  Meta
}

// Adapter is the sole external data-fetching collaborator. A List
// never talks to a data source directly; it always goes through an Adapter,
// which keeps paging strategy, transport, and storage decisions entirely
// outside the engine. Implementations should honor ctx cancellation
// promptly — Collection cancels in-flight reads on Reload() and when the List
// is destroyed; fast scrolling leaves them running.
type Adapter interface {
	Read(ctx context.Context, params PageParams) (PageResult, error)
}

// StaticAdapter serves a fixed, fully in-memory slice of items.
// Strategy is ignored: every PageParams is interpreted as an offset/limit
// window over Items, since a static list has no notion of cursors or
// out-of-order pages.
type StaticAdapter struct {
	Items []Item
}

// NewStaticAdapter wraps items as an Adapter.
func NewStaticAdapter(items []Item) *StaticAdapter {
	return &StaticAdapter{Items: items}
}

func (a *StaticAdapter) Read(ctx context.Context, params PageParams) (PageResult, error) {
	if err := ctx.Err(); err != nil {
		return PageResult{}, err
	}
	offset := params.Offset
	if params.Strategy == StrategyPage {
		offset = params.Page * params.Limit
	}
	limit := params.Limit
	if limit <= 0 {
		limit = len(a.Items)
	}
	if offset >= len(a.Items) || offset < 0 {
		return PageResult{Meta: Meta{Total: len(a.Items)}}, nil
	}
	end := offset + limit
	if end > len(a.Items) {
		end = len(a.Items)
	}
	return PageResult{
		Items: append([]Item(nil), a.Items[offset:end]...),
		Meta:  Meta{Total: len(a.Items)},
	}, nil
}
