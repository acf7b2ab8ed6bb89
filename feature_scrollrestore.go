package vlist

import (
	"context"
	"sync"
)

// pendingScroll is the scroll-restore target recorded by SetPendingScroll
// or SetPendingScrollWithLookup, consumed by the next Reload call.
type pendingScroll struct {
	position int
	selectID string

	lookup           func(ctx context.Context, id string) (int, bool, error)
	id, altID        string
	fallbackPosition int
	hasFallback      bool
}

// ScrollRestoreFeature is the Scroll-restore enhancer: records
// where the list should land after its next reload, then resolves and
// applies that position from its own Reload wrapper.
type ScrollRestoreFeature struct {
	mu sync.Mutex

	cfg     ScrollRestoreConfig
	pending *pendingScroll

	bus      *EventBus
	reloadAt func(ctx context.Context, position int, selectID string) error

	store *FileScrollStore
}

// NewScrollRestoreFeature constructs the Scroll-restore enhancer. reloadAt
// performs the actual reload-and-scroll-to-position once a pending target
// has been resolved (typically wired to List.ReloadAt).
func NewScrollRestoreFeature(cfg ScrollRestoreConfig, bus *EventBus, reloadAt func(context.Context, int, string) error) *ScrollRestoreFeature {
	f := &ScrollRestoreFeature{cfg: cfg, bus: bus, reloadAt: reloadAt}
	if cfg.StorePath != "" {
		if store, err := NewFileScrollStore(cfg.StorePath); err == nil {
			f.store = store
		}
	}
	return f
}

func (f *ScrollRestoreFeature) Name() string       { return "scroll-restore" }
func (f *ScrollRestoreFeature) Provides() []string { return []string{"scroll-restore"} }
func (f *ScrollRestoreFeature) Requires() []string { return []string{"lifecycle", "events"} }

// SetPendingScroll records a direct position target.
func (f *ScrollRestoreFeature) SetPendingScroll(position int, selectID string) {
	f.mu.Lock()
	f.pending = &pendingScroll{position: position, selectID: selectID}
	f.mu.Unlock()
	if f.store != nil {
		f.store.Save(position, selectID)
	}
	if f.bus != nil {
		f.bus.Emit(EventScrollRestorePending, position, selectID)
	}
}

// SetPendingScrollWithLookup records an ID-based target resolved later via
// lookup. altID is tried if the primary id can't be resolved;
// fallbackPosition is used if neither resolves.
func (f *ScrollRestoreFeature) SetPendingScrollWithLookup(id, altID string, lookupPosition func(ctx context.Context, id string) (int, bool, error), fallbackPosition int) {
	f.mu.Lock()
	f.pending = &pendingScroll{
		id: id, altID: altID,
		lookup:           lookupPosition,
		fallbackPosition: fallbackPosition,
		hasFallback:      true,
		selectID:         id,
	}
	f.mu.Unlock()
	if f.bus != nil {
		f.bus.Emit(EventScrollRestorePending, id)
	}
}

// Clear discards any pending scroll target.
func (f *ScrollRestoreFeature) Clear() {
	f.mu.Lock()
	f.pending = nil
	f.mu.Unlock()
	if f.bus != nil {
		f.bus.Emit(EventScrollRestoreCleared)
	}
}

// Reload resolves any pending target and, if one exists, calls reloadAt
// with the resolved (position, selectID); otherwise it calls reloadAt(0,
// "") — an ordinary reload to the top. A resolved target is cleared
// automatically when AutoClear is set.
func (f *ScrollRestoreFeature) Reload(ctx context.Context) error {
	f.mu.Lock()
	pending := f.pending
	autoClear := f.cfg.AutoClear
	f.mu.Unlock()

	if pending == nil {
		return f.reloadAt(ctx, 0, "")
	}

	position, selectID := pending.position, pending.selectID
	if pending.lookup != nil {
		if p, ok, err := pending.lookup(ctx, pending.id); err == nil && ok {
			position, selectID = p, pending.id
		} else if pending.altID != "" {
			if p, ok, err := pending.lookup(ctx, pending.altID); err == nil && ok {
				position, selectID = p, pending.altID
			} else if pending.hasFallback {
				position = pending.fallbackPosition
			}
		} else if pending.hasFallback {
			position = pending.fallbackPosition
		}
	}

	if autoClear {
		f.mu.Lock()
		f.pending = nil
		f.mu.Unlock()
	}
	if f.bus != nil {
		f.bus.Emit(EventScrollRestoreApplied, position, selectID)
	}
	return f.reloadAt(ctx, position, selectID)
}
