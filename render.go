package vlist

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Element is the host-side rendering unit a Template produces and
// RenderingManager positions and recycles, a single addressable object per
// rendered item, so positioning and recycling are engine concerns
// independent of what a given host draws.
type Element interface {
	SetBounds(x, y, w, h int)
	Bounds() (x, y, w, h int)
}

// Template builds or refreshes the Element representing item at index. When
// reuse is non-nil (an element returned to the recycle pool by a previous
// Render call), implementations should update it in place rather than
// allocate a new one every frame.
type Template func(item Item, index int, reuse Element) (Element, error)

// ItemLookup resolves the Item at index, reporting false for an index not
// yet loaded (a gap Collection hasn't filled, which PlaceholderProfile
// normally covers before Render ever sees it).
type ItemLookup func(index int) (Item, bool)

// RenderingManager mounts, positions, and recycles Elements for the current
// render range: compute the visible span, render exactly that span, nothing
// else. An Element pool is addressed by item index and positioned in pixel
// space via ItemSizeManager rather than a fixed terminal line grid.
type RenderingManager struct {
	mu sync.Mutex

	template Template
	sizer    *ItemSizeManager
	itemSize int
	measure  bool

	recycle bool
	mounted map[int]Element
	free    []Element

	bus *EventBus
}

// NewRenderingManager creates a manager bound to template. sizer is used for
// positioning when measuring is enabled; itemSize is the fixed-size fallback.
func NewRenderingManager(template Template, sizer *ItemSizeManager, itemSize int, recycleElements bool, bus *EventBus) *RenderingManager {
	return &RenderingManager{
		template: template,
		sizer:    sizer,
		itemSize: itemSize,
		recycle:  recycleElements,
		mounted:  make(map[int]Element),
		bus:      bus,
	}
}

// SetMeasuring toggles whether element positions are computed from
// ItemSizeManager (dynamic) or the fixed itemSize.
func (rm *RenderingManager) SetMeasuring(on bool) {
	rm.mu.Lock()
	rm.measure = on
	rm.mu.Unlock()
}

// Mounted returns the Element currently mounted at index, if any.
func (rm *RenderingManager) Mounted(index int) (Element, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	el, ok := rm.mounted[index]
	return el, ok
}

// Render mounts every index in render, positions each at its computed
// offset, and unmounts anything previously mounted outside render. Elements
// that fall out of range are recycled rather than discarded when recycling
// is enabled, rather than rebuilt every frame. A template failure for one
// index is aggregated and does not prevent the rest of the range from
// rendering; every failure also emits render:error.
func (rm *RenderingManager) Render(render Range, lookup ItemLookup) error {
	rm.mu.Lock()
	itemSize, measure, sizer, template, recycle := rm.itemSize, rm.measure, rm.sizer, rm.template, rm.recycle
	rm.mu.Unlock()

	wanted := make(map[int]bool, render.Count())
	var errs *multierror.Error

	for i := render.Start; i <= render.End && !render.Empty(); i++ {
		wanted[i] = true
		item, ok := lookup(i)
		if !ok {
			continue
		}

		rm.mu.Lock()
		_, isMounted := rm.mounted[i]
		rm.mu.Unlock()
		if isMounted {
			continue
		}

		var reuse Element
		if recycle {
			rm.mu.Lock()
			if n := len(rm.free); n > 0 {
				reuse = rm.free[n-1]
				rm.free = rm.free[:n-1]
			}
			rm.mu.Unlock()
		}

		el, err := template(item, i, reuse)
		if err != nil {
			wrapped := fmt.Errorf("render index %d: %w: %w", i, ErrTemplateFailed, err)
			errs = multierror.Append(errs, wrapped)
			if rm.bus != nil {
				rm.bus.Emit(EventRenderError, i, wrapped)
			}
			continue
		}

		pos := PositionOfIndex(i, itemSize, sizer, measure)
		size := itemSize
		if measure && sizer != nil {
			size = sizer.SizeOf(i)
		}
		el.SetBounds(0, pos, 0, size)

		rm.mu.Lock()
		rm.mounted[i] = el
		rm.mu.Unlock()
	}

	rm.mu.Lock()
	for i, el := range rm.mounted {
		if wanted[i] {
			continue
		}
		delete(rm.mounted, i)
		if recycle {
			rm.free = append(rm.free, el)
		}
	}
	rm.mu.Unlock()

	if rm.bus != nil {
		rm.bus.Emit(EventViewportRendered, render)
	}
	return errs.ErrorOrNil()
}

// Clear unmounts every element without recycling it — used on a full reset
// (search/filter re-entry, Reload).
func (rm *RenderingManager) Clear() {
	rm.mu.Lock()
	rm.mounted = make(map[int]Element)
	rm.free = nil
	rm.mu.Unlock()
}

