// Package vlist implements a virtual list engine: it renders, windows, and
// streams arbitrarily large, remotely-paged item collections into a
// fixed-size viewport at constant per-frame cost.
//
// # Core responsibilities
//
//   - mapping scroll position to a contiguous range of item indices with
//     overscan (Virtual, ViewportMath)
//   - coordinating asynchronous range loads through a paging Adapter while
//     the user scrolls, including velocity-aware cancellation (Collection,
//     Scrolling)
//   - recycling and positioning a small pool of rendered elements (Rendering)
//   - maintaining a synthetic scrollbar for datasets whose true size exceeds
//     the host platform's scroll range (Scrollbar)
//   - composing orthogonal concerns (selection, search, filter, stats,
//     velocity display, scroll restore) as independent Feature enhancers
//     sharing one EventBus and one named Layout registry
//
// # Out of scope
//
// The templating layer (Template, consumes an item and index, returns an
// Element), the paging Adapter (a caller-supplied Read), the visual theming
// system, and the concrete host rendering surface are all external
// collaborators. This package only positions opaque Elements; it never
// decides how they look.
//
// # Layout
//
// One flat package: algorithm types
// (ItemSizeManager, Virtual, Scrolling, Scrollbar, Rendering, Collection,
// Placeholder) live at the root alongside the feature pipeline (Feature,
// Layout, EventBus) and the six bundled enhancers (feature_*.go). List ties
// everything together and is the entry point most callers need.
package vlist
