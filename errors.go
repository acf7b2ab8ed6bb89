package vlist

import "errors"

// Error kinds recognized by the engine. Recoverable kinds are
// emitted on the EventBus and leave state coherent. A hard misconfiguration
// is returned as an error from New, which then builds no List; it is not
// logged, and there is no degraded mode.
var (
	// ErrAdapterFailed wraps an error returned by Adapter.Read.
	ErrAdapterFailed = errors.New("vlist: adapter failed")

	// ErrRangeMissingAfterLoad names the error kind for an adapter that
	// returned fewer items than the requested range implied. Collection does
	// not check for this case and never returns it.
	ErrRangeMissingAfterLoad = errors.New("vlist: range missing after load")

	// ErrTemplateFailed wraps an error returned from a Template call during
	// RenderingManager.Render. A panicking Template is not recovered.
	ErrTemplateFailed = errors.New("vlist: template failed")

	// ErrContainerMissing means the host never supplied a rendering surface.
	// Nothing in the package checks for this case or returns it.
	ErrContainerMissing = errors.New("vlist: container missing")

	// ErrViewportMissingInLayout means the named-layout tree has no node
	// named "viewport".
	ErrViewportMissingInLayout = errors.New("vlist: viewport missing in layout")

	// ErrSelectionUnavailable is returned by selection API calls made while
	// selection.enabled is false.
	ErrSelectionUnavailable = errors.New("vlist: selection unavailable")

	// ErrCursorJumpExceeded names the error kind for a cursor-mode jump that
	// skips pages. Collection loads cursor pages one at a time in order and
	// never returns it.
	ErrCursorJumpExceeded = errors.New("vlist: cursor jump exceeded")
)

// recoverable reports whether err is one of the kinds treated as
// recoverable (emitted on the bus, state stays coherent) as opposed to a
// hard misconfiguration, which New returns as an error.
func recoverable(err error) bool {
	switch {
	case errors.Is(err, ErrAdapterFailed),
		errors.Is(err, ErrRangeMissingAfterLoad),
		errors.Is(err, ErrTemplateFailed):
		return true
	default:
		return false
	}
}
