// Package hook provides filtered subscriptions to operating-system window
// events. A subscription is registered with an event filter and yields an
// asynchronous stream of raw window event records until it is unregistered
// or the underlying source ends.
//
// The real implementation (Windows, via SetWinEventHook) lives behind the
// Hooker interface so consumers can run against the Simulator or a test
// double on any platform.
package hook

import "errors"

// EventKind identifies a category of window events. Values match the Win32
// EVENT_* constants so the Windows implementation can pass them through
// unchanged.
type EventKind uint32

// EventForeground fires when the foreground (user-focused) window changes.
// Win32 EVENT_SYSTEM_FOREGROUND.
const EventForeground EventKind = 0x0003

// ObjectKind identifies what kind of accessible object an event refers to.
// Values match the Win32 OBJID_* constants.
type ObjectKind int32

const (
	// ObjectWindow is the window itself. Win32 OBJID_WINDOW.
	ObjectWindow ObjectKind = 0
	// ObjectCursor is the mouse cursor. Win32 OBJID_CURSOR.
	ObjectCursor ObjectKind = -9
	// ObjectCaret is the text caret. Win32 OBJID_CARET.
	ObjectCaret ObjectKind = -8
)

// Filter narrows which events a subscription receives. A zero PID means
// events from any process.
type Filter struct {
	Event EventKind
	PID   uint32
}

// ForegroundFilter builds the filter for foreground-window change events,
// optionally scoped to a single process.
func ForegroundFilter(pid uint32) Filter {
	return Filter{Event: EventForeground, PID: pid}
}

// Event is one raw window event record delivered by a subscription.
// Window is the native window handle; zero means the event carried none.
type Event struct {
	Object ObjectKind
	Window uintptr
}

// Subscription is one live event registration. Events returns the stream;
// the channel is closed when the subscription ends, whether by Unregister
// or because the source shut down on its own.
type Subscription interface {
	Events() <-chan Event
	Unregister() error
}

// Hooker registers filtered window event subscriptions.
type Hooker interface {
	Register(f Filter) (Subscription, error)
}

// ErrUnsupported is returned by Register on platforms without a native
// window event source.
var ErrUnsupported = errors.New("hook: window events not supported on this platform")
