// Package listener relays foreground-window change events from a native
// hook subscription to a host callback, one invocation at a time.
package listener

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"

	"github.com/focusrelay/focusd/internal/bridge"
	"github.com/focusrelay/focusd/internal/hook"
)

// Listener owns at most one running subscription task. Start and Stop are
// expected to be called from a single goroutine; the mutex is a safety net
// so a racing Start cannot corrupt the task bookkeeping, not a
// coordination mechanism.
type Listener struct {
	hooker hook.Hooker
	submit bridge.Submitter

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates a listener that registers subscriptions with h and delivers
// callbacks through s.
func New(h hook.Hooker, s bridge.Submitter) *Listener {
	return &Listener{hooker: h, submit: s}
}

// Start begins delivering foreground-window changes to fn, scoped to pid
// when pid is non-zero. A task already running on this listener is
// cancelled first; cancellation is fire-and-forget, the new task does not
// wait for the old one's teardown. Start never blocks and never fails;
// registration errors surface asynchronously in the task's log output.
func (l *Listener) Start(pid uint32, fn bridge.Callback) {
	ctx, cancel := context.WithCancel(context.Background())

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.cancel = cancel
	l.mu.Unlock()

	go run(ctx, l.hooker, hook.ForegroundFilter(pid), bridge.New(l.submit, fn))
}

// Stop cancels the running task, if any. Calling Stop with no active task
// is a no-op.
func (l *Listener) Stop() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()
}

// run is the subscription task: register, consume the stream, forward
// window records, unregister on the way out.
func run(ctx context.Context, h hook.Hooker, f hook.Filter, br *bridge.Bridge) {
	sub, err := h.Register(f)
	if err != nil {
		log.Printf("listener: hook registration failed: %v", err)
		return
	}
	defer func() {
		if err := sub.Unregister(); err != nil {
			log.Printf("listener: unhook failed: %v", err)
		}
	}()

	for {
		// Checked before the blocking select: when cancellation and a
		// queued event are both ready, select picks at random, and a
		// cancelled task must not keep draining the stream.
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				// Source ended on its own; the deferred unregister
				// releases the native registration.
				return
			}
			if ev.Object != hook.ObjectWindow {
				continue
			}
			if _, err := br.Call(ctx, WindowID(ev.Window)); err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				// A single failed delivery does not end the
				// subscription; keep consuming.
				log.Printf("listener: callback delivery failed: %v", err)
			}
		}
	}
}

// WindowID renders a native window handle as the identifier string handed
// to callbacks: the handle's signed integer value in decimal. A zero
// handle renders as "0". The round-trip through int keeps the sign
// extension tied to the platform word size.
func WindowID(h uintptr) string {
	return strconv.FormatInt(int64(int(h)), 10)
}
