//go:build windows

package hook

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	wineventOutOfContext = 0x0000

	// Private messages used to wake the pump thread from its GetMessage
	// wait. WM_APP range is reserved for application use.
	wmWake = 0x8000 + 1

	// Events queued per subscription before new ones are dropped. The
	// foreground rarely changes faster than a consumer can drain, so this
	// only matters when a consumer stalls.
	eventBuffer = 128
)

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procSetWinEventHook    = user32.NewProc("SetWinEventHook")
	procUnhookWinEvent     = user32.NewProc("UnhookWinEvent")
	procGetMessageW        = user32.NewProc("GetMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
)

// System returns the process-wide hooker backed by Win32 SetWinEventHook.
// The event pump thread behind it is started on first use and runs for the
// remainder of the process.
func System() Hooker {
	pumpOnce.Do(func() {
		systemPump = &pump{
			subs:  make(map[uintptr]*winSub),
			reqs:  make(chan request, 8),
			ready: make(chan struct{}),
		}
		go systemPump.run()
		<-systemPump.ready
	})
	return systemPump
}

var (
	pumpOnce   sync.Once
	systemPump *pump
)

// pump owns the single OS thread that all win-event hooks live on. Win32
// delivers out-of-context WinEvents through the message queue of the thread
// that installed the hook, so installation, removal, and event delivery all
// have to happen on one pumping thread.
type pump struct {
	threadID uint32
	ready    chan struct{}
	reqs     chan request

	mu   sync.Mutex
	subs map[uintptr]*winSub // keyed by hook handle
}

type request struct {
	attach *Filter
	detach uintptr
	reply  chan result
}

type result struct {
	sub *winSub
	err error
}

type msg struct {
	hwnd    uintptr
	message uint32
	wparam  uintptr
	lparam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

func (p *pump) run() {
	// Hooks are bound to the installing thread; keep it pinned for the
	// life of the process.
	runtime.LockOSThread()
	p.threadID = windows.GetCurrentThreadId()

	// Creating the message queue before signalling ready guarantees
	// PostThreadMessage from other goroutines cannot be lost.
	var m msg
	peekMessage(&m)
	close(p.ready)

	for {
		r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(r) == -1 {
			continue
		}
		if m.message == wmWake {
			p.drainRequests()
		}
	}
}

var procPeekMessageW = user32.NewProc("PeekMessageW")

// peekMessage forces creation of the calling thread's message queue.
func peekMessage(m *msg) {
	procPeekMessageW.Call(uintptr(unsafe.Pointer(m)), 0, wmWake, wmWake, 0)
}

func (p *pump) drainRequests() {
	for {
		select {
		case req := <-p.reqs:
			switch {
			case req.attach != nil:
				req.reply <- p.attach(*req.attach)
			case req.detach != 0:
				req.reply <- result{err: p.detach(req.detach)}
			}
		default:
			return
		}
	}
}

// attach runs on the pump thread.
func (p *pump) attach(f Filter) result {
	h, _, err := procSetWinEventHook.Call(
		uintptr(f.Event), uintptr(f.Event),
		0, winEventProc,
		uintptr(f.PID), 0,
		wineventOutOfContext,
	)
	if h == 0 {
		return result{err: fmt.Errorf("SetWinEventHook: %w", err)}
	}
	sub := &winSub{pump: p, handle: h, events: make(chan Event, eventBuffer)}
	p.mu.Lock()
	p.subs[h] = sub
	p.mu.Unlock()
	return result{sub: sub}
}

// detach runs on the pump thread.
func (p *pump) detach(handle uintptr) error {
	p.mu.Lock()
	sub, ok := p.subs[handle]
	delete(p.subs, handle)
	p.mu.Unlock()
	if !ok {
		return nil
	}
	close(sub.events)
	r, _, err := procUnhookWinEvent.Call(handle)
	if r == 0 {
		return fmt.Errorf("UnhookWinEvent: %w", err)
	}
	return nil
}

func (p *pump) request(req request) result {
	req.reply = make(chan result, 1)
	p.reqs <- req
	procPostThreadMessageW.Call(uintptr(p.threadID), wmWake, 0, 0)
	return <-req.reply
}

func (p *pump) Register(f Filter) (Subscription, error) {
	res := p.request(request{attach: &f})
	if res.err != nil {
		return nil, res.err
	}
	return res.sub, nil
}

// winEventProc is shared by every hook the pump installs; events are routed
// to their subscription by hook handle. It runs on the pump thread while
// GetMessage is dispatching, so it must not block.
// NewCallback requires every argument to be uintptr sized; idObject is a
// signed LONG and gets reinterpreted below.
var winEventProc = windows.NewCallback(func(hook, event, hwnd, idObject, idChild, idEventThread, eventTime uintptr) uintptr {
	p := systemPump
	p.mu.Lock()
	sub := p.subs[hook]
	p.mu.Unlock()
	if sub == nil {
		return 0
	}
	select {
	case sub.events <- Event{Object: ObjectKind(int32(uint32(idObject))), Window: hwnd}:
	default:
		log.Printf("hook: event queue full, dropping event for hwnd %#x", hwnd)
	}
	return 0
})

type winSub struct {
	pump   *pump
	handle uintptr
	once   sync.Once
	events chan Event
}

func (s *winSub) Events() <-chan Event { return s.events }

func (s *winSub) Unregister() error {
	var err error
	s.once.Do(func() {
		err = s.pump.request(request{detach: s.handle}).err
	})
	return err
}
