package hook

import (
	"sync"
	"time"
)

// Simulator is a Hooker that synthesizes foreground-change events on a
// timer. It backs the daemon's mock mode and lets the full pipeline run on
// platforms without a native event source.
type Simulator struct {
	// Interval between synthetic events. Defaults to one second.
	Interval time.Duration

	// Handles to cycle through as the "foreground window". Defaults to a
	// small fixed set.
	Handles []uintptr
}

var defaultHandles = []uintptr{0x10010, 0x2a0042, 0x5c03ae, 0x91f0}

func (s *Simulator) Register(f Filter) (Subscription, error) {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Second
	}
	handles := s.Handles
	if len(handles) == 0 {
		handles = defaultHandles
	}

	sub := &simSub{
		events: make(chan Event, 16),
		stop:   make(chan struct{}),
	}
	go sub.emit(interval, handles)
	return sub, nil
}

type simSub struct {
	events chan Event
	once   sync.Once
	stop   chan struct{}
}

func (s *simSub) emit(interval time.Duration, handles []uintptr) {
	defer close(s.events)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		ev := Event{Object: ObjectWindow, Window: handles[i%len(handles)]}
		// Every few ticks, interleave a non-window record; the real hook
		// reports cursor and caret objects alongside windows.
		if i%5 == 4 {
			ev = Event{Object: ObjectCursor}
		}
		i++

		select {
		case s.events <- ev:
		case <-s.stop:
			return
		}
	}
}

func (s *simSub) Events() <-chan Event { return s.events }

func (s *simSub) Unregister() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}
