package hook

import (
	"testing"
	"time"
)

func TestForegroundFilter(t *testing.T) {
	tests := []struct {
		name string
		pid  uint32
	}{
		{"any_process", 0},
		{"scoped", 4242},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ForegroundFilter(tt.pid)
			if f.Event != EventForeground {
				t.Errorf("Event = %#x, want EVENT_SYSTEM_FOREGROUND", f.Event)
			}
			if f.PID != tt.pid {
				t.Errorf("PID = %d, want %d", f.PID, tt.pid)
			}
		})
	}
}

func TestSimulatorEmitsWindowAndNonWindowEvents(t *testing.T) {
	sim := &Simulator{Interval: time.Millisecond}
	sub, err := sim.Register(ForegroundFilter(0))
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	defer sub.Unregister()

	var sawWindow, sawOther bool
	deadline := time.After(2 * time.Second)
	for !sawWindow || !sawOther {
		select {
		case ev := <-sub.Events():
			switch ev.Object {
			case ObjectWindow:
				if ev.Window == 0 {
					t.Error("window event carried a zero handle")
				}
				sawWindow = true
			default:
				sawOther = true
			}
		case <-deadline:
			t.Fatalf("timed out; sawWindow=%v sawOther=%v", sawWindow, sawOther)
		}
	}
}

func TestSimulatorUnregisterClosesStream(t *testing.T) {
	sim := &Simulator{Interval: time.Millisecond}
	sub, err := sim.Register(ForegroundFilter(0))
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := sub.Unregister(); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}
	// Unregister is idempotent.
	if err := sub.Unregister(); err != nil {
		t.Fatalf("second Unregister() error = %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("event stream never closed after Unregister")
		}
	}
}

func TestSimulatorCyclesHandles(t *testing.T) {
	sim := &Simulator{
		Interval: time.Millisecond,
		Handles:  []uintptr{11, 22},
	}
	sub, err := sim.Register(ForegroundFilter(0))
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Unregister()

	seen := make(map[uintptr]bool)
	deadline := time.After(2 * time.Second)
	for len(seen) < 2 {
		select {
		case ev := <-sub.Events():
			if ev.Object != ObjectWindow {
				continue
			}
			if ev.Window != 11 && ev.Window != 22 {
				t.Fatalf("unexpected handle %d", ev.Window)
			}
			seen[ev.Window] = true
		case <-deadline:
			t.Fatalf("timed out; saw %d of 2 handles", len(seen))
		}
	}
}
