package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/focusrelay/focusd/internal/proc"
	"github.com/focusrelay/focusd/internal/state"
)

// newTestBroadcaster builds a broadcaster without the snapshot ticker so
// tests control exactly what gets sent.
func newTestBroadcaster(store *state.Store, throttle time.Duration) *Broadcaster {
	return &Broadcaster{
		clients:  make(map[*client]bool),
		store:    store,
		throttle: throttle,
	}
}

// addFakeClient registers a client that has a send buffer but no
// connection; broadcast only ever touches the send channel.
func addFakeClient(b *Broadcaster, buffer int) *client {
	c := &client{send: make(chan []byte, buffer)}
	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()
	return c
}

func recvMessage(t *testing.T, c *client) Message {
	t.Helper()
	select {
	case data := <-c.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
		return Message{}
	}
}

func TestQueueFocusBatchesWithinThrottle(t *testing.T) {
	b := newTestBroadcaster(state.NewStore(8), 20*time.Millisecond)
	c := addFakeClient(b, 4)

	b.QueueFocus(state.Focus{Seq: 1, WindowID: "100"})
	b.QueueFocus(state.Focus{Seq: 2, WindowID: "200"})

	msg := recvMessage(t, c)
	if msg.Type != MsgFocus {
		t.Fatalf("message type = %q, want %q", msg.Type, MsgFocus)
	}

	raw, _ := json.Marshal(msg.Payload)
	var payload FocusPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Events) != 2 {
		t.Fatalf("batch size = %d, want 2", len(payload.Events))
	}
	if payload.Events[0].WindowID != "100" || payload.Events[1].WindowID != "200" {
		t.Errorf("batch order wrong: %+v", payload.Events)
	}
}

func TestFlushWithNothingPendingIsSilent(t *testing.T) {
	b := newTestBroadcaster(state.NewStore(8), time.Millisecond)
	c := addFakeClient(b, 4)

	b.flush()

	select {
	case data := <-c.send:
		t.Fatalf("unexpected broadcast: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSlowClientDisconnected(t *testing.T) {
	b := newTestBroadcaster(state.NewStore(8), time.Millisecond)
	c := addFakeClient(b, 1)

	// Fill the client's buffer so the next broadcast cannot be delivered.
	c.send <- []byte("stall")

	b.broadcast(Message{Type: MsgFocus, Payload: FocusPayload{}})

	if got := b.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d, want 0 after slow client drop", got)
	}
}

func TestSnapshotMessageReflectsStore(t *testing.T) {
	store := state.NewStore(8)
	store.Record("100", time.Now())
	store.Record("200", time.Now())

	b := newTestBroadcaster(store, time.Millisecond)
	b.watch = &proc.Info{PID: 42, Name: "chrome"}

	msg := b.snapshotMessage()
	if msg.Type != MsgSnapshot {
		t.Fatalf("message type = %q, want %q", msg.Type, MsgSnapshot)
	}

	payload, ok := msg.Payload.(SnapshotPayload)
	if !ok {
		t.Fatalf("payload type = %T, want SnapshotPayload", msg.Payload)
	}
	if payload.Current == nil || payload.Current.WindowID != "200" {
		t.Errorf("Current = %+v, want window 200", payload.Current)
	}
	if len(payload.Recent) != 2 {
		t.Errorf("len(Recent) = %d, want 2", len(payload.Recent))
	}
	if payload.Watch == nil || payload.Watch.PID != 42 {
		t.Errorf("Watch = %+v, want pid 42", payload.Watch)
	}
}

func TestRemoveClientIdempotent(t *testing.T) {
	b := newTestBroadcaster(state.NewStore(8), time.Millisecond)
	c := addFakeClient(b, 1)

	b.RemoveClient(c)
	b.RemoveClient(c)

	if got := b.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d, want 0", got)
	}
}
