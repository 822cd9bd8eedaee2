package relay

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/focusrelay/focusd/internal/proc"
	"github.com/focusrelay/focusd/internal/state"
	"github.com/gorilla/websocket"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *client) close() {
	close(c.send)
}

// Broadcaster fans focus events out to websocket clients. Events are
// batched for up to the throttle interval before being flushed; a full
// snapshot goes out periodically and to every newly connected client.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]bool

	store *state.Store
	watch *proc.Info

	throttle       time.Duration
	snapshotTicker *time.Ticker
	pendingEvents  []state.Focus
	flushTimer     *time.Timer
	flushMu        sync.Mutex
}

func NewBroadcaster(store *state.Store, watch *proc.Info, throttle, snapshotInterval time.Duration) *Broadcaster {
	b := &Broadcaster{
		clients:  make(map[*client]bool),
		store:    store,
		watch:    watch,
		throttle: throttle,
	}

	b.snapshotTicker = time.NewTicker(snapshotInterval)
	go b.snapshotLoop()

	return b
}

func (b *Broadcaster) AddClient(conn *websocket.Conn) *client {
	c := newClient(conn)

	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()

	data, _ := json.Marshal(b.snapshotMessage())

	select {
	case c.send <- data:
	default:
		// Client too slow, drop the snapshot
	}

	return c
}

func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
}

// QueueFocus schedules a focus change for broadcast. Changes arriving
// within the throttle window are batched into a single message.
func (b *Broadcaster) QueueFocus(f state.Focus) {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.pendingEvents = append(b.pendingEvents, f)

	if b.flushTimer == nil {
		b.flushTimer = time.AfterFunc(b.throttle, b.flush)
	}
}

func (b *Broadcaster) flush() {
	b.flushMu.Lock()
	events := b.pendingEvents
	b.pendingEvents = nil
	b.flushTimer = nil
	b.flushMu.Unlock()

	if len(events) == 0 {
		return
	}

	b.broadcast(Message{
		Type:    MsgFocus,
		Payload: FocusPayload{Events: events},
	})
}

func (b *Broadcaster) snapshotMessage() Message {
	payload := SnapshotPayload{
		Recent: b.store.Recent(),
		Watch:  b.watch,
	}
	if cur, ok := b.store.Current(); ok {
		payload.Current = &cur
	}
	return Message{Type: MsgSnapshot, Payload: payload}
}

func (b *Broadcaster) snapshotLoop() {
	for range b.snapshotTicker.C {
		b.broadcast(b.snapshotMessage())
	}
}

func (b *Broadcaster) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("broadcast marshal error: %v", err)
		return
	}

	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			// Client can't keep up, disconnect it
			log.Printf("ws client too slow, disconnecting")
			b.RemoveClient(c)
		}
	}
}

func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
