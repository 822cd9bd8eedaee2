package tui

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/focusrelay/focusd/internal/relay"
)

const (
	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// Client manages the WebSocket connection to a focusd instance.
type Client struct {
	url string

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewClient(url string) *Client {
	return &Client{url: url}
}

// ConnectedMsg is sent when the WebSocket connects.
type ConnectedMsg struct{}

// DisconnectedMsg is sent when the connection drops.
type DisconnectedMsg struct{ Err error }

// SnapshotMsg delivers the full focus state.
type SnapshotMsg struct{ Payload relay.SnapshotPayload }

// FocusMsg delivers a batch of focus changes.
type FocusMsg struct{ Payload relay.FocusPayload }

// Listen returns a command that dials until connected, backing off between
// attempts.
func (c *Client) Listen(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		delay := reconnectBaseDelay
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
			if err != nil {
				time.Sleep(delay)
				delay = min(delay*2, reconnectMaxDelay)
				continue
			}

			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
			return ConnectedMsg{}
		}
	}
}

// Read returns a command that reads the next message from the connection.
// Re-issue it after every delivered message.
func (c *Client) Read() tea.Cmd {
	return func() tea.Msg {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return DisconnectedMsg{}
		}

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				c.mu.Lock()
				if c.conn == conn {
					c.conn = nil
				}
				c.mu.Unlock()
				conn.Close()
				return DisconnectedMsg{Err: err}
			}

			var msg struct {
				Type    relay.MessageType `json:"type"`
				Payload json.RawMessage   `json:"payload"`
			}
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}

			switch msg.Type {
			case relay.MsgSnapshot:
				var p relay.SnapshotPayload
				if json.Unmarshal(msg.Payload, &p) == nil {
					return SnapshotMsg{Payload: p}
				}
			case relay.MsgFocus:
				var p relay.FocusPayload
				if json.Unmarshal(msg.Payload, &p) == nil {
					return FocusMsg{Payload: p}
				}
			}
		}
	}
}
