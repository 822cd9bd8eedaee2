package relay

import (
	"github.com/focusrelay/focusd/internal/proc"
	"github.com/focusrelay/focusd/internal/state"
)

type MessageType string

const (
	MsgSnapshot MessageType = "snapshot"
	MsgFocus    MessageType = "focus"
	MsgError    MessageType = "error"
)

type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// SnapshotPayload carries the full focus state: sent on connect and on the
// periodic snapshot tick.
type SnapshotPayload struct {
	Current *state.Focus  `json:"current"`
	Recent  []state.Focus `json:"recent"`
	Watch   *proc.Info    `json:"watch,omitempty"`
}

// FocusPayload carries a batch of focus changes, oldest first.
type FocusPayload struct {
	Events []state.Focus `json:"events"`
}
