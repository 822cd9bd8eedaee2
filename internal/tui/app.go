// Package tui renders a live view of focusd's focus event feed.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/focusrelay/focusd/internal/proc"
	"github.com/focusrelay/focusd/internal/state"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f9fafb")).
			Background(lipgloss.Color("#2563eb")).
			Padding(0, 1)

	currentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#22c55e"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#dc2626"))
)

// Model is the root Bubble Tea model.
type Model struct {
	client *Client
	ctx    context.Context
	cancel context.CancelFunc

	current *state.Focus
	recent  []state.Focus
	watch   *proc.Info

	width     int
	height    int
	connected bool
}

// New creates the root model.
func New(client *Client) Model {
	ctx, cancel := context.WithCancel(context.Background())
	return Model{client: client, ctx: ctx, cancel: cancel}
}

// Init starts the WebSocket connection.
func (m Model) Init() tea.Cmd {
	return m.client.Listen(m.ctx)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
		return m, nil

	case ConnectedMsg:
		m.connected = true
		return m, m.client.Read()

	case DisconnectedMsg:
		m.connected = false
		return m, m.client.Listen(m.ctx)

	case SnapshotMsg:
		m.current = msg.Payload.Current
		m.recent = msg.Payload.Recent
		m.watch = msg.Payload.Watch
		return m, m.client.Read()

	case FocusMsg:
		for i := range msg.Payload.Events {
			f := msg.Payload.Events[i]
			m.current = &f
			m.recent = append(m.recent, f)
		}
		return m, m.client.Read()
	}

	return m, nil
}

// View renders the current focus and the change history.
func (m Model) View() string {
	title := titleStyle.Render("focuswatch")
	if m.watch != nil {
		title += dimStyle.Render(fmt.Sprintf("  watching %s (pid %d)", m.watch.Name, m.watch.PID))
	}

	status := dimStyle.Render("connected")
	if !m.connected {
		status = errStyle.Render("disconnected, retrying...")
	}

	current := dimStyle.Render("no focus change observed yet")
	if m.current != nil {
		current = currentStyle.Render("window "+m.current.WindowID) +
			dimStyle.Render(fmt.Sprintf("  seq %d  %s", m.current.Seq, m.current.At.Format("15:04:05")))
	}

	rows := m.historyRows()

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		current,
		"",
		rows,
		"",
		status+dimStyle.Render("  ·  q to quit"),
	)
}

func (m Model) historyRows() string {
	visible := m.height - 8
	if visible < 1 {
		visible = 10
	}
	start := 0
	if len(m.recent) > visible {
		start = len(m.recent) - visible
	}

	out := ""
	// Newest first.
	for i := len(m.recent) - 1; i >= start; i-- {
		f := m.recent[i]
		out += dimStyle.Render(fmt.Sprintf("%6d  %s  ", f.Seq, f.At.Format("15:04:05"))) +
			"window " + f.WindowID + "\n"
	}
	if out == "" {
		out = dimStyle.Render("(history empty)")
	}
	return out
}
