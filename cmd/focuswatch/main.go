package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/focusrelay/focusd/internal/tui"
)

// wsTarget builds the daemon URL to dial, folding the auth token into the
// query string. The token is set through url.Values so it survives URLs
// that already carry a query, and gets percent-encoded.
func wsTarget(raw, token string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func main() {
	wsURL := flag.String("url", "ws://127.0.0.1:8917/ws", "WebSocket URL of the focusd daemon")
	token := flag.String("token", "", "Auth token (if the daemon requires one)")
	flag.Parse()

	target, err := wsTarget(*wsURL, *token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m := tui.New(tui.NewClient(target))
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
