package main

import "testing"

func TestWsTarget(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		token string
		want  string
	}{
		{"no token", "ws://127.0.0.1:8917/ws", "", "ws://127.0.0.1:8917/ws"},
		{"token", "ws://127.0.0.1:8917/ws", "s3cret", "ws://127.0.0.1:8917/ws?token=s3cret"},
		{"existing query", "ws://host/ws?debug=1", "s3cret", "ws://host/ws?debug=1&token=s3cret"},
		{"token needs escaping", "ws://host/ws", "a b&c", "ws://host/ws?token=a+b%26c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wsTarget(tt.raw, tt.token)
			if err != nil {
				t.Fatalf("wsTarget() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("wsTarget(%q, %q) = %q, want %q", tt.raw, tt.token, got, tt.want)
			}
		})
	}
}

func TestWsTargetRejectsBadURL(t *testing.T) {
	if _, err := wsTarget("ws://host :8917/ws", "x"); err == nil {
		t.Error("wsTarget() accepted an unparseable URL")
	}
}
