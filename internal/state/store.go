// Package state tracks the focus history the daemon has observed.
package state

import (
	"sync"
	"time"
)

// Focus records one foreground-window change.
type Focus struct {
	// Seq is a monotonically increasing sequence number assigned in
	// arrival order.
	Seq uint64 `json:"seq"`

	// WindowID is the window identifier string reported by the listener.
	WindowID string `json:"windowId"`

	// At is when the daemon observed the change.
	At time.Time `json:"at"`
}

// Store holds the current focus and a bounded history of recent changes.
// Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	current *Focus
	recent  []Focus // newest last
	limit   int
	nextSeq uint64
}

// NewStore creates a store keeping at most limit recent entries. A
// non-positive limit keeps a single entry.
func NewStore(limit int) *Store {
	if limit < 1 {
		limit = 1
	}
	return &Store{limit: limit}
}

// Record appends a focus change, assigns its sequence number, and returns
// the stored entry.
func (s *Store) Record(windowID string, at time.Time) Focus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	f := Focus{Seq: s.nextSeq, WindowID: windowID, At: at}
	s.current = &f
	s.recent = append(s.recent, f)
	if len(s.recent) > s.limit {
		s.recent = s.recent[len(s.recent)-s.limit:]
	}
	return f
}

// Current returns the most recent focus change, if any.
func (s *Store) Current() (Focus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Focus{}, false
	}
	return *s.current, true
}

// Recent returns a copy of the history, oldest first.
func (s *Store) Recent() []Focus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Focus, len(s.recent))
	copy(out, s.recent)
	return out
}
