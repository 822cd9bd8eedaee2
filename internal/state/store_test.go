package state

import (
	"testing"
	"time"
)

func TestRecordAssignsSequence(t *testing.T) {
	s := NewStore(8)
	now := time.Now()

	f1 := s.Record("100", now)
	f2 := s.Record("200", now)

	if f1.Seq != 1 || f2.Seq != 2 {
		t.Errorf("sequence = %d, %d, want 1, 2", f1.Seq, f2.Seq)
	}
	if f1.WindowID != "100" {
		t.Errorf("WindowID = %q, want %q", f1.WindowID, "100")
	}
}

func TestCurrentTracksLatest(t *testing.T) {
	s := NewStore(8)

	if _, ok := s.Current(); ok {
		t.Error("Current() on empty store reported a value")
	}

	s.Record("100", time.Now())
	s.Record("200", time.Now())

	cur, ok := s.Current()
	if !ok {
		t.Fatal("Current() reported no value after Record")
	}
	if cur.WindowID != "200" {
		t.Errorf("Current().WindowID = %q, want %q", cur.WindowID, "200")
	}
}

func TestRecentBounded(t *testing.T) {
	s := NewStore(3)
	now := time.Now()

	for _, id := range []string{"1", "2", "3", "4", "5"} {
		s.Record(id, now)
	}

	recent := s.Recent()
	if len(recent) != 3 {
		t.Fatalf("len(Recent()) = %d, want 3", len(recent))
	}
	for i, want := range []string{"3", "4", "5"} {
		if recent[i].WindowID != want {
			t.Errorf("recent[%d].WindowID = %q, want %q", i, recent[i].WindowID, want)
		}
	}
}

func TestRecentReturnsCopy(t *testing.T) {
	s := NewStore(4)
	s.Record("1", time.Now())

	recent := s.Recent()
	recent[0].WindowID = "mutated"

	if got := s.Recent()[0].WindowID; got != "1" {
		t.Errorf("store history mutated through returned slice: %q", got)
	}
}

func TestLimitFloor(t *testing.T) {
	s := NewStore(0)
	now := time.Now()
	s.Record("1", now)
	s.Record("2", now)

	if got := len(s.Recent()); got != 1 {
		t.Errorf("len(Recent()) = %d, want 1 for non-positive limit", got)
	}
}
