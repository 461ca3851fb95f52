package session

import (
	"context"
	"testing"
	"time"

	"high-hand-board/server/classify"
	"high-hand-board/server/engine"
)

func newTestSession(t *testing.T, periodSeconds int) *Session {
	t.Helper()
	// Force the deterministic matcher path.
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	s := New(classify.New("test-model"), periodSeconds)
	t.Cleanup(s.Close)
	return s
}

func TestSubmitStrictReplacement(t *testing.T) {
	s := newTestSession(t, 60)
	ctx := context.Background()

	hand, lead, err := s.Submit(ctx, "Ana", "pair of kings")
	if err != nil || hand == nil || !lead {
		t.Fatalf("first submit: hand=%v lead=%v err=%v", hand, lead, err)
	}

	hand, lead, err = s.Submit(ctx, "Bo", "two pair kings and queens")
	if err != nil || hand == nil || !lead {
		t.Fatalf("higher rank should take the lead: hand=%v lead=%v err=%v", hand, lead, err)
	}

	// Equal rank never replaces the incumbent.
	hand, lead, err = s.Submit(ctx, "Cy", "two pair aces and kings")
	if err != nil || hand == nil || lead {
		t.Fatalf("tie must not replace: hand=%v lead=%v err=%v", hand, lead, err)
	}
	if st := s.State(); st.Best == nil || st.Best.Player != "Bo" {
		t.Fatalf("best = %+v, want Bo's hand", st.Best)
	}

	if _, lead, _ := s.Submit(ctx, "Di", "flush in hearts"); !lead {
		t.Fatal("flush should beat two pair")
	}
}

func TestSubmitNoMatch(t *testing.T) {
	s := newTestSession(t, 60)
	hand, lead, err := s.Submit(context.Background(), "Ana", "dealer change")
	if err != nil || hand != nil || lead {
		t.Fatalf("got hand=%v lead=%v err=%v; want no match", hand, lead, err)
	}
	if st := s.State(); st.Best != nil {
		t.Fatalf("no-match submit must not set a leader: %+v", st.Best)
	}
}

func TestRecordClearsBestAndNumbers(t *testing.T) {
	s := newTestSession(t, 60)
	ctx := context.Background()

	if _, lead, _ := s.Submit(ctx, "Ana", "flush"); !lead {
		t.Fatal("setup submit failed")
	}
	e := s.Record(ctx, "Ana", "royal flush in spades", 599)
	if e.ID != 1 {
		t.Fatalf("first entry id = %d", e.ID)
	}
	if e.Hand == nil || e.Hand.Rank != engine.RoyalFlush {
		t.Fatalf("entry hand = %+v", e.Hand)
	}
	if st := s.State(); st.Best != nil {
		t.Fatal("payout must clear the current best")
	}

	e2 := s.Record(ctx, "Bo", "pair of jacks", 100)
	if e2.ID != 2 {
		t.Fatalf("ids must be monotonic, got %d", e2.ID)
	}
	if got := s.Entries(); len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("entries = %+v", got)
	}
}

func TestDelete(t *testing.T) {
	s := newTestSession(t, 60)
	e := s.Record(context.Background(), "Ana", "quads", 250)
	if !s.Delete(e.ID) {
		t.Fatal("delete of existing entry failed")
	}
	if s.Delete(e.ID) {
		t.Fatal("second delete should report missing")
	}
	if s.Delete(99) {
		t.Fatal("unknown id should report missing")
	}
	if got := s.Entries(); len(got) != 0 {
		t.Fatalf("entries after delete: %+v", got)
	}
}

func TestResetClearsBest(t *testing.T) {
	s := newTestSession(t, 60)
	s.Start()
	if _, lead, _ := s.Submit(context.Background(), "Ana", "straight"); !lead {
		t.Fatal("setup submit failed")
	}
	s.Reset()
	st := s.State()
	if st.Best != nil {
		t.Fatal("reset must clear the leader")
	}
	if st.Remaining != st.Period {
		t.Fatalf("remaining=%d, want full period %d", st.Remaining, st.Period)
	}
	if !st.Running {
		t.Fatal("reset must not stop a running clock")
	}
}

func TestStartPauseIdempotent(t *testing.T) {
	s := newTestSession(t, 60)
	s.Start()
	s.Start()
	if !s.State().Running {
		t.Fatal("expected running")
	}
	s.Pause()
	s.Pause()
	if s.State().Running {
		t.Fatal("expected paused")
	}
}

func TestPeriodRollover(t *testing.T) {
	if testing.Short() {
		t.Skip("real-time clock test")
	}
	s := newTestSession(t, 1)
	subID, ch := s.Subscribe()
	defer s.Unsubscribe(subID)

	if _, lead, _ := s.Submit(context.Background(), "Ana", "full house"); !lead {
		t.Fatal("setup submit failed")
	}
	s.Start()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("no period event within 5s")
		case ev := <-ch:
			if ev.Type != "period" {
				continue
			}
			if ev.Player != "Ana" || ev.Hand == nil {
				t.Fatalf("period event should carry the winner: %+v", ev)
			}
			st := s.State()
			if st.Best != nil {
				t.Fatal("rollover must clear the leader")
			}
			if st.Remaining != st.Period {
				t.Fatalf("remaining=%d after rollover, want %d", st.Remaining, st.Period)
			}
			return
		}
	}
}

// A subscriber that never drains its channel must not stall publishers
// once its buffer fills.
func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	s := newTestSession(t, 60)
	id, ch := s.Subscribe()
	defer s.Unsubscribe(id)
	_ = ch // intentionally never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			s.Reset()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher stalled on an undrained subscriber")
	}
	if st := s.State(); st.Remaining != st.Period {
		t.Fatalf("state diverged while publishing: %+v", st)
	}
}

func TestEventsPublished(t *testing.T) {
	s := newTestSession(t, 60)
	subID, ch := s.Subscribe()
	defer s.Unsubscribe(subID)

	s.Start()
	s.Submit(context.Background(), "Ana", "trips")
	e := s.Record(context.Background(), "Ana", "trips", 50)
	s.Delete(e.ID)
	s.Pause()

	next := func() Event {
		for {
			select {
			case ev := <-ch:
				if ev.Type == "tick" {
					continue
				}
				return ev
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for event")
				return Event{}
			}
		}
	}
	for _, w := range []string{"start", "best", "record", "delete", "pause"} {
		if ev := next(); ev.Type != w {
			t.Fatalf("event %q, want %q", ev.Type, w)
		}
	}
}
