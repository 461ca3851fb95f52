// Package session holds the live state of one high-hand promotion: the
// countdown, the best hand seen this period, and the ledger of recorded
// winners. Everything lives in process memory for the life of the service.
package session

import (
	"context"
	"sync"
	"time"

	"high-hand-board/server/classify"
	"high-hand-board/server/engine"
)

// Entry is one recorded high hand. Immutable after creation except for
// deletion by id.
type Entry struct {
	ID          int64              `json:"id"`
	At          time.Time          `json:"timestamp"`
	Player      string             `json:"player"`
	Description string             `json:"handDescription"`
	Amount      float64            `json:"amount"`
	Hand        *engine.ParsedHand `json:"parsedHand,omitempty"`
}

// Best is the transient leader of the current period.
type Best struct {
	Player      string             `json:"player"`
	Description string             `json:"description"`
	Hand        *engine.ParsedHand `json:"hand"`
	At          time.Time          `json:"at"`
}

// Event types: start, pause, reset, tick, best, record, delete, period.
type Event struct {
	Type      string             `json:"type"`
	At        time.Time          `json:"at"`
	Remaining int                `json:"remaining,omitempty"`
	Player    string             `json:"player,omitempty"`
	Hand      *engine.ParsedHand `json:"hand,omitempty"`
	Entry     *Entry             `json:"entry,omitempty"`
	EntryID   int64              `json:"entryId,omitempty"`
}

type State struct {
	Period    int   `json:"periodSeconds"`
	Remaining int   `json:"remaining"`
	Running   bool  `json:"running"`
	Best      *Best `json:"best,omitempty"`
	Entries   int   `json:"entries"`
}

type Session struct {
	cls *classify.Classifier

	mu        sync.Mutex
	period    int
	remaining int
	running   bool
	best      *Best
	entries   []Entry
	nextID    int64
	subs      map[int]chan Event
	nextSub   int

	done      chan struct{}
	closeOnce sync.Once
}

// New builds a session with the given period length and starts its clock
// goroutine. The clock only moves while the session is running.
func New(cls *classify.Classifier, periodSeconds int) *Session {
	if periodSeconds <= 0 {
		periodSeconds = 1800
	}
	s := &Session{
		cls:       cls,
		period:    periodSeconds,
		remaining: periodSeconds,
		subs:      map[int]chan Event{},
		done:      make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Session) run() {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-t.C:
			s.tick()
		}
	}
}

func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.remaining--
	if s.remaining > 0 {
		s.publishLocked(Event{Type: "tick", At: time.Now(), Remaining: s.remaining})
		return
	}
	// Period over: announce the winner once, then a fresh period begins
	// with the leader cleared.
	ev := Event{Type: "period", At: time.Now()}
	if s.best != nil {
		ev.Player = s.best.Player
		ev.Hand = s.best.Hand
	}
	s.best = nil
	s.remaining = s.period
	ev.Remaining = s.remaining
	s.publishLocked(ev)
}

func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.publishLocked(Event{Type: "start", At: time.Now(), Remaining: s.remaining})
}

func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.publishLocked(Event{Type: "pause", At: time.Now(), Remaining: s.remaining})
}

// Reset rewinds the clock to a full period and clears the current leader.
// The running flag is left alone.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = s.period
	s.best = nil
	s.publishLocked(Event{Type: "reset", At: time.Now(), Remaining: s.remaining})
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Period:    s.period,
		Remaining: s.remaining,
		Running:   s.running,
		Best:      s.best,
		Entries:   len(s.entries),
	}
}

// Submit classifies text and promotes it to current best iff its rank is
// strictly greater than the incumbent's. Ties never replace, whatever the
// money involved. Returns the parsed hand and whether it took the lead.
func (s *Session) Submit(ctx context.Context, player, text string) (*engine.ParsedHand, bool, error) {
	hand, err := s.cls.Classify(ctx, text)
	if err != nil {
		return nil, false, err
	}
	if hand == nil {
		return nil, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.best != nil && hand.Rank <= s.best.Hand.Rank {
		return hand, false, nil
	}
	s.best = &Best{Player: player, Description: text, Hand: hand, At: time.Now()}
	s.publishLocked(Event{Type: "best", At: s.best.At, Player: player, Hand: hand, Remaining: s.remaining})
	return hand, true, nil
}

// Record appends a ledger entry (classifying the description best-effort)
// and clears the current best: the payout closes the chase.
func (s *Session) Record(ctx context.Context, player, description string, amount float64) Entry {
	hand, _ := s.cls.Classify(ctx, description)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e := Entry{
		ID:          s.nextID,
		At:          time.Now(),
		Player:      player,
		Description: description,
		Amount:      amount,
		Hand:        hand,
	}
	s.entries = append(s.entries, e)
	s.best = nil
	s.publishLocked(Event{Type: "record", At: e.At, Player: player, Entry: &e, Remaining: s.remaining})
	return e
}

// Delete removes an entry by id; false when no such entry exists.
func (s *Session) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.publishLocked(Event{Type: "delete", At: time.Now(), EntryID: id})
			return true
		}
	}
	return false
}

// Entries returns a snapshot in append order.
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Subscribe registers an event listener. Slow listeners drop events
// rather than stall the clock.
func (s *Session) Subscribe() (int, <-chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	ch := make(chan Event, 64)
	s.subs[s.nextSub] = ch
	return s.nextSub, ch
}

func (s *Session) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Session) publishLocked(ev Event) {
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
