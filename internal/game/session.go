// Package game implements the card-flip matching automaton for a single
// memory game and the clock that reports its elapsed time.
package game

import (
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/vytor/memorymatch/internal/deck"
	"github.com/vytor/memorymatch/internal/models"
)

// Outcome is the result of a single Flip.
type Outcome int

const (
	NoOp Outcome = iota
	Pending
	Matched
	Mismatched
)

func (o Outcome) String() string {
	switch o {
	case NoOp:
		return "noop"
	case Pending:
		return "pending"
	case Matched:
		return "matched"
	case Mismatched:
		return "mismatched"
	default:
		return "unknown"
	}
}

// MarshalText lets outcomes travel as their names in JSON.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

const noSelection = -1

// Session is one playthrough. Flip and Start are not safe for concurrent
// use; callers serialize them. StartedAt, ElapsedSeconds and IsFinished
// read atomically published state and may be called from any goroutine.
type Session struct {
	deck     deck.Deck
	pending  int
	attempts int
	themeID  int64

	startedAt atomic.Int64 // unix millis, 0 before Start
	finished  atomic.Bool

	now func() time.Time
	rng *rand.Rand
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithRand fixes the shuffle source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		s.rng = rng
	}
}

// NewSession returns an idle session with no deck. Call Start to deal.
func NewSession(opts ...Option) *Session {
	s := &Session{pending: noSelection, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start deals a fresh deck for values and resets attempts, the pending
// selection and the time origin. The previous deck is discarded.
func (s *Session) Start(values []string, themeID int64) error {
	d, err := deck.Build(values, s.rng)
	if err != nil {
		return err
	}
	s.load(d, themeID)
	return nil
}

func (s *Session) load(d deck.Deck, themeID int64) {
	s.deck = d
	s.pending = noSelection
	s.attempts = 0
	s.themeID = themeID
	s.finished.Store(false)
	s.startedAt.Store(s.now().UnixMilli())
}

// Flip turns over the card at position.
func (s *Session) Flip(position int) Outcome {
	if position < 0 || position >= len(s.deck) {
		return NoOp
	}
	card := &s.deck[position]
	if card.Matched {
		return NoOp
	}

	if s.pending == noSelection {
		s.pending = position
		return Pending
	}
	if s.pending == position {
		return NoOp
	}

	first := &s.deck[s.pending]
	s.pending = noSelection
	s.attempts++

	if first.Value != card.Value {
		return Mismatched
	}
	first.Matched = true
	card.Matched = true
	if s.deck.AllMatched() {
		s.finished.Store(true)
	}
	return Matched
}

// Deck returns a copy of the current cards.
func (s *Session) Deck() deck.Deck {
	return s.deck.Clone()
}

// Pending returns the position awaiting a second flip, if any.
func (s *Session) Pending() (int, bool) {
	if s.pending == noSelection {
		return 0, false
	}
	return s.pending, true
}

func (s *Session) Attempts() int {
	return s.attempts
}

func (s *Session) ThemeID() int64 {
	return s.themeID
}

// StartedAt is the time origin of the current deck, zero before Start.
func (s *Session) StartedAt() time.Time {
	ms := s.startedAt.Load()
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// ElapsedSeconds is floor((now - startedAt) / 1s), never negative.
func (s *Session) ElapsedSeconds() int {
	ms := s.startedAt.Load()
	if ms == 0 {
		return 0
	}
	elapsed := s.now().UnixMilli() - ms
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / 1000)
}

// IsFinished reports whether every card of the current deck is matched.
func (s *Session) IsFinished() bool {
	return s.finished.Load()
}

// Result builds the score record for a finished session.
func (s *Session) Result(userID int64) models.Score {
	return models.Score{
		UserID:      userID,
		ThemeID:     s.themeID,
		Attempts:    s.attempts,
		TimeSeconds: s.ElapsedSeconds(),
		PlayedAt:    s.now(),
	}
}
