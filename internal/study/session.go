// Package study drives a single pass through a deck: one card at a time,
// answer hidden until revealed, every verdict acknowledged by the server
// before the session moves on.
package study

import (
	"context"
	"errors"
	"sync"

	"github.com/vytor/flashdeck/internal/client"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/models"
)

// ErrSubmitInProgress is returned when a verdict is submitted while the
// previous one is still waiting for the server.
var ErrSubmitInProgress = errors.New("study: answer already being submitted")

// Source loads study cards and records verdicts.
type Source interface {
	StudyCards(ctx context.Context, deckID int64) ([]models.StudyCard, error)
	SubmitAnswer(ctx context.Context, deckID, cardID int64, remembered bool) (*models.AnswerResult, error)
}

type Status int

const (
	Idle Status = iota
	Loading
	InProgress
	Completed
	Empty
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	case Empty:
		return "empty"
	default:
		return "idle"
	}
}

// State is a point-in-time copy of a session for rendering.
type State struct {
	Status          Status
	DeckID          int64
	Cards           []models.StudyCard
	CurrentIndex    int
	ShowAnswer      bool
	RememberedCount int
	ForgottenCount  int
	Progress        int
	IsLastCard      bool
	Submitting      bool
}

// Current returns the card on screen, or nil when there is none.
func (s State) Current() *models.StudyCard {
	if s.Status != InProgress || s.CurrentIndex >= len(s.Cards) {
		return nil
	}
	c := s.Cards[s.CurrentIndex]
	return &c
}

type Session struct {
	src      Source
	notifier client.Notifier

	mu         sync.Mutex
	status     Status
	deckID     int64
	cards      []models.StudyCard
	index      int
	showAnswer bool
	seen       bool
	remembered int
	forgotten  int
	submitting bool
	// gen changes on every Load so late responses can be recognized.
	gen int
}

func NewSession(src Source, notifier client.Notifier) *Session {
	if notifier == nil {
		notifier = client.NopNotifier{}
	}
	return &Session{src: src, notifier: notifier}
}

// Load discards any previous state and fetches the deck's cards. On failure
// the session returns to Idle.
func (s *Session) Load(ctx context.Context, deckID int64) error {
	s.mu.Lock()
	s.resetLocked()
	s.status = Loading
	s.deckID = deckID
	gen := s.gen
	s.mu.Unlock()

	cards, err := s.src.StudyCards(ctx, deckID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// A newer Load won.
		return nil
	}
	if err != nil {
		s.status = Idle
		return err
	}
	s.cards = cards
	if len(cards) == 0 {
		s.status = Empty
	} else {
		s.status = InProgress
	}
	return nil
}

// Restart reloads the current deck from the beginning.
func (s *Session) Restart(ctx context.Context) error {
	s.mu.Lock()
	deckID := s.deckID
	s.mu.Unlock()
	return s.Load(ctx, deckID)
}

func (s *Session) resetLocked() {
	s.gen++
	s.cards = nil
	s.index = 0
	s.showAnswer = false
	s.seen = false
	s.remembered = 0
	s.forgotten = 0
	s.submitting = false
}

func (s *Session) RevealAnswer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCurrentLocked() {
		return
	}
	s.showAnswer = true
	s.seen = true
}

func (s *Session) ToggleAnswer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCurrentLocked() {
		return
	}
	s.showAnswer = !s.showAnswer
	if s.showAnswer {
		s.seen = true
	}
}

// Submit records a verdict for the current card. State only changes after
// the server acknowledged it; on failure the error is reported and returned.
func (s *Session) Submit(ctx context.Context, remembered bool) error {
	s.mu.Lock()
	if !s.hasCurrentLocked() {
		s.mu.Unlock()
		return nil
	}
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmitInProgress
	}
	s.submitting = true
	deckID, gen := s.deckID, s.gen
	cardID := s.cards[s.index].ID
	s.mu.Unlock()

	_, err := s.src.SubmitAnswer(ctx, deckID, cardID, remembered)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// Reloaded while the request was in flight.
		return nil
	}
	s.submitting = false
	if err != nil {
		s.notifier.Error(client.UserMessage(err, client.DefaultCopy))
		return err
	}

	if remembered {
		s.remembered++
	} else {
		s.forgotten++
	}
	if s.remembered+s.forgotten == len(s.cards) {
		s.status = Completed
		return nil
	}
	if s.index < len(s.cards)-1 {
		s.index++
		s.showAnswer = false
		s.seen = false
	}
	return nil
}

func (s *Session) hasCurrentLocked() bool {
	return s.status == InProgress && s.index < len(s.cards)
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards := make([]models.StudyCard, len(s.cards))
	copy(cards, s.cards)
	return State{
		Status:          s.status,
		DeckID:          s.deckID,
		Cards:           cards,
		CurrentIndex:    s.index,
		ShowAnswer:      s.showAnswer,
		RememberedCount: s.remembered,
		ForgottenCount:  s.forgotten,
		Progress:        s.progressLocked(),
		IsLastCard:      s.isLastLocked(),
		Submitting:      s.submitting,
	}
}

func (s *Session) Current() *models.StudyCard { return s.Snapshot().Current() }

func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked()
}

func (s *Session) IsLastCard() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLastLocked()
}

func (s *Session) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == Completed
}

func (s *Session) HasCards() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards) > 0
}

// progressLocked never decreases within a pass: the revealed card counts as
// seen until the session advances past it.
func (s *Session) progressLocked() int {
	if s.status == Completed {
		return 100
	}
	seen := 0
	if s.seen {
		seen = 1
	}
	return flashcard.Percent(s.index+seen, len(s.cards))
}

func (s *Session) isLastLocked() bool {
	return len(s.cards) > 0 && s.index == len(s.cards)-1
}
