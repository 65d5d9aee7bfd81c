package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

// DuplicateError is returned when a write violates a uniqueness constraint.
// Field names the conflicting column ("login", "email", "name", "token").
type DuplicateError struct {
	Field string
	Err   error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s: %v", e.Field, e.Err)
}

func (e *DuplicateError) Unwrap() error { return e.Err }

// Lookups return (nil, nil) when the row does not exist.

// UserRepository handles user data access
type UserRepository interface {
	Create(ctx context.Context, login, email, passwordHash string) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByLoginOrEmail(ctx context.Context, identifier string) (*models.User, error)
	LoginExists(ctx context.Context, login string, exceptID int64) (bool, error)
	EmailExists(ctx context.Context, email string, exceptID int64) (bool, error)
	Update(ctx context.Context, id int64, login, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

// SessionRepository handles login session data access
type SessionRepository interface {
	Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) (*models.Session, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteOthers(ctx context.Context, userID int64, keepTokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// DeckRepository handles deck data access
type DeckRepository interface {
	Create(ctx context.Context, userID int64, name, description string) (*models.Deck, error)
	Get(ctx context.Context, id int64) (*models.Deck, error)
	List(ctx context.Context, userID int64, page models.PageRequest) ([]models.Deck, error)
	Count(ctx context.Context, userID int64) (int, error)
	Update(ctx context.Context, id int64, name, description string) (*models.Deck, error)
	Delete(ctx context.Context, id int64) error
	UpdateLearnedPercent(ctx context.Context, id int64, percent int) error
	Import(ctx context.Context, userID int64, name, description string, cards []models.Card) (*models.Deck, error)
}

// CardRepository handles card data access
type CardRepository interface {
	Create(ctx context.Context, deckID int64, question, answer string) (*models.Card, error)
	Get(ctx context.Context, deckID, cardID int64) (*models.Card, error)
	List(ctx context.Context, deckID int64, page models.PageRequest) ([]models.Card, error)
	ListAll(ctx context.Context, deckID int64) ([]models.Card, error)
	Count(ctx context.Context, deckID int64) (int, error)
	Update(ctx context.Context, deckID, cardID int64, question, answer string) (*models.Card, error)
	Delete(ctx context.Context, deckID, cardID int64) error
}

// ShareRepository handles share link data access
type ShareRepository interface {
	Create(ctx context.Context, deckID int64, token string) (*models.ShareLink, error)
	GetByDeck(ctx context.Context, deckID int64) (*models.ShareLink, error)
	GetByToken(ctx context.Context, token string) (*models.ShareLink, error)
}

// StudyRepository handles study answers and the learned-percent inputs
type StudyRepository interface {
	InsertAnswer(ctx context.Context, answer models.StudyAnswer) (int64, error)
	// RememberedCounts returns how many cards of the deck have "remembered"
	// as their latest answer, and the deck's card count.
	RememberedCounts(ctx context.Context, deckID int64) (remembered, total int, err error)
}
