package client

import (
	"context"

	"github.com/vytor/flashdeck/internal/models"
)

// API defines the flashdeck endpoints the terminal front-end drives.
type API interface {
	Tokens() TokenStore

	Register(ctx context.Context, in RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, login, password string) (*AuthResponse, error)
	Logout(ctx context.Context) error
	CheckEmail(ctx context.Context, email string) (bool, error)
	CheckLogin(ctx context.Context, login string) (bool, error)

	Me(ctx context.Context) (*models.User, error)
	UpdateMe(ctx context.Context, in UpdateUserRequest) (*models.User, error)
	DeleteMe(ctx context.Context) error
	ChangePassword(ctx context.Context, current, next string) error

	ListDecks(ctx context.Context, page, size int) (*models.Page[models.Deck], error)
	CreateDeck(ctx context.Context, in DeckInput) (*models.Deck, error)
	GetDeck(ctx context.Context, deckID int64) (*models.Deck, error)
	UpdateDeck(ctx context.Context, deckID int64, in DeckInput) (*models.Deck, error)
	DeleteDeck(ctx context.Context, deckID int64) error

	ShareDeck(ctx context.Context, deckID int64) (*models.ShareLink, error)
	GetSharedDeck(ctx context.Context, token string) (*models.DeckWithCards, error)
	ImportSharedDeck(ctx context.Context, token string) (*models.Deck, error)

	ListCards(ctx context.Context, deckID int64, page, size int) (*models.Page[models.Card], error)
	CreateCard(ctx context.Context, deckID int64, in CardInput) (*models.Card, error)
	UpdateCard(ctx context.Context, deckID, cardID int64, in CardInput) (*models.Card, error)
	DeleteCard(ctx context.Context, deckID, cardID int64) error

	StudyCards(ctx context.Context, deckID int64) ([]models.StudyCard, error)
	SubmitAnswer(ctx context.Context, deckID, cardID int64, remembered bool) (*models.AnswerResult, error)
}

// Ensure Client implements the interface
var _ API = (*Client)(nil)
