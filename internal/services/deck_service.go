package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

const msgDeckExists = "Колода с таким названием уже существует"

// DeckService handles deck-related business logic
type DeckService interface {
	List(ctx context.Context, userID int64, page models.PageRequest) (*models.Page[models.Deck], error)
	Create(ctx context.Context, userID int64, name, description string) (*models.Deck, error)
	Get(ctx context.Context, userID, deckID int64) (*models.Deck, error)
	Update(ctx context.Context, userID, deckID int64, name, description string) (*models.Deck, error)
	Delete(ctx context.Context, userID, deckID int64) error
}

type deckService struct {
	deckRepo repository.DeckRepository
	maxDecks int
}

// NewDeckService creates a new DeckService
func NewDeckService(deckRepo repository.DeckRepository, maxDecks int) DeckService {
	return &deckService{deckRepo: deckRepo, maxDecks: maxDecks}
}

// ownedDeck loads a deck and hides decks of other users behind a 404.
func ownedDeck(ctx context.Context, repo repository.DeckRepository, userID, deckID int64) (*models.Deck, error) {
	deck, err := repo.Get(ctx, deckID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if deck == nil || deck.UserID != userID {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	return deck, nil
}

func deckLimitError(max int) *errors.AppError {
	return errors.NewLimitError(errors.ErrCodeDeckLimit, fmt.Sprintf("Достигнут лимит колод: %d", max))
}

// checkDeckLimit returns a 422 when the user already owns max decks.
func checkDeckLimit(ctx context.Context, repo repository.DeckRepository, userID int64, max int) error {
	n, err := repo.Count(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to count decks: %v", err)
		return errors.NewInternalError(err)
	}
	if max > 0 && n >= max {
		return deckLimitError(max)
	}
	return nil
}

func deckConflict(err error) error {
	var dup *repository.DuplicateError
	if stderrors.As(err, &dup) {
		return errors.NewConflictError(errors.ErrCodeDeckExists, msgDeckExists)
	}
	return errors.NewInternalError(err)
}

func (s *deckService) List(ctx context.Context, userID int64, page models.PageRequest) (*models.Page[models.Deck], error) {
	log := logger.FromContext(ctx)
	log.Debug("listing decks: user_id=%d, page=%d, size=%d", userID, page.Page, page.Size)

	decks, err := s.deckRepo.List(ctx, userID, page)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	total, err := s.deckRepo.Count(ctx, userID)
	if err != nil {
		log.Error("failed to count decks: %v", err)
		return nil, errors.NewInternalError(err)
	}

	result := models.NewPage(decks, page, total)
	return &result, nil
}

func (s *deckService) Create(ctx context.Context, userID int64, name, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating deck: user_id=%d, name=%s", userID, name)

	if err := checkDeckLimit(ctx, s.deckRepo, userID, s.maxDecks); err != nil {
		return nil, err
	}

	deck, err := s.deckRepo.Create(ctx, userID, strings.TrimSpace(name), description)
	if err != nil {
		return nil, deckConflict(err)
	}
	return deck, nil
}

func (s *deckService) Get(ctx context.Context, userID, deckID int64) (*models.Deck, error) {
	logger.FromContext(ctx).Debug("getting deck: id=%d", deckID)
	return ownedDeck(ctx, s.deckRepo, userID, deckID)
}

func (s *deckService) Update(ctx context.Context, userID, deckID int64, name, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating deck: id=%d", deckID)

	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return nil, err
	}
	deck, err := s.deckRepo.Update(ctx, deckID, strings.TrimSpace(name), description)
	if err != nil {
		return nil, deckConflict(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	return deck, nil
}

func (s *deckService) Delete(ctx context.Context, userID, deckID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting deck: id=%d", deckID)

	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return err
	}
	if err := s.deckRepo.Delete(ctx, deckID); err != nil {
		log.Error("failed to delete deck: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
