package services

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// ShareService handles share links and deck import
type ShareService interface {
	Share(ctx context.Context, userID, deckID int64) (*models.ShareLink, error)
	GetShared(ctx context.Context, token string) (*models.DeckWithCards, error)
	Import(ctx context.Context, userID int64, token string) (*models.Deck, error)
}

type shareService struct {
	deckRepo  repository.DeckRepository
	cardRepo  repository.CardRepository
	shareRepo repository.ShareRepository
	publicURL string
	maxDecks  int
}

// NewShareService creates a new ShareService. Links are built as
// publicURL + "/share/" + token.
func NewShareService(
	deckRepo repository.DeckRepository,
	cardRepo repository.CardRepository,
	shareRepo repository.ShareRepository,
	publicURL string,
	maxDecks int,
) ShareService {
	return &shareService{
		deckRepo:  deckRepo,
		cardRepo:  cardRepo,
		shareRepo: shareRepo,
		publicURL: publicURL,
		maxDecks:  maxDecks,
	}
}

func (s *shareService) withURL(link *models.ShareLink) *models.ShareLink {
	link.URL = s.publicURL + "/share/" + link.Token
	return link
}

// Share returns the deck's share link, creating it on first use.
func (s *shareService) Share(ctx context.Context, userID, deckID int64) (*models.ShareLink, error) {
	log := logger.FromContext(ctx)
	log.Debug("sharing deck: id=%d", deckID)

	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return nil, err
	}

	link, err := s.shareRepo.GetByDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to get share link: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if link != nil {
		return s.withURL(link), nil
	}

	link, err = s.shareRepo.Create(ctx, deckID, uuid.NewString())
	var dup *repository.DuplicateError
	if stderrors.As(err, &dup) {
		// Created concurrently; use the winner.
		link, err = s.shareRepo.GetByDeck(ctx, deckID)
	}
	if err != nil {
		log.Error("failed to create share link: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if link == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	log.Info("deck shared: id=%d", deckID)
	return s.withURL(link), nil
}

func (s *shareService) GetShared(ctx context.Context, token string) (*models.DeckWithCards, error) {
	log := logger.FromContext(ctx)
	log.Debug("opening shared deck")

	link, err := s.shareRepo.GetByToken(ctx, token)
	if err != nil {
		log.Error("failed to get share link: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if link == nil {
		return nil, errors.NewNotFoundError("share", token)
	}

	deck, err := s.deckRepo.Get(ctx, link.DeckID)
	if err != nil {
		log.Error("failed to get shared deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("share", token)
	}

	cards, err := s.cardRepo.ListAll(ctx, deck.ID)
	if err != nil {
		log.Error("failed to list shared cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if cards == nil {
		cards = []models.Card{}
	}
	return &models.DeckWithCards{Deck: *deck, Cards: cards}, nil
}

// Import copies a shared deck and its cards into userID's account.
func (s *shareService) Import(ctx context.Context, userID int64, token string) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	shared, err := s.GetShared(ctx, token)
	if err != nil {
		return nil, err
	}
	log.Debug("importing shared deck %d for user %d", shared.ID, userID)

	if err := checkDeckLimit(ctx, s.deckRepo, userID, s.maxDecks); err != nil {
		return nil, err
	}

	deck, err := s.deckRepo.Import(ctx, userID, shared.Name, shared.Description, shared.Cards)
	if err != nil {
		return nil, deckConflict(err)
	}
	log.Info("deck imported: source=%d, copy=%d", shared.ID, deck.ID)
	return deck, nil
}
