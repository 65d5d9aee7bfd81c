package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/jobs"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// CardService handles card-related business logic
type CardService interface {
	List(ctx context.Context, userID, deckID int64, page models.PageRequest) (*models.Page[models.Card], error)
	Create(ctx context.Context, userID, deckID int64, question, answer string) (*models.Card, error)
	Update(ctx context.Context, userID, deckID, cardID int64, question, answer string) (*models.Card, error)
	Delete(ctx context.Context, userID, deckID, cardID int64) error
}

type cardService struct {
	deckRepo repository.DeckRepository
	cardRepo repository.CardRepository
	jobQueue jobs.JobQueue
	maxCards int
}

// NewCardService creates a new CardService
func NewCardService(deckRepo repository.DeckRepository, cardRepo repository.CardRepository, jobQueue jobs.JobQueue, maxCards int) CardService {
	return &cardService{deckRepo: deckRepo, cardRepo: cardRepo, jobQueue: jobQueue, maxCards: maxCards}
}

// scheduleRecalculate queues a learned-percent update. A full queue only
// delays the figure until the next answer, so failures are logged.
func scheduleRecalculate(ctx context.Context, queue jobs.JobQueue, deckID int64) {
	if err := queue.EnqueueRecalculate(deckID); err != nil {
		logger.FromContext(ctx).Warn("failed to enqueue learned percent recalculation for deck %d: %v", deckID, err)
	}
}

func (s *cardService) List(ctx context.Context, userID, deckID int64, page models.PageRequest) (*models.Page[models.Card], error) {
	log := logger.FromContext(ctx)
	log.Debug("listing cards: deck_id=%d, page=%d, size=%d", deckID, page.Page, page.Size)

	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return nil, err
	}

	cards, err := s.cardRepo.List(ctx, deckID, page)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	total, err := s.cardRepo.Count(ctx, deckID)
	if err != nil {
		log.Error("failed to count cards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	result := models.NewPage(cards, page, total)
	return &result, nil
}

func (s *cardService) Create(ctx context.Context, userID, deckID int64, question, answer string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating card: deck_id=%d", deckID)

	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return nil, err
	}

	n, err := s.cardRepo.Count(ctx, deckID)
	if err != nil {
		log.Error("failed to count cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if s.maxCards > 0 && n >= s.maxCards {
		return nil, errors.NewLimitError(errors.ErrCodeCardLimit, fmt.Sprintf("Достигнут лимит карточек в колоде: %d", s.maxCards))
	}

	card, err := s.cardRepo.Create(ctx, deckID, strings.TrimSpace(question), strings.TrimSpace(answer))
	if err != nil {
		log.Error("failed to create card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	scheduleRecalculate(ctx, s.jobQueue, deckID)
	return card, nil
}

func (s *cardService) Update(ctx context.Context, userID, deckID, cardID int64, question, answer string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating card: deck_id=%d, id=%d", deckID, cardID)

	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return nil, err
	}
	if err := s.requireCard(ctx, deckID, cardID); err != nil {
		return nil, err
	}

	card, err := s.cardRepo.Update(ctx, deckID, cardID, strings.TrimSpace(question), strings.TrimSpace(answer))
	if err != nil {
		log.Error("failed to update card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}
	return card, nil
}

func (s *cardService) Delete(ctx context.Context, userID, deckID, cardID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting card: deck_id=%d, id=%d", deckID, cardID)

	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return err
	}
	if err := s.requireCard(ctx, deckID, cardID); err != nil {
		return err
	}

	if err := s.cardRepo.Delete(ctx, deckID, cardID); err != nil {
		log.Error("failed to delete card: %v", err)
		return errors.NewInternalError(err)
	}
	scheduleRecalculate(ctx, s.jobQueue, deckID)
	return nil
}

func (s *cardService) requireCard(ctx context.Context, deckID, cardID int64) error {
	card, err := s.cardRepo.Get(ctx, deckID, cardID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get card: %v", err)
		return errors.NewInternalError(err)
	}
	if card == nil {
		return errors.NewNotFoundError("card", cardID)
	}
	return nil
}
