package services

import (
	"context"

	"github.com/samber/lo"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/jobs"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// StudyService serves study sessions and records answers
type StudyService interface {
	Cards(ctx context.Context, userID, deckID int64) ([]models.StudyCard, error)
	Answer(ctx context.Context, userID, deckID, cardID int64, remembered bool) (*models.AnswerResult, error)
}

type studyService struct {
	deckRepo  repository.DeckRepository
	cardRepo  repository.CardRepository
	studyRepo repository.StudyRepository
	jobQueue  jobs.JobQueue
}

// NewStudyService creates a new StudyService
func NewStudyService(
	deckRepo repository.DeckRepository,
	cardRepo repository.CardRepository,
	studyRepo repository.StudyRepository,
	jobQueue jobs.JobQueue,
) StudyService {
	return &studyService{deckRepo: deckRepo, cardRepo: cardRepo, studyRepo: studyRepo, jobQueue: jobQueue}
}

func (s *studyService) Cards(ctx context.Context, userID, deckID int64) ([]models.StudyCard, error) {
	log := logger.FromContext(ctx)
	log.Debug("loading study cards: deck_id=%d", deckID)

	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return nil, err
	}

	cards, err := s.cardRepo.ListAll(ctx, deckID)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return lo.Map(cards, func(c models.Card, _ int) models.StudyCard {
		return models.StudyCard{ID: c.ID, Question: c.Question, Answer: c.Answer}
	}), nil
}

func (s *studyService) Answer(ctx context.Context, userID, deckID, cardID int64, remembered bool) (*models.AnswerResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording answer: deck_id=%d, card_id=%d, remembered=%t", deckID, cardID, remembered)

	if _, err := ownedDeck(ctx, s.deckRepo, userID, deckID); err != nil {
		return nil, err
	}

	card, err := s.cardRepo.Get(ctx, deckID, cardID)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}

	if _, err := s.studyRepo.InsertAnswer(ctx, models.StudyAnswer{
		UserID:     userID,
		DeckID:     deckID,
		CardID:     cardID,
		Remembered: remembered,
	}); err != nil {
		log.Error("failed to record answer: %v", err)
		return nil, errors.NewInternalError(err)
	}
	scheduleRecalculate(ctx, s.jobQueue, deckID)

	return &models.AnswerResult{DeckID: deckID, CardID: cardID, Remembered: remembered}, nil
}
