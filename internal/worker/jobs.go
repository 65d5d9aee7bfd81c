package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/repository"
)

// RecalculateLearnedJob recomputes and stores a deck's learned percent.
type RecalculateLearnedJob struct {
	StudyRepo repository.StudyRepository
	DeckRepo  repository.DeckRepository
	DeckID    int64
}

func (j *RecalculateLearnedJob) Name() string { return "recalculate_learned" }

func (j *RecalculateLearnedJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("deck_id", j.DeckID)

	remembered, total, err := j.StudyRepo.RememberedCounts(ctx, j.DeckID)
	if err != nil {
		return fmt.Errorf("count remembered cards: %w", err)
	}
	percent := flashcard.LearnedPercent(remembered, total)
	log.Debug("learned percent: %d/%d -> %d%%", remembered, total, percent)

	if err := j.DeckRepo.UpdateLearnedPercent(ctx, j.DeckID, percent); err != nil {
		return fmt.Errorf("store learned percent: %w", err)
	}
	return nil
}

// PurgeSessionsJob deletes login sessions that expired before Now.
type PurgeSessionsJob struct {
	SessionRepo repository.SessionRepository
	Now         func() time.Time
}

func (j *PurgeSessionsJob) Name() string { return "purge_sessions" }

func (j *PurgeSessionsJob) Run(ctx context.Context) error {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	n, err := j.SessionRepo.DeleteExpired(ctx, now())
	if err != nil {
		return fmt.Errorf("purge sessions: %w", err)
	}
	if n > 0 {
		logger.FromContext(ctx).Info("purged %d expired sessions", n)
	}
	return nil
}
