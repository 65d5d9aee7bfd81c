package jobs

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool        *worker.Pool
	studyRepo   repository.StudyRepository
	deckRepo    repository.DeckRepository
	sessionRepo repository.SessionRepository
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	pool *worker.Pool,
	studyRepo repository.StudyRepository,
	deckRepo repository.DeckRepository,
	sessionRepo repository.SessionRepository,
) *WorkerQueue {
	return &WorkerQueue{
		pool:        pool,
		studyRepo:   studyRepo,
		deckRepo:    deckRepo,
		sessionRepo: sessionRepo,
	}
}

func (q *WorkerQueue) EnqueueRecalculate(deckID int64) error {
	return q.pool.Submit(&worker.RecalculateLearnedJob{
		StudyRepo: q.studyRepo,
		DeckRepo:  q.deckRepo,
		DeckID:    deckID,
	})
}

func (q *WorkerQueue) EnqueuePurgeSessions() error {
	return q.pool.Submit(&worker.PurgeSessionsJob{SessionRepo: q.sessionRepo})
}

// RunPurgeLoop enqueues a session purge immediately and then every interval
// until ctx is done.
func (q *WorkerQueue) RunPurgeLoop(ctx context.Context, interval time.Duration) {
	log := logger.FromContext(ctx).WithPrefix("purge")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := q.EnqueuePurgeSessions(); err != nil {
			log.Warn("failed to enqueue session purge: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
