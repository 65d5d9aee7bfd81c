package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type studyRepository struct {
	db *sql.DB
}

// NewStudyRepository creates a new StudyRepository implementation
func NewStudyRepository(db *sql.DB) repository.StudyRepository {
	return &studyRepository{db: db}
}

func (r *studyRepository) InsertAnswer(ctx context.Context, a models.StudyAnswer) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("study_repo")
	log.Debug("recording answer: deck_id=%d, card_id=%d, remembered=%t", a.DeckID, a.CardID, a.Remembered)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO study_answers (user_id, deck_id, card_id, remembered)
VALUES (?, ?, ?, ?)
`, a.UserID, a.DeckID, a.CardID, a.Remembered)
	if err != nil {
		log.Error("failed to record answer: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *studyRepository) RememberedCounts(ctx context.Context, deckID int64) (int, int, error) {
	log := logger.FromContext(ctx).WithPrefix("study_repo")
	log.Debug("counting remembered cards: deck_id=%d", deckID)

	var remembered, total int
	err := r.db.QueryRowContext(ctx, `
SELECT
    COALESCE(SUM(CASE WHEN (
        SELECT sa.remembered FROM study_answers sa
        WHERE sa.card_id = c.id
        ORDER BY sa.id DESC
        LIMIT 1
    ) = 1 THEN 1 ELSE 0 END), 0) AS remembered,
    COUNT(*) AS total
FROM cards c
WHERE c.deck_id = ?
`, deckID).Scan(&remembered, &total)
	if err != nil {
		log.Error("failed to count remembered cards: %v", err)
		return 0, 0, err
	}
	return remembered, total, nil
}
