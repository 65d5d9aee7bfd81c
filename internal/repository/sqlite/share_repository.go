package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type shareRepository struct {
	db *sql.DB
}

// NewShareRepository creates a new ShareRepository implementation
func NewShareRepository(db *sql.DB) repository.ShareRepository {
	return &shareRepository{db: db}
}

func (r *shareRepository) Create(ctx context.Context, deckID int64, token string) (*models.ShareLink, error) {
	log := logger.FromContext(ctx).WithPrefix("share_repo")
	log.Debug("creating share link: deck_id=%d", deckID)

	if _, err := r.db.ExecContext(ctx, `INSERT INTO share_links (deck_id, token) VALUES (?, ?)`, deckID, token); err != nil {
		log.Warn("failed to create share link: %v", err)
		return nil, asDuplicate(err)
	}
	return r.GetByToken(ctx, token)
}

func (r *shareRepository) get(ctx context.Context, column string, value any) (*models.ShareLink, error) {
	log := logger.FromContext(ctx).WithPrefix("share_repo")

	query, args, err := sqlBuilder.Select("deck_id", "token", "created_at").From("share_links").
		Where(column+" = ?", value).
		ToSql()
	if err != nil {
		return nil, err
	}

	var link models.ShareLink
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&link.DeckID, &link.Token, &link.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("share link not found by %s", column)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get share link: %v", err)
		return nil, err
	}
	return &link, nil
}

func (r *shareRepository) GetByDeck(ctx context.Context, deckID int64) (*models.ShareLink, error) {
	return r.get(ctx, "deck_id", deckID)
}

func (r *shareRepository) GetByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	return r.get(ctx, "token", token)
}
