package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

var cardColumns = []string{"id", "deck_id", "question", "answer", "position", "created_at", "updated_at"}

func scanCard(row interface{ Scan(...any) error }) (*models.Card, error) {
	var c models.Card
	if err := row.Scan(&c.ID, &c.DeckID, &c.Question, &c.Answer, &c.Position, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create appends the card after the deck's current last position.
func (r *cardRepository) Create(ctx context.Context, deckID int64, question, answer string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("creating card: deck_id=%d", deckID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO cards (deck_id, question, answer, position)
VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM cards WHERE deck_id = ?))
`, deckID, question, answer, deckID)
	if err != nil {
		log.Error("failed to create card: %v", err)
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get card id: %v", err)
		return nil, err
	}
	log.Debug("card created: id=%d", id)
	return r.Get(ctx, deckID, id)
}

func (r *cardRepository) Get(ctx context.Context, deckID, cardID int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: deck_id=%d, id=%d", deckID, cardID)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards").
		Where("id = ?", cardID).
		Where("deck_id = ?", deckID).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	c, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: deck_id=%d, id=%d", deckID, cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *cardRepository) list(ctx context.Context, deckID int64, page models.PageRequest) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	q := sqlBuilder.Select(cardColumns...).From("cards").
		Where("deck_id = ?", deckID).
		OrderBy("position ASC", "id ASC")
	query, args, err := paginate(q, page).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, *c)
	}
	log.Debug("found %d cards for deck %d", len(cards), deckID)
	return cards, rows.Err()
}

func (r *cardRepository) List(ctx context.Context, deckID int64, page models.PageRequest) ([]models.Card, error) {
	return r.list(ctx, deckID, page)
}

// ListAll returns every card of the deck in study order.
func (r *cardRepository) ListAll(ctx context.Context, deckID int64) ([]models.Card, error) {
	return r.list(ctx, deckID, models.PageRequest{})
}

func (r *cardRepository) Count(ctx context.Context, deckID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE deck_id = ?`, deckID).Scan(&n); err != nil {
		logger.FromContext(ctx).WithPrefix("card_repo").Error("failed to count cards: %v", err)
		return 0, err
	}
	return n, nil
}

func (r *cardRepository) Update(ctx context.Context, deckID, cardID int64, question, answer string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card: deck_id=%d, id=%d", deckID, cardID)

	query, args, err := sqlBuilder.Update("cards").
		Set("question", question).
		Set("answer", answer).
		Set("updated_at", sqlNow).
		Where("id = ?", cardID).
		Where("deck_id = ?", deckID).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to update card: %v", err)
		return nil, err
	}
	return r.Get(ctx, deckID, cardID)
}

func (r *cardRepository) Delete(ctx context.Context, deckID, cardID int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: deck_id=%d, id=%d", deckID, cardID)

	_, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ? AND deck_id = ?`, cardID, deckID)
	if err != nil {
		log.Error("failed to delete card: %v", err)
	}
	return err
}
