package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

var deckColumns = []string{
	"d.id", "d.user_id", "d.name", "d.description", "d.learned_percent", "d.created_at", "d.updated_at",
	"(SELECT COUNT(*) FROM cards c WHERE c.deck_id = d.id) AS cards_count",
}

func scanDeck(row interface{ Scan(...any) error }) (*models.Deck, error) {
	var d models.Deck
	if err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.LearnedPercent, &d.CreatedAt, &d.UpdatedAt, &d.CardsCount); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) Create(ctx context.Context, userID int64, name, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("creating deck: user_id=%d, name=%s", userID, name)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO decks (user_id, name, description)
VALUES (?, ?, ?)
`, userID, name, description)
	if err != nil {
		log.Warn("failed to create deck: %v", err)
		return nil, asDuplicate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get deck id: %v", err)
		return nil, err
	}
	log.Debug("deck created: id=%d", id)
	return r.Get(ctx, id)
}

func (r *deckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d", id)

	query, args, err := sqlBuilder.Select(deckColumns...).From("decks d").Where("d.id = ?", id).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	d, err := scanDeck(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return d, nil
}

func (r *deckRepository) List(ctx context.Context, userID int64, page models.PageRequest) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: user_id=%d, page=%d, size=%d", userID, page.Page, page.Size)

	q := sqlBuilder.Select(deckColumns...).From("decks d").
		Where("d.user_id = ?", userID).
		OrderBy("d.created_at DESC", "d.id DESC")
	query, args, err := paginate(q, page).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, *d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) Count(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks WHERE user_id = ?`, userID).Scan(&n); err != nil {
		log.Error("failed to count decks: %v", err)
		return 0, err
	}
	return n, nil
}

func (r *deckRepository) Update(ctx context.Context, id int64, name, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating deck: id=%d", id)

	query, args, err := sqlBuilder.Update("decks").
		Set("name", name).
		Set("description", description).
		Set("updated_at", sqlNow).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Warn("failed to update deck: %v", err)
		return nil, asDuplicate(err)
	}
	return r.Get(ctx, id)
}

func (r *deckRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete deck %d: %v", id, err)
	}
	return err
}

func (r *deckRepository) UpdateLearnedPercent(ctx context.Context, id int64, percent int) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating learned percent: deck_id=%d, percent=%d", id, percent)

	_, err := r.db.ExecContext(ctx, `UPDATE decks SET learned_percent = ? WHERE id = ?`, percent, id)
	if err != nil {
		log.Error("failed to update learned percent: %v", err)
	}
	return err
}

// Import creates a deck for userID and copies cards into it in one transaction.
// Card positions are preserved; learned percent starts at zero.
func (r *deckRepository) Import(ctx context.Context, userID int64, name, description string, cards []models.Card) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("importing deck: user_id=%d, name=%s, cards=%d", userID, name, len(cards))

	var deckID int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO decks (user_id, name, description) VALUES (?, ?, ?)`, userID, name, description)
		if err != nil {
			return asDuplicate(err)
		}
		if deckID, err = res.LastInsertId(); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO cards (deck_id, question, answer, position) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, c := range cards {
			if _, err := stmt.ExecContext(ctx, deckID, c.Question, c.Answer, i+1); err != nil {
				log.Error("failed to copy card %d: %v", c.ID, err)
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Warn("import failed: %v", err)
		return nil, err
	}
	return r.Get(ctx, deckID)
}
