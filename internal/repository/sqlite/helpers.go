package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var sqlNow = squirrel.Expr("CURRENT_TIMESTAMP")

// Helper functions shared across repository implementations

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}

// paginate applies LIMIT/OFFSET for a zero-based page request.
func paginate(q squirrel.SelectBuilder, page models.PageRequest) squirrel.SelectBuilder {
	if page.Size <= 0 {
		return q
	}
	return q.Limit(uint64(page.Size)).Offset(uint64(page.Offset()))
}

// asDuplicate converts a UNIQUE constraint failure into *repository.DuplicateError.
// SQLite reports the columns as "UNIQUE constraint failed: table.col[, table.col]";
// the last column is reported as the field.
func asDuplicate(err error) error {
	var sqErr sqlite3.Error
	if !errors.As(err, &sqErr) || sqErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return err
	}
	field := ""
	msg := sqErr.Error()
	if idx := strings.LastIndex(msg, "."); idx >= 0 {
		field = strings.TrimSpace(msg[idx+1:])
	}
	return &repository.DuplicateError{Field: field, Err: err}
}
