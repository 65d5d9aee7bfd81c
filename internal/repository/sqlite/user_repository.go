package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `u.id, u.login, u.email, u.password_hash, u.created_at, u.updated_at,
    (SELECT COUNT(*) FROM decks d WHERE d.user_id = u.id) AS decks_count`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &u.DecksCount); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, login, email, passwordHash string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("creating user: login=%s", login)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (login, email, password_hash)
VALUES (?, ?, ?)
`, login, email, passwordHash)
	if err != nil {
		log.Warn("failed to create user: %v", err)
		return nil, asDuplicate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get user id: %v", err)
		return nil, err
	}
	log.Debug("user created: id=%d", id)
	return r.Get(ctx, id)
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%d", id)

	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByLoginOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("looking up user by login or email")

	u, err := scanUser(r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users u
WHERE u.login = ? OR u.email = ?
LIMIT 1
`, identifier, identifier))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to look up user: %v", err)
		return nil, err
	}
	return u, nil
}

func (r *userRepository) exists(ctx context.Context, column, value string, exceptID int64) (bool, error) {
	query, args, err := sqlBuilder.Select("COUNT(*)").From("users").
		Where(column+" = ?", value).
		Where("id <> ?", exceptID).
		ToSql()
	if err != nil {
		return false, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *userRepository) LoginExists(ctx context.Context, login string, exceptID int64) (bool, error) {
	exists, err := r.exists(ctx, "login", login, exceptID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("user_repo").Error("failed to check login: %v", err)
	}
	return exists, err
}

func (r *userRepository) EmailExists(ctx context.Context, email string, exceptID int64) (bool, error) {
	exists, err := r.exists(ctx, "email", email, exceptID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("user_repo").Error("failed to check email: %v", err)
	}
	return exists, err
}

func (r *userRepository) Update(ctx context.Context, id int64, login, email string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating user: id=%d", id)

	_, err := r.db.ExecContext(ctx, `
UPDATE users SET login = ?, email = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, login, email, id)
	if err != nil {
		log.Warn("failed to update user: %v", err)
		return nil, asDuplicate(err)
	}
	return r.Get(ctx, id)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating password: user_id=%d", id)

	_, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, passwordHash, id)
	if err != nil {
		log.Error("failed to update password: %v", err)
	}
	return err
}

// Delete removes the user; sessions, decks, cards, share links and answers
// go with it through ON DELETE CASCADE.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("deleting user and related data: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete user %d: %v", id, err)
	}
	return err
}
