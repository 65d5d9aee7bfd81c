package services

import (
	"context"
	"strings"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const msgWrongPassword = "Неверный текущий пароль"

// UserService handles the signed-in user's profile
type UserService interface {
	Me(ctx context.Context, userID int64) (*models.User, error)
	Update(ctx context.Context, userID int64, login, email string) (*models.User, error)
	Delete(ctx context.Context, userID int64) error
	ChangePassword(ctx context.Context, userID int64, token, currentPassword, newPassword string) error
}

type userService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	bcryptCost  int
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository) UserService {
	return &userService{userRepo: userRepo, sessionRepo: sessionRepo, bcryptCost: bcrypt.DefaultCost}
}

func (s *userService) Me(ctx context.Context, userID int64) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting user: id=%d", userID)

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, userID int64, login, email string) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating user: id=%d", userID)

	login = strings.TrimSpace(login)
	email = strings.TrimSpace(email)

	if taken, err := s.userRepo.LoginExists(ctx, login, userID); err != nil {
		return nil, errors.NewInternalError(err)
	} else if taken {
		return nil, errors.NewConflictError(errors.ErrCodeLoginTaken, msgLoginTaken)
	}
	if taken, err := s.userRepo.EmailExists(ctx, email, userID); err != nil {
		return nil, errors.NewInternalError(err)
	} else if taken {
		return nil, errors.NewConflictError(errors.ErrCodeEmailTaken, msgEmailTaken)
	}

	user, err := s.userRepo.Update(ctx, userID, login, email)
	if err != nil {
		return nil, userConflict(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)
	log.Info("deleting user and all data: id=%d", userID)

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		log.Error("failed to delete user: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

// ChangePassword replaces the password and signs out every other session.
// The session identified by token stays valid.
func (s *userService) ChangePassword(ctx context.Context, userID int64, token, currentPassword, newPassword string) error {
	log := logger.FromContext(ctx)
	log.Debug("changing password: user_id=%d", userID)

	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return errors.NewValidationError("currentPassword", msgWrongPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		log.Error("failed to hash password: %v", err)
		return errors.NewInternalError(err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return errors.NewInternalError(err)
	}
	if err := s.sessionRepo.DeleteOthers(ctx, userID, HashToken(token)); err != nil {
		log.Warn("failed to revoke other sessions: %v", err)
	}
	return nil
}
