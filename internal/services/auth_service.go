package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgLoginTaken         = "Пользователь с таким логином уже существует"
	msgEmailTaken         = "Пользователь с таким email уже существует"
	msgInvalidCredentials = "Неверный логин или пароль"
	msgAuthRequired       = "Требуется авторизация"
)

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService handles registration, login sessions and token checks
type AuthService interface {
	Register(ctx context.Context, login, email, password string) (*AuthResult, error)
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*models.User, error)
	LoginAvailable(ctx context.Context, login string) (bool, error)
	EmailAvailable(ctx context.Context, email string) (bool, error)
}

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	ttl         time.Duration
	bcryptCost  int
	now         func() time.Time
}

// AuthOption customizes an AuthService.
type AuthOption func(*authService)

// WithClock overrides the time source used for session expiry.
func WithClock(now func() time.Time) AuthOption {
	return func(s *authService) { s.now = now }
}

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *authService) { s.bcryptCost = cost }
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, ttl time.Duration, opts ...AuthOption) AuthService {
	s := &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		ttl:         ttl,
		bcryptCost:  bcrypt.DefaultCost,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HashToken returns the stored form of a bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *authService) Register(ctx context.Context, login, email, password string) (*AuthResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("registering user: login=%s", login)

	login = strings.TrimSpace(login)
	email = strings.TrimSpace(email)

	if taken, err := s.userRepo.LoginExists(ctx, login, 0); err != nil {
		return nil, errors.NewInternalError(err)
	} else if taken {
		return nil, errors.NewConflictError(errors.ErrCodeLoginTaken, msgLoginTaken)
	}
	if taken, err := s.userRepo.EmailExists(ctx, email, 0); err != nil {
		return nil, errors.NewInternalError(err)
	} else if taken {
		return nil, errors.NewConflictError(errors.ErrCodeEmailTaken, msgEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		log.Error("failed to hash password: %v", err)
		return nil, errors.NewInternalError(err)
	}

	user, err := s.userRepo.Create(ctx, login, email, string(hash))
	if err != nil {
		return nil, userConflict(err)
	}
	log.Info("user registered: id=%d", user.ID)

	return s.startSession(ctx, user)
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("login attempt")

	user, err := s.userRepo.GetByLoginOrEmail(ctx, strings.TrimSpace(identifier))
	if err != nil {
		log.Error("failed to look up user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Debug("password mismatch for user %d", user.ID)
		return nil, invalidCredentials()
	}

	return s.startSession(ctx, user)
}

func (s *authService) startSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	token := uuid.NewString()
	if _, err := s.sessionRepo.Create(ctx, user.ID, HashToken(token), s.now().Add(s.ttl)); err != nil {
		logger.FromContext(ctx).Error("failed to create session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.sessionRepo.Delete(ctx, HashToken(token)); err != nil {
		logger.FromContext(ctx).Error("failed to delete session: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	log := logger.FromContext(ctx)
	if token == "" {
		return nil, errors.NewUnauthorizedError(msgAuthRequired)
	}

	hash := HashToken(token)
	session, err := s.sessionRepo.GetByTokenHash(ctx, hash)
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewUnauthorizedError(msgAuthRequired)
	}
	if session.Expired(s.now()) {
		log.Debug("session expired: user_id=%d", session.UserID)
		if err := s.sessionRepo.Delete(ctx, hash); err != nil {
			log.Warn("failed to delete expired session: %v", err)
		}
		return nil, errors.NewUnauthorizedError(msgAuthRequired)
	}

	user, err := s.userRepo.Get(ctx, session.UserID)
	if err != nil {
		log.Error("failed to load session user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewUnauthorizedError(msgAuthRequired)
	}
	return user, nil
}

func (s *authService) LoginAvailable(ctx context.Context, login string) (bool, error) {
	taken, err := s.userRepo.LoginExists(ctx, strings.TrimSpace(login), 0)
	if err != nil {
		return false, errors.NewInternalError(err)
	}
	return !taken, nil
}

func (s *authService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	taken, err := s.userRepo.EmailExists(ctx, strings.TrimSpace(email), 0)
	if err != nil {
		return false, errors.NewInternalError(err)
	}
	return !taken, nil
}

func invalidCredentials() *errors.AppError {
	appErr := errors.NewUnauthorizedError(msgInvalidCredentials)
	appErr.Code = errors.ErrCodeBadPassword
	return appErr
}

// userConflict maps a login/email uniqueness violation to a 409.
func userConflict(err error) error {
	var dup *repository.DuplicateError
	if stderrors.As(err, &dup) {
		if dup.Field == "email" {
			return errors.NewConflictError(errors.ErrCodeEmailTaken, msgEmailTaken)
		}
		return errors.NewConflictError(errors.ErrCodeLoginTaken, msgLoginTaken)
	}
	return errors.NewInternalError(err)
}
