package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newAuthService(users *mocks.MockUserRepository, sessions *mocks.MockSessionRepository) services.AuthService {
	return services.NewAuthService(users, sessions, time.Hour,
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithBcryptCost(bcrypt.MinCost))
}

func mustHash(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func requireAppError(t *testing.T, err error, status int, code string) *errors.AppError {
	t.Helper()
	appErr, ok := errors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.Status)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

var isTokenHash = mock.MatchedBy(func(h string) bool { return len(h) == 64 })

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.MockUserRepository)
	sessions := new(mocks.MockSessionRepository)
	svc := newAuthService(users, sessions)

	user := &models.User{ID: 7, Login: "alice", Email: "alice@example.com"}
	users.On("LoginExists", ctx, "alice", int64(0)).Return(false, nil)
	users.On("EmailExists", ctx, "alice@example.com", int64(0)).Return(false, nil)
	users.On("Create", ctx, "alice", "alice@example.com", mock.AnythingOfType("string")).Return(user, nil)
	sessions.On("Create", ctx, int64(7), isTokenHash, fixedNow.Add(time.Hour)).Return(&models.Session{ID: 1}, nil)

	res, err := svc.Register(ctx, " alice ", "alice@example.com", "Password1!")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, user, res.User)

	stored := users.Calls[2].Arguments.String(3)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("Password1!")), "password should be stored as bcrypt hash")
	users.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestAuthService_RegisterConflicts(t *testing.T) {
	ctx := context.Background()

	t.Run("login taken", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		users.On("LoginExists", ctx, "alice", int64(0)).Return(true, nil)

		_, err := newAuthService(users, new(mocks.MockSessionRepository)).Register(ctx, "alice", "a@example.com", "Password1!")
		requireAppError(t, err, http.StatusConflict, errors.ErrCodeLoginTaken)
	})

	t.Run("email taken", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		users.On("LoginExists", ctx, "alice", int64(0)).Return(false, nil)
		users.On("EmailExists", ctx, "a@example.com", int64(0)).Return(true, nil)

		_, err := newAuthService(users, new(mocks.MockSessionRepository)).Register(ctx, "alice", "a@example.com", "Password1!")
		requireAppError(t, err, http.StatusConflict, errors.ErrCodeEmailTaken)
	})

	t.Run("unique violation on insert", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		users.On("LoginExists", ctx, "alice", int64(0)).Return(false, nil)
		users.On("EmailExists", ctx, "a@example.com", int64(0)).Return(false, nil)
		users.On("Create", ctx, "alice", "a@example.com", mock.Anything).
			Return(nil, &repository.DuplicateError{Field: "email"})

		_, err := newAuthService(users, new(mocks.MockSessionRepository)).Register(ctx, "alice", "a@example.com", "Password1!")
		requireAppError(t, err, http.StatusConflict, errors.ErrCodeEmailTaken)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: 3, Login: "alice", PasswordHash: mustHash(t, "Password1!")}

	t.Run("success", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		sessions := new(mocks.MockSessionRepository)
		users.On("GetByLoginOrEmail", ctx, "alice").Return(user, nil)
		sessions.On("Create", ctx, int64(3), isTokenHash, mock.Anything).Return(&models.Session{}, nil)

		res, err := newAuthService(users, sessions).Login(ctx, "alice", "Password1!")
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		users.On("GetByLoginOrEmail", ctx, "alice").Return(user, nil)

		_, err := newAuthService(users, new(mocks.MockSessionRepository)).Login(ctx, "alice", "Wrong1!pass")
		requireAppError(t, err, http.StatusUnauthorized, errors.ErrCodeBadPassword)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		users.On("GetByLoginOrEmail", ctx, "ghost").Return(nil, nil)

		_, err := newAuthService(users, new(mocks.MockSessionRepository)).Login(ctx, "ghost", "Password1!")
		requireAppError(t, err, http.StatusUnauthorized, errors.ErrCodeBadPassword)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	hash := services.HashToken("token")

	t.Run("valid session", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		sessions := new(mocks.MockSessionRepository)
		sessions.On("GetByTokenHash", ctx, hash).Return(&models.Session{UserID: 5, ExpiresAt: fixedNow.Add(time.Minute)}, nil)
		users.On("Get", ctx, int64(5)).Return(&models.User{ID: 5}, nil)

		user, err := newAuthService(users, sessions).Authenticate(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, int64(5), user.ID)
	})

	t.Run("expired session is removed", func(t *testing.T) {
		sessions := new(mocks.MockSessionRepository)
		sessions.On("GetByTokenHash", ctx, hash).Return(&models.Session{UserID: 5, ExpiresAt: fixedNow}, nil)
		sessions.On("Delete", ctx, hash).Return(nil)

		_, err := newAuthService(new(mocks.MockUserRepository), sessions).Authenticate(ctx, "token")
		requireAppError(t, err, http.StatusUnauthorized, errors.ErrCodeUnauthorized)
		sessions.AssertExpectations(t)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := newAuthService(new(mocks.MockUserRepository), new(mocks.MockSessionRepository)).Authenticate(ctx, "")
		requireAppError(t, err, http.StatusUnauthorized, errors.ErrCodeUnauthorized)
	})
}

func TestAuthService_Availability(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.MockUserRepository)
	users.On("LoginExists", ctx, "alice", int64(0)).Return(true, nil)
	users.On("EmailExists", ctx, "free@example.com", int64(0)).Return(false, nil)
	svc := newAuthService(users, new(mocks.MockSessionRepository))

	available, err := svc.LoginAvailable(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = svc.EmailAvailable(ctx, "free@example.com")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, services.HashToken("abc"), services.HashToken("abc"))
	assert.NotEqual(t, services.HashToken("abc"), services.HashToken("abd"))
	assert.Len(t, services.HashToken("abc"), 64)
}
