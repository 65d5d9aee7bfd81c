package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/testutil"
)

type UserRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	repo     repository.UserRepository
	sessions repository.SessionRepository
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewUserRepository(s.db)
	s.sessions = sqlite.NewSessionRepository(s.db)
}

func (s *UserRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *UserRepositorySuite) TestCreateAndLookup() {
	ctx := context.Background()

	u, err := s.repo.Create(ctx, "alice", "alice@example.com", "hash")
	s.Require().NoError(err)
	s.Assert().Greater(u.ID, int64(0))
	s.Assert().Equal(0, u.DecksCount)

	byLogin, err := s.repo.GetByLoginOrEmail(ctx, "ALICE")
	s.Require().NoError(err)
	s.Require().NotNil(byLogin)
	s.Assert().Equal(u.ID, byLogin.ID)

	byEmail, err := s.repo.GetByLoginOrEmail(ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(byEmail)
	s.Assert().Equal("hash", byEmail.PasswordHash)

	missing, err := s.repo.GetByLoginOrEmail(ctx, "nobody")
	s.Require().NoError(err)
	s.Assert().Nil(missing)
}

func (s *UserRepositorySuite) TestDuplicateLoginAndEmail() {
	ctx := context.Background()
	_, err := s.repo.Create(ctx, "alice", "alice@example.com", "hash")
	s.Require().NoError(err)

	var dup *repository.DuplicateError

	_, err = s.repo.Create(ctx, "Alice", "other@example.com", "hash")
	s.Require().True(errors.As(err, &dup))
	s.Assert().Equal("login", dup.Field)

	_, err = s.repo.Create(ctx, "bob", "ALICE@example.com", "hash")
	s.Require().True(errors.As(err, &dup))
	s.Assert().Equal("email", dup.Field)
}

func (s *UserRepositorySuite) TestExistsExcludesSelf() {
	ctx := context.Background()
	u, err := s.repo.Create(ctx, "alice", "alice@example.com", "hash")
	s.Require().NoError(err)

	exists, err := s.repo.LoginExists(ctx, "alice", 0)
	s.Require().NoError(err)
	s.Assert().True(exists)

	exists, err = s.repo.LoginExists(ctx, "alice", u.ID)
	s.Require().NoError(err)
	s.Assert().False(exists)

	exists, err = s.repo.EmailExists(ctx, "free@example.com", 0)
	s.Require().NoError(err)
	s.Assert().False(exists)
}

func (s *UserRepositorySuite) TestUpdateAndPassword() {
	ctx := context.Background()
	u, err := s.repo.Create(ctx, "alice", "alice@example.com", "hash")
	s.Require().NoError(err)

	updated, err := s.repo.Update(ctx, u.ID, "alice2", "alice2@example.com")
	s.Require().NoError(err)
	s.Assert().Equal("alice2", updated.Login)
	s.Assert().Equal("alice2@example.com", updated.Email)

	s.Require().NoError(s.repo.UpdatePassword(ctx, u.ID, "newhash"))
	got, err := s.repo.Get(ctx, u.ID)
	s.Require().NoError(err)
	s.Assert().Equal("newhash", got.PasswordHash)
}

func (s *UserRepositorySuite) TestDeleteCascadesSessionsAndDecks() {
	ctx := context.Background()
	u, err := s.repo.Create(ctx, "alice", "alice@example.com", "hash")
	s.Require().NoError(err)
	testutil.InsertDeck(s.T(), s.db, u.ID, "Deck")
	_, err = s.sessions.Create(ctx, u.ID, "tokenhash", time.Now().Add(time.Hour))
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, u.ID)
	s.Require().NoError(err)
	s.Assert().Equal(1, got.DecksCount)

	s.Require().NoError(s.repo.Delete(ctx, u.ID))

	session, err := s.sessions.GetByTokenHash(ctx, "tokenhash")
	s.Require().NoError(err)
	s.Assert().Nil(session)

	var decks int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks`).Scan(&decks))
	s.Assert().Equal(0, decks)
}

func (s *UserRepositorySuite) TestSessionLifecycle() {
	ctx := context.Background()
	userID := testutil.InsertUser(s.T(), s.db, "alice")
	now := time.Now()

	_, err := s.sessions.Create(ctx, userID, "current", now.Add(time.Hour))
	s.Require().NoError(err)
	_, err = s.sessions.Create(ctx, userID, "other", now.Add(time.Hour))
	s.Require().NoError(err)
	_, err = s.sessions.Create(ctx, userID, "stale", now.Add(-time.Hour))
	s.Require().NoError(err)

	purged, err := s.sessions.DeleteExpired(ctx, now)
	s.Require().NoError(err)
	s.Assert().Equal(int64(1), purged)

	s.Require().NoError(s.sessions.DeleteOthers(ctx, userID, "current"))

	kept, err := s.sessions.GetByTokenHash(ctx, "current")
	s.Require().NoError(err)
	s.Require().NotNil(kept)
	s.Assert().False(kept.Expired(now))

	gone, err := s.sessions.GetByTokenHash(ctx, "other")
	s.Require().NoError(err)
	s.Assert().Nil(gone)

	s.Require().NoError(s.sessions.Delete(ctx, "current"))
	kept, err = s.sessions.GetByTokenHash(ctx, "current")
	s.Require().NoError(err)
	s.Assert().Nil(kept)
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}
