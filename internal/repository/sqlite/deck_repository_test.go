package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/testutil"
)

type DeckRepositorySuite struct {
	suite.Suite
	db     *sql.DB
	repo   repository.DeckRepository
	cards  repository.CardRepository
	userID int64
}

func (s *DeckRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewDeckRepository(s.db)
	s.cards = sqlite.NewCardRepository(s.db)
	s.userID = testutil.InsertUser(s.T(), s.db, "alice")
}

func (s *DeckRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *DeckRepositorySuite) TestCreateAndGet() {
	ctx := context.Background()

	deck, err := s.repo.Create(ctx, s.userID, "Испанский", "Базовые слова")
	s.Require().NoError(err)
	s.Require().NotNil(deck)
	s.Assert().Greater(deck.ID, int64(0))
	s.Assert().Equal("Испанский", deck.Name)
	s.Assert().Equal(0, deck.CardsCount)
	s.Assert().Equal(0, deck.LearnedPercent)

	got, err := s.repo.Get(ctx, deck.ID)
	s.Require().NoError(err)
	s.Assert().Equal(deck.ID, got.ID)
	s.Assert().Equal(s.userID, got.UserID)
}

func (s *DeckRepositorySuite) TestGetMissingReturnsNil() {
	got, err := s.repo.Get(context.Background(), 9999)
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *DeckRepositorySuite) TestCreateDuplicateName() {
	ctx := context.Background()
	_, err := s.repo.Create(ctx, s.userID, "Words", "")
	s.Require().NoError(err)

	_, err = s.repo.Create(ctx, s.userID, "Words", "")
	s.Require().Error(err)

	var dup *repository.DuplicateError
	s.Require().True(errors.As(err, &dup))
	s.Assert().Equal("name", dup.Field)

	// Another user may reuse the name.
	other := testutil.InsertUser(s.T(), s.db, "bob")
	_, err = s.repo.Create(ctx, other, "Words", "")
	s.Assert().NoError(err)
}

func (s *DeckRepositorySuite) TestListPaginatesNewestFirst() {
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		_, err := s.repo.Create(ctx, s.userID, name, "")
		s.Require().NoError(err)
	}

	first, err := s.repo.List(ctx, s.userID, models.PageRequest{Page: 0, Size: 2})
	s.Require().NoError(err)
	s.Require().Len(first, 2)
	s.Assert().Equal("c", first[0].Name)
	s.Assert().Equal("b", first[1].Name)

	second, err := s.repo.List(ctx, s.userID, models.PageRequest{Page: 1, Size: 2})
	s.Require().NoError(err)
	s.Require().Len(second, 1)
	s.Assert().Equal("a", second[0].Name)

	n, err := s.repo.Count(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(3, n)
}

func (s *DeckRepositorySuite) TestUpdate() {
	ctx := context.Background()
	deck, err := s.repo.Create(ctx, s.userID, "Old", "")
	s.Require().NoError(err)

	updated, err := s.repo.Update(ctx, deck.ID, "New", "desc")
	s.Require().NoError(err)
	s.Assert().Equal("New", updated.Name)
	s.Assert().Equal("desc", updated.Description)
}

func (s *DeckRepositorySuite) TestDeleteCascadesCards() {
	ctx := context.Background()
	deck, err := s.repo.Create(ctx, s.userID, "Temp", "")
	s.Require().NoError(err)
	testutil.InsertCard(s.T(), s.db, deck.ID, "q", "a", 1)

	s.Require().NoError(s.repo.Delete(ctx, deck.ID))

	var n int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE deck_id = ?`, deck.ID).Scan(&n))
	s.Assert().Equal(0, n)
}

func (s *DeckRepositorySuite) TestImportCopiesCardsInOrder() {
	ctx := context.Background()
	src := []models.Card{
		{Question: "uno", Answer: "one"},
		{Question: "dos", Answer: "two"},
	}

	deck, err := s.repo.Import(ctx, s.userID, "Copy", "shared", src)
	s.Require().NoError(err)
	s.Assert().Equal(2, deck.CardsCount)

	cards, err := s.cards.ListAll(ctx, deck.ID)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Assert().Equal("uno", cards[0].Question)
	s.Assert().Equal(1, cards[0].Position)
	s.Assert().Equal("dos", cards[1].Question)
	s.Assert().Equal(2, cards[1].Position)
}

func (s *DeckRepositorySuite) TestImportDuplicateNameRollsBack() {
	ctx := context.Background()
	_, err := s.repo.Create(ctx, s.userID, "Copy", "")
	s.Require().NoError(err)

	_, err = s.repo.Import(ctx, s.userID, "Copy", "", []models.Card{{Question: "q", Answer: "a"}})
	var dup *repository.DuplicateError
	s.Require().True(errors.As(err, &dup))

	n, err := s.repo.Count(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(1, n)
}

func (s *DeckRepositorySuite) TestUpdateLearnedPercent() {
	ctx := context.Background()
	deck, err := s.repo.Create(ctx, s.userID, "Deck", "")
	s.Require().NoError(err)

	s.Require().NoError(s.repo.UpdateLearnedPercent(ctx, deck.ID, 67))

	got, err := s.repo.Get(ctx, deck.ID)
	s.Require().NoError(err)
	s.Assert().Equal(67, got.LearnedPercent)
}

func TestDeckRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeckRepositorySuite))
}
