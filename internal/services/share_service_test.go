package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
)

const publicURL = "https://flashdeck.example"

func TestShareService_ShareReusesExistingLink(t *testing.T) {
	ctx := context.Background()
	decks := new(mocks.MockDeckRepository)
	shares := new(mocks.MockShareRepository)
	ownDeck(ctx, decks, 1, 10)
	shares.On("GetByDeck", ctx, int64(10)).Return(&models.ShareLink{DeckID: 10, Token: "abc"}, nil)

	svc := services.NewShareService(decks, new(mocks.MockCardRepository), shares, publicURL, 5)
	link, err := svc.Share(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "abc", link.Token)
	assert.Equal(t, publicURL+"/share/abc", link.URL)
	shares.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestShareService_ShareCreatesLink(t *testing.T) {
	ctx := context.Background()
	decks := new(mocks.MockDeckRepository)
	shares := new(mocks.MockShareRepository)
	ownDeck(ctx, decks, 1, 10)
	shares.On("GetByDeck", ctx, int64(10)).Return(nil, nil)
	shares.On("Create", ctx, int64(10), mock.AnythingOfType("string")).
		Return(&models.ShareLink{DeckID: 10, Token: "fresh"}, nil)

	link, err := services.NewShareService(decks, new(mocks.MockCardRepository), shares, publicURL, 5).Share(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, publicURL+"/share/fresh", link.URL)
}

func TestShareService_GetSharedUnknownToken(t *testing.T) {
	ctx := context.Background()
	shares := new(mocks.MockShareRepository)
	shares.On("GetByToken", ctx, "nope").Return(nil, nil)

	svc := services.NewShareService(new(mocks.MockDeckRepository), new(mocks.MockCardRepository), shares, publicURL, 5)
	_, err := svc.GetShared(ctx, "nope")
	requireAppError(t, err, http.StatusNotFound, errors.ErrCodeNotFound)
}

func TestShareService_Import(t *testing.T) {
	ctx := context.Background()
	sharedCards := []models.Card{{ID: 1, Question: "q", Answer: "a"}}

	setup := func() (*mocks.MockDeckRepository, *mocks.MockCardRepository, *mocks.MockShareRepository) {
		decks := new(mocks.MockDeckRepository)
		cards := new(mocks.MockCardRepository)
		shares := new(mocks.MockShareRepository)
		shares.On("GetByToken", ctx, "tok").Return(&models.ShareLink{DeckID: 10, Token: "tok"}, nil)
		decks.On("Get", ctx, int64(10)).Return(&models.Deck{ID: 10, UserID: 2, Name: "Shared", Description: "d"}, nil)
		cards.On("ListAll", ctx, int64(10)).Return(sharedCards, nil)
		return decks, cards, shares
	}

	t.Run("success", func(t *testing.T) {
		decks, cards, shares := setup()
		decks.On("Count", ctx, int64(1)).Return(0, nil)
		decks.On("Import", ctx, int64(1), "Shared", "d", sharedCards).Return(&models.Deck{ID: 20, UserID: 1}, nil)

		deck, err := services.NewShareService(decks, cards, shares, publicURL, 5).Import(ctx, 1, "tok")
		require.NoError(t, err)
		assert.Equal(t, int64(20), deck.ID)
	})

	t.Run("name clash", func(t *testing.T) {
		decks, cards, shares := setup()
		decks.On("Count", ctx, int64(1)).Return(0, nil)
		decks.On("Import", ctx, int64(1), "Shared", "d", sharedCards).Return(nil, &repository.DuplicateError{Field: "name"})

		_, err := services.NewShareService(decks, cards, shares, publicURL, 5).Import(ctx, 1, "tok")
		requireAppError(t, err, http.StatusConflict, errors.ErrCodeDeckExists)
	})

	t.Run("deck limit", func(t *testing.T) {
		decks, cards, shares := setup()
		decks.On("Count", ctx, int64(1)).Return(5, nil)

		_, err := services.NewShareService(decks, cards, shares, publicURL, 5).Import(ctx, 1, "tok")
		requireAppError(t, err, http.StatusUnprocessableEntity, errors.ErrCodeDeckLimit)
	})
}
