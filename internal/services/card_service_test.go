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
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
	"github.com/vytor/flashdeck/internal/worker"
)

func ownDeck(ctx context.Context, decks *mocks.MockDeckRepository, userID, deckID int64) {
	decks.On("Get", ctx, deckID).Return(&models.Deck{ID: deckID, UserID: userID}, nil)
}

func TestCardService_CreateLimit(t *testing.T) {
	ctx := context.Background()
	decks := new(mocks.MockDeckRepository)
	cards := new(mocks.MockCardRepository)
	ownDeck(ctx, decks, 1, 10)
	cards.On("Count", ctx, int64(10)).Return(3, nil)

	_, err := services.NewCardService(decks, cards, new(mocks.MockJobQueue), 3).Create(ctx, 1, 10, "q", "a")
	requireAppError(t, err, http.StatusUnprocessableEntity, errors.ErrCodeCardLimit)
}

func TestCardService_CreateSchedulesRecalculation(t *testing.T) {
	ctx := context.Background()
	decks := new(mocks.MockDeckRepository)
	cards := new(mocks.MockCardRepository)
	queue := new(mocks.MockJobQueue)
	ownDeck(ctx, decks, 1, 10)
	cards.On("Count", ctx, int64(10)).Return(0, nil)
	cards.On("Create", ctx, int64(10), "q", "a").Return(&models.Card{ID: 5, DeckID: 10}, nil)
	queue.On("EnqueueRecalculate", int64(10)).Return(nil)

	card, err := services.NewCardService(decks, cards, queue, 3).Create(ctx, 1, 10, " q ", "a")
	require.NoError(t, err)
	assert.Equal(t, int64(5), card.ID)
	queue.AssertExpectations(t)
}

func TestCardService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("card outside deck", func(t *testing.T) {
		decks := new(mocks.MockDeckRepository)
		cards := new(mocks.MockCardRepository)
		ownDeck(ctx, decks, 1, 10)
		cards.On("Get", ctx, int64(10), int64(99)).Return(nil, nil)

		err := services.NewCardService(decks, cards, new(mocks.MockJobQueue), 3).Delete(ctx, 1, 10, 99)
		appErr := requireAppError(t, err, http.StatusNotFound, errors.ErrCodeNotFound)
		assert.Equal(t, "Карточка не найдена", appErr.Message)
	})

	t.Run("full queue does not fail the delete", func(t *testing.T) {
		decks := new(mocks.MockDeckRepository)
		cards := new(mocks.MockCardRepository)
		queue := new(mocks.MockJobQueue)
		ownDeck(ctx, decks, 1, 10)
		cards.On("Get", ctx, int64(10), int64(5)).Return(&models.Card{ID: 5}, nil)
		cards.On("Delete", ctx, int64(10), int64(5)).Return(nil)
		queue.On("EnqueueRecalculate", int64(10)).Return(worker.ErrQueueFull)

		err := services.NewCardService(decks, cards, queue, 3).Delete(ctx, 1, 10, 5)
		require.NoError(t, err)
		queue.AssertExpectations(t)
	})
}

func TestCardService_ListForeignDeck(t *testing.T) {
	ctx := context.Background()
	decks := new(mocks.MockDeckRepository)
	cards := new(mocks.MockCardRepository)
	ownDeck(ctx, decks, 2, 10)

	_, err := services.NewCardService(decks, cards, new(mocks.MockJobQueue), 3).List(ctx, 1, 10, models.PageRequest{Size: 20})
	requireAppError(t, err, http.StatusNotFound, errors.ErrCodeNotFound)
	cards.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}
