package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashdeck/internal/models"
)

// MockStudyRepository is a mock implementation of repository.StudyRepository
type MockStudyRepository struct {
	mock.Mock
}

func (m *MockStudyRepository) InsertAnswer(ctx context.Context, answer models.StudyAnswer) (int64, error) {
	args := m.Called(ctx, answer)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudyRepository) RememberedCounts(ctx context.Context, deckID int64) (int, int, error) {
	args := m.Called(ctx, deckID)
	return args.Int(0), args.Int(1), args.Error(2)
}

// MockShareRepository is a mock implementation of repository.ShareRepository
type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) Create(ctx context.Context, deckID int64, token string) (*models.ShareLink, error) {
	args := m.Called(ctx, deckID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShareLink), args.Error(1)
}

func (m *MockShareRepository) GetByDeck(ctx context.Context, deckID int64) (*models.ShareLink, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShareLink), args.Error(1)
}

func (m *MockShareRepository) GetByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShareLink), args.Error(1)
}
