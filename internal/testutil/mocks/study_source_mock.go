package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashdeck/internal/models"
)

// MockStudySource is a mock implementation of study.Source
type MockStudySource struct {
	mock.Mock
}

func (m *MockStudySource) StudyCards(ctx context.Context, deckID int64) ([]models.StudyCard, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StudyCard), args.Error(1)
}

func (m *MockStudySource) SubmitAnswer(ctx context.Context, deckID, cardID int64, remembered bool) (*models.AnswerResult, error) {
	args := m.Called(ctx, deckID, cardID, remembered)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnswerResult), args.Error(1)
}

// MockNotifier is a mock implementation of client.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Success(msg string) { m.Called(msg) }
func (m *MockNotifier) Info(msg string)    { m.Called(msg) }
func (m *MockNotifier) Warning(msg string) { m.Called(msg) }
func (m *MockNotifier) Error(msg string)   { m.Called(msg) }
