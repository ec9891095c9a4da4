package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/example/mathtrainer/internal/models"
	"github.com/example/mathtrainer/internal/topic"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Find(ctx context.Context, learnerID int64, t topic.Topic) (*models.Card, error) {
	args := m.Called(ctx, learnerID, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) InsertIfAbsent(ctx context.Context, card models.Card) (*models.Card, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) Update(ctx context.Context, card models.Card) (*models.Card, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) List(ctx context.Context, learnerID int64) ([]models.Card, error) {
	args := m.Called(ctx, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) Due(ctx context.Context, learnerID int64, now time.Time, limit int) ([]models.Card, error) {
	args := m.Called(ctx, learnerID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) DueCount(ctx context.Context, learnerID int64, now time.Time) (int, error) {
	args := m.Called(ctx, learnerID, now)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) BoxCounts(ctx context.Context, learnerID int64) (map[int]int, error) {
	args := m.Called(ctx, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int), args.Error(1)
}
