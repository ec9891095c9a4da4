package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/example/mathtrainer/internal/models"
)

// MockLearnerRepository is a mock implementation of repository.LearnerRepository
type MockLearnerRepository struct {
	mock.Mock
}

func (m *MockLearnerRepository) Get(ctx context.Context, id int64) (*models.Learner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Learner), args.Error(1)
}

func (m *MockLearnerRepository) GetByName(ctx context.Context, name string) (*models.Learner, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Learner), args.Error(1)
}

func (m *MockLearnerRepository) List(ctx context.Context) ([]models.Learner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Learner), args.Error(1)
}

func (m *MockLearnerRepository) Upsert(ctx context.Context, name string) (*models.Learner, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Learner), args.Error(1)
}

func (m *MockLearnerRepository) UpdateStreaks(ctx context.Context, id int64, current, best int) error {
	args := m.Called(ctx, id, current, best)
	return args.Error(0)
}
