package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/example/mathtrainer/internal/models"
)

// MockQuestionRepository is a mock implementation of repository.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Insert(ctx context.Context, q models.Question) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) Get(ctx context.Context, id int64) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

// MockAnswerRepository is a mock implementation of repository.AnswerRepository
type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) Insert(ctx context.Context, a models.Answer) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnswerRepository) RecentForLearner(ctx context.Context, learnerID int64, limit int) ([]models.Answer, error) {
	args := m.Called(ctx, learnerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Answer), args.Error(1)
}

func (m *MockAnswerRepository) OperationStats(ctx context.Context, learnerID int64) ([]models.OperationStat, error) {
	args := m.Called(ctx, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OperationStat), args.Error(1)
}
