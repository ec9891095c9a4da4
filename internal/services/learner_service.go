package services

import (
	"context"

	apperrors "github.com/example/mathtrainer/internal/errors"
	"github.com/example/mathtrainer/internal/models"
	"github.com/example/mathtrainer/internal/repository"
)

// LearnerService handles learner listing and creation.
type LearnerService interface {
	Get(ctx context.Context, id int64) (*models.Learner, error)
	List(ctx context.Context) ([]models.Learner, error)
	Create(ctx context.Context, name string) (*models.Learner, error)
}

type learnerService struct {
	learners repository.LearnerRepository
}

// NewLearnerService creates a new LearnerService
func NewLearnerService(learners repository.LearnerRepository) LearnerService {
	return &learnerService{learners: learners}
}

func (s *learnerService) Get(ctx context.Context, id int64) (*models.Learner, error) {
	learner, err := s.learners.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if learner == nil {
		return nil, apperrors.NewNotFoundError("learner", id)
	}
	return learner, nil
}

func (s *learnerService) List(ctx context.Context) ([]models.Learner, error) {
	return s.learners.List(ctx)
}

func (s *learnerService) Create(ctx context.Context, name string) (*models.Learner, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("name", "cannot be empty")
	}
	return s.learners.Upsert(ctx, name)
}
