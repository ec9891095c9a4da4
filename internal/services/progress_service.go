package services

import (
	"context"

	apperrors "github.com/example/mathtrainer/internal/errors"
	"github.com/example/mathtrainer/internal/logger"
	"github.com/example/mathtrainer/internal/models"
	"github.com/example/mathtrainer/internal/progress"
	"github.com/example/mathtrainer/internal/repository"
)

// ProgressService maintains the learner-level streak and assembles the
// progress report.
type ProgressService interface {
	Record(ctx context.Context, learnerID int64, correct bool) (*models.Learner, error)
	GetProgress(ctx context.Context, learnerID int64) (*models.ProgressReport, error)
}

type progressService struct {
	learners      repository.LearnerRepository
	cards         repository.CardRepository
	answers       repository.AnswerRepository
	scheduler     SchedulerService
	recentAnswers int
}

// NewProgressService creates a new ProgressService
func NewProgressService(
	learners repository.LearnerRepository,
	cards repository.CardRepository,
	answers repository.AnswerRepository,
	scheduler SchedulerService,
	recentAnswers int,
) ProgressService {
	return &progressService{
		learners:      learners,
		cards:         cards,
		answers:       answers,
		scheduler:     scheduler,
		recentAnswers: recentAnswers,
	}
}

func (s *progressService) Record(ctx context.Context, learnerID int64, correct bool) (*models.Learner, error) {
	log := logger.FromContext(ctx)

	learner, err := s.learners.Get(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	if learner == nil {
		return nil, apperrors.NewNotFoundError("learner", learnerID)
	}

	updated := progress.Apply(*learner, correct)
	if err := s.learners.UpdateStreaks(ctx, learnerID, updated.CurrentStreak, updated.BestStreak); err != nil {
		return nil, err
	}

	log.Debugf("streak updated: learner_id=%d, current=%d, best=%d",
		learnerID, updated.CurrentStreak, updated.BestStreak)
	return &updated, nil
}

func (s *progressService) GetProgress(ctx context.Context, learnerID int64) (*models.ProgressReport, error) {
	learner, err := s.learners.Get(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	if learner == nil {
		return nil, apperrors.NewNotFoundError("learner", learnerID)
	}

	distribution, err := s.scheduler.BoxDistribution(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	dueCount, err := s.scheduler.DueCount(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	cards, err := s.cards.List(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	topics := make([]models.TopicAccuracy, 0, len(cards))
	for _, c := range cards {
		topics = append(topics, models.TopicAccuracy{
			Topic:    c.Topic(),
			Label:    c.Topic().Label(),
			Box:      c.BoxNumber,
			Attempts: c.TimesCorrect + c.TimesIncorrect,
			Correct:  c.TimesCorrect,
			Accuracy: c.Accuracy(),
		})
	}

	operations, err := s.answers.OperationStats(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	recent, err := s.answers.RecentForLearner(ctx, learnerID, s.recentAnswers)
	if err != nil {
		return nil, err
	}

	return &models.ProgressReport{
		Learner:         *learner,
		BoxDistribution: distribution,
		DueCount:        dueCount,
		Topics:          topics,
		Operations:      operations,
		RecentAnswers:   recent,
	}, nil
}
