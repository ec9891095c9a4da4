package services

import (
	"context"
	"time"

	apperrors "github.com/example/mathtrainer/internal/errors"
	"github.com/example/mathtrainer/internal/leitner"
	"github.com/example/mathtrainer/internal/logger"
	"github.com/example/mathtrainer/internal/models"
	"github.com/example/mathtrainer/internal/repository"
	"github.com/example/mathtrainer/internal/topic"
)

// SchedulerService decides what a learner should practice next and applies
// the box-transition rule to cards.
type SchedulerService interface {
	GetOrCreateCard(ctx context.Context, learnerID int64, t topic.Topic) (*models.Card, error)
	DueCards(ctx context.Context, learnerID int64, limit int) ([]models.Card, error)
	NextCard(ctx context.Context, learnerID int64) (*models.Card, error)
	RecordAnswer(ctx context.Context, learnerID int64, t topic.Topic, correct bool) (*models.Card, error)
	BoxDistribution(ctx context.Context, learnerID int64) (map[int]int, error)
	DueCount(ctx context.Context, learnerID int64) (int, error)
}

type schedulerService struct {
	cards   repository.CardRepository
	retries int
	now     func() time.Time
}

// NewSchedulerService creates a new SchedulerService. retries bounds how often
// RecordAnswer re-reads and re-applies after a lost version race.
func NewSchedulerService(cards repository.CardRepository, retries int) SchedulerService {
	if retries < 1 {
		retries = 1
	}
	return &schedulerService{cards: cards, retries: retries, now: time.Now}
}

func (s *schedulerService) GetOrCreateCard(ctx context.Context, learnerID int64, t topic.Topic) (*models.Card, error) {
	log := logger.FromContext(ctx)

	if err := t.Validate(); err != nil {
		return nil, apperrors.NewInvalidTopicError(err.Error())
	}

	card, err := s.cards.Find(ctx, learnerID, t)
	if err != nil {
		return nil, err
	}
	if card != nil {
		return card, nil
	}

	log.Debugf("creating card: learner_id=%d, topic=%s", learnerID, t)
	return s.cards.InsertIfAbsent(ctx, leitner.NewCard(learnerID, t, s.now()))
}

func (s *schedulerService) DueCards(ctx context.Context, learnerID int64, limit int) ([]models.Card, error) {
	// One clock reading per call keeps the listing a consistent snapshot.
	return s.cards.Due(ctx, learnerID, s.now(), limit)
}

func (s *schedulerService) NextCard(ctx context.Context, learnerID int64) (*models.Card, error) {
	cards, err := s.DueCards(ctx, learnerID, 1)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, nil
	}
	return &cards[0], nil
}

// RecordAnswer applies the transition rule and persists the card. Each attempt
// re-reads the current row, so a concurrent answer can never be overwritten
// silently; after retries are exhausted the conflict surfaces to the caller.
func (s *schedulerService) RecordAnswer(ctx context.Context, learnerID int64, t topic.Topic, correct bool) (*models.Card, error) {
	log := logger.FromContext(ctx)

	var lastErr error
	for attempt := 0; attempt < s.retries; attempt++ {
		card, err := s.GetOrCreateCard(ctx, learnerID, t)
		if err != nil {
			return nil, err
		}

		updated, err := s.cards.Update(ctx, leitner.Apply(*card, correct, s.now()))
		if err == nil {
			log.Debugf("answer recorded: learner_id=%d, topic=%s, correct=%t, box=%d",
				learnerID, t, correct, updated.BoxNumber)
			return updated, nil
		}
		if !apperrors.HasCode(err, apperrors.ErrCodeConflictRetry) {
			return nil, err
		}
		lastErr = err
		log.Debugf("record answer conflict, retrying: learner_id=%d, topic=%s, attempt=%d", learnerID, t, attempt+1)
	}
	return nil, lastErr
}

func (s *schedulerService) BoxDistribution(ctx context.Context, learnerID int64) (map[int]int, error) {
	counts, err := s.cards.BoxCounts(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	// Every box shows up, zero or not.
	dist := make(map[int]int, leitner.MaxBox)
	for box := leitner.MinBox; box <= leitner.MaxBox; box++ {
		dist[box] = counts[box]
	}
	return dist, nil
}

func (s *schedulerService) DueCount(ctx context.Context, learnerID int64) (int, error) {
	return s.cards.DueCount(ctx, learnerID, s.now())
}
