package repository

import (
	"context"
	"time"

	"github.com/example/mathtrainer/internal/models"
	"github.com/example/mathtrainer/internal/topic"
)

// CardRepository handles Leitner card data access. Find returns (nil, nil)
// when no card exists for the key.
type CardRepository interface {
	Find(ctx context.Context, learnerID int64, t topic.Topic) (*models.Card, error)
	// InsertIfAbsent atomically creates the card unless one already exists for
	// (learner, topic), and returns the surviving row either way.
	InsertIfAbsent(ctx context.Context, card models.Card) (*models.Card, error)
	// Update persists a card guarded by its version; a stale version yields a
	// CONFLICT_RETRY error and writes nothing.
	Update(ctx context.Context, card models.Card) (*models.Card, error)
	List(ctx context.Context, learnerID int64) ([]models.Card, error)
	// Due lists cards with next_review <= now ordered by
	// (box_number ASC, next_review ASC). limit <= 0 means no limit.
	Due(ctx context.Context, learnerID int64, now time.Time, limit int) ([]models.Card, error)
	DueCount(ctx context.Context, learnerID int64, now time.Time) (int, error)
	// BoxCounts returns card counts keyed by box number; boxes with no cards
	// are absent from the map.
	BoxCounts(ctx context.Context, learnerID int64) (map[int]int, error)
}

// LearnerRepository handles learner profile data access
type LearnerRepository interface {
	Get(ctx context.Context, id int64) (*models.Learner, error)
	GetByName(ctx context.Context, name string) (*models.Learner, error)
	List(ctx context.Context) ([]models.Learner, error)
	Upsert(ctx context.Context, name string) (*models.Learner, error)
	UpdateStreaks(ctx context.Context, id int64, current, best int) error
}

// QuestionRepository logs generated questions so answers can be checked later
type QuestionRepository interface {
	Insert(ctx context.Context, q models.Question) (int64, error)
	Get(ctx context.Context, id int64) (*models.Question, error)
}

// AnswerRepository records answer events for history and statistics
type AnswerRepository interface {
	Insert(ctx context.Context, a models.Answer) (int64, error)
	RecentForLearner(ctx context.Context, learnerID int64, limit int) ([]models.Answer, error)
	OperationStats(ctx context.Context, learnerID int64) ([]models.OperationStat, error)
}
