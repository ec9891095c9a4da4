package sqlite

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/example/mathtrainer/internal/errors"
	"github.com/example/mathtrainer/internal/logger"
	"github.com/example/mathtrainer/internal/models"
	"github.com/example/mathtrainer/internal/repository"
)

type learnerRepository struct {
	db *sql.DB
}

// NewLearnerRepository creates a new LearnerRepository implementation
func NewLearnerRepository(db *sql.DB) repository.LearnerRepository {
	return &learnerRepository{db: db}
}

func (r *learnerRepository) Get(ctx context.Context, id int64) (*models.Learner, error) {
	log := logger.FromContext(ctx).Named("learner_repo")
	log.Debugf("getting learner: id=%d", id)

	var l models.Learner
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, current_streak, best_streak, created_at
FROM learners
WHERE id = ?
`, id).Scan(&l.ID, &l.Name, &l.CurrentStreak, &l.BestStreak, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("learner not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Errorf("failed to get learner: %v", err)
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	return &l, nil
}

func (r *learnerRepository) GetByName(ctx context.Context, name string) (*models.Learner, error) {
	log := logger.FromContext(ctx).Named("learner_repo")

	var l models.Learner
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, current_streak, best_streak, created_at
FROM learners
WHERE name = ?
`, name).Scan(&l.ID, &l.Name, &l.CurrentStreak, &l.BestStreak, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Errorf("failed to get learner by name: %v", err)
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	return &l, nil
}

func (r *learnerRepository) List(ctx context.Context) ([]models.Learner, error) {
	log := logger.FromContext(ctx).Named("learner_repo")
	log.Debug("listing learners")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, current_streak, best_streak, created_at
FROM learners
ORDER BY created_at ASC
`)
	if err != nil {
		log.Errorf("failed to list learners: %v", err)
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	defer rows.Close()

	var learners []models.Learner
	for rows.Next() {
		var l models.Learner
		if err := rows.Scan(&l.ID, &l.Name, &l.CurrentStreak, &l.BestStreak, &l.CreatedAt); err != nil {
			log.Errorf("failed to scan learner row: %v", err)
			return nil, apperrors.NewStorageUnavailableError(err)
		}
		learners = append(learners, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	return learners, nil
}

func (r *learnerRepository) Upsert(ctx context.Context, name string) (*models.Learner, error) {
	log := logger.FromContext(ctx).Named("learner_repo")
	log.Debugf("upserting learner: name=%s", name)

	var l models.Learner
	err := r.db.QueryRowContext(ctx, `
INSERT INTO learners (name)
VALUES (?)
ON CONFLICT(name) DO UPDATE SET name = excluded.name
RETURNING id, name, current_streak, best_streak, created_at
`, name).Scan(&l.ID, &l.Name, &l.CurrentStreak, &l.BestStreak, &l.CreatedAt)
	if err != nil {
		log.Errorf("failed to upsert learner: %v", err)
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	log.Debugf("learner upserted: id=%d", l.ID)
	return &l, nil
}

func (r *learnerRepository) UpdateStreaks(ctx context.Context, id int64, current, best int) error {
	log := logger.FromContext(ctx).Named("learner_repo")
	log.Debugf("updating streaks: learner_id=%d, current=%d, best=%d", id, current, best)

	res, err := r.db.ExecContext(ctx, `
UPDATE learners SET current_streak = ?, best_streak = ? WHERE id = ?
`, current, best, id)
	if err != nil {
		log.Errorf("failed to update streaks: %v", err)
		return apperrors.NewStorageUnavailableError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStorageUnavailableError(err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError("learner", id)
	}
	return nil
}
