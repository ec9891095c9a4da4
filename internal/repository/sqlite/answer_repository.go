package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	apperrors "github.com/example/mathtrainer/internal/errors"
	"github.com/example/mathtrainer/internal/logger"
	"github.com/example/mathtrainer/internal/models"
	"github.com/example/mathtrainer/internal/repository"
	"github.com/example/mathtrainer/internal/topic"
)

type answerRepository struct {
	db *sql.DB
}

// NewAnswerRepository creates a new AnswerRepository implementation
func NewAnswerRepository(db *sql.DB) repository.AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Insert(ctx context.Context, a models.Answer) (int64, error) {
	log := logger.FromContext(ctx).Named("answer_repo")
	log.Debugf("inserting answer: question_id=%d, correct=%t", a.QuestionID, a.IsCorrect)

	answeredAt := a.AnsweredAt
	if answeredAt.IsZero() {
		answeredAt = time.Now()
	}

	var timeTaken sql.NullInt64
	if a.TimeTakenMS != nil {
		timeTaken = sql.NullInt64{Int64: int64(*a.TimeTakenMS), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO answers (question_id, learner_id, submitted, is_correct, time_taken_ms, session_id, answered_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, a.QuestionID, a.LearnerID, a.Submitted.String(), a.IsCorrect, timeTaken, a.SessionID, answeredAt)
	if err != nil {
		log.Errorf("failed to insert answer: %v", err)
		return 0, apperrors.NewStorageUnavailableError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.NewStorageUnavailableError(err)
	}
	return id, nil
}

func (r *answerRepository) RecentForLearner(ctx context.Context, learnerID int64, limit int) ([]models.Answer, error) {
	log := logger.FromContext(ctx).Named("answer_repo")
	log.Debugf("fetching recent answers: learner_id=%d, limit=%d", learnerID, limit)

	query := sqlBuilder.Select("id", "question_id", "learner_id", "submitted",
		"is_correct", "time_taken_ms", "session_id", "answered_at").
		From("answers").
		Where(squirrel.Eq{"learner_id": learnerID}).
		OrderBy("answered_at DESC", "id DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Errorf("failed to query recent answers: %v", err)
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		var a models.Answer
		var submitted string
		var timeTaken sql.NullInt64
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.LearnerID, &submitted,
			&a.IsCorrect, &timeTaken, &a.SessionID, &a.AnsweredAt); err != nil {
			log.Errorf("failed to scan answer row: %v", err)
			return nil, apperrors.NewStorageUnavailableError(err)
		}
		if a.Submitted, err = decimal.NewFromString(submitted); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		if timeTaken.Valid {
			ms := int(timeTaken.Int64)
			a.TimeTakenMS = &ms
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	return answers, nil
}

func (r *answerRepository) OperationStats(ctx context.Context, learnerID int64) ([]models.OperationStat, error) {
	log := logger.FromContext(ctx).Named("answer_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT q.operation, COUNT(*), SUM(a.is_correct)
FROM answers a
JOIN questions q ON q.id = a.question_id
WHERE a.learner_id = ?
GROUP BY q.operation
ORDER BY q.operation ASC
`, learnerID)
	if err != nil {
		log.Errorf("failed to query operation stats: %v", err)
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	defer rows.Close()

	var stats []models.OperationStat
	for rows.Next() {
		var s models.OperationStat
		var op string
		if err := rows.Scan(&op, &s.Total, &s.Correct); err != nil {
			log.Errorf("failed to scan operation stat row: %v", err)
			return nil, apperrors.NewStorageUnavailableError(err)
		}
		s.Operation = topic.Operation(op)
		if s.Total > 0 {
			s.Accuracy = float64(s.Correct) / float64(s.Total)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	return stats, nil
}
