package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/example/mathtrainer/internal/errors"
	"github.com/example/mathtrainer/internal/logger"
	"github.com/example/mathtrainer/internal/models"
	"github.com/example/mathtrainer/internal/repository"
	"github.com/example/mathtrainer/internal/topic"
)

type questionRepository struct {
	db *sql.DB
}

// NewQuestionRepository creates a new QuestionRepository implementation
func NewQuestionRepository(db *sql.DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Insert(ctx context.Context, q models.Question) (int64, error) {
	log := logger.FromContext(ctx).Named("question_repo")
	log.Debugf("inserting question: %s", q.QuestionText)

	createdAt := q.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO questions (operation, level, operand1, operand2, correct_answer, question_text, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, string(q.Operation), int(q.Level), q.Operand1.String(), q.Operand2.String(),
		q.CorrectAnswer.String(), q.QuestionText, createdAt)
	if err != nil {
		log.Errorf("failed to insert question: %v", err)
		return 0, apperrors.NewStorageUnavailableError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.NewStorageUnavailableError(err)
	}
	return id, nil
}

func (r *questionRepository) Get(ctx context.Context, id int64) (*models.Question, error) {
	log := logger.FromContext(ctx).Named("question_repo")
	log.Debugf("getting question: id=%d", id)

	var q models.Question
	var op string
	var level int
	var op1, op2, answer string
	err := r.db.QueryRowContext(ctx, `
SELECT id, operation, level, operand1, operand2, correct_answer, question_text, created_at
FROM questions
WHERE id = ?
`, id).Scan(&q.ID, &op, &level, &op1, &op2, &answer, &q.QuestionText, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("question not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Errorf("failed to get question: %v", err)
		return nil, apperrors.NewStorageUnavailableError(err)
	}

	q.Operation = topic.Operation(op)
	q.Level = topic.Level(level)
	if q.Operand1, err = decimal.NewFromString(op1); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if q.Operand2, err = decimal.NewFromString(op2); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if q.CorrectAnswer, err = decimal.NewFromString(answer); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &q, nil
}
