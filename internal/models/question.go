package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/mathtrainer/internal/topic"
)

// Question is one generated practice item. Operands and the correct answer
// are exact decimals; the row is kept for answer checking and history.
type Question struct {
	ID            int64           `json:"id"`
	Operation     topic.Operation `json:"operation"`
	Level         topic.Level     `json:"level"`
	Operand1      decimal.Decimal `json:"operand1"`
	Operand2      decimal.Decimal `json:"operand2"`
	CorrectAnswer decimal.Decimal `json:"-"`
	QuestionText  string          `json:"question_text"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (q Question) Topic() topic.Topic {
	return topic.Topic{Operation: q.Operation, Level: q.Level}
}

// Answer is one submission against a question.
type Answer struct {
	ID          int64           `json:"id"`
	QuestionID  int64           `json:"question_id"`
	LearnerID   int64           `json:"learner_id"`
	Submitted   decimal.Decimal `json:"submitted"`
	IsCorrect   bool            `json:"is_correct"`
	TimeTakenMS *int            `json:"time_taken_ms,omitempty"`
	SessionID   string          `json:"session_id,omitempty"`
	AnsweredAt  time.Time       `json:"answered_at"`
}
