package models

import (
	"time"

	"github.com/example/mathtrainer/internal/topic"
)

// Card tracks Leitner mastery for one (learner, topic) pair. BoxNumber stays
// within 1..5; Version backs optimistic concurrency on updates.
type Card struct {
	ID                 int64           `json:"id"`
	LearnerID          int64           `json:"learner_id"`
	Operation          topic.Operation `json:"operation"`
	Level              topic.Level     `json:"level"`
	BoxNumber          int             `json:"box_number"`
	NextReview         time.Time       `json:"next_review"`
	LastReviewed       *time.Time      `json:"last_reviewed,omitempty"`
	TimesCorrect       int             `json:"times_correct"`
	TimesIncorrect     int             `json:"times_incorrect"`
	ConsecutiveCorrect int             `json:"consecutive_correct"`
	Version            int64           `json:"-"`
	CreatedAt          time.Time       `json:"created_at"`
}

func (c Card) Topic() topic.Topic {
	return topic.Topic{Operation: c.Operation, Level: c.Level}
}

// Due reports whether the card is ready for review at the given instant.
func (c Card) Due(now time.Time) bool {
	return !c.NextReview.After(now)
}

// Accuracy is the fraction of correct attempts, 0 when the card was never answered.
func (c Card) Accuracy() float64 {
	total := c.TimesCorrect + c.TimesIncorrect
	if total == 0 {
		return 0
	}
	return float64(c.TimesCorrect) / float64(total)
}
