package models

import (
	"time"

	"github.com/example/mathtrainer/internal/topic"
)

// SubmitResult is what the front end gets back after an answer submission.
type SubmitResult struct {
	Correct       bool        `json:"correct"`
	CorrectAnswer string      `json:"correct_answer"`
	NewBox        int         `json:"new_box"`
	NextReview    time.Time   `json:"next_review"`
	CurrentStreak int         `json:"current_streak"`
	BestStreak    int         `json:"best_streak"`
	Topic         topic.Topic `json:"topic"`
}

// TopicAccuracy is the per-topic slice of a progress report, derived from
// the card counters.
type TopicAccuracy struct {
	Topic    topic.Topic `json:"topic"`
	Label    string      `json:"label"`
	Box      int         `json:"box"`
	Attempts int         `json:"attempts"`
	Correct  int         `json:"correct"`
	Accuracy float64     `json:"accuracy"`
}

// OperationStat aggregates answer history per operation.
type OperationStat struct {
	Operation topic.Operation `json:"operation"`
	Total     int             `json:"total"`
	Correct   int             `json:"correct"`
	Accuracy  float64         `json:"accuracy"`
}

// ProgressReport is the full learner progress view.
type ProgressReport struct {
	Learner         Learner         `json:"learner"`
	BoxDistribution map[int]int     `json:"box_distribution"`
	DueCount        int             `json:"due_count"`
	Topics          []TopicAccuracy `json:"topics"`
	Operations      []OperationStat `json:"operations"`
	RecentAnswers   []Answer        `json:"recent_answers"`
}
