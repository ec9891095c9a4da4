// Package leitner implements the five-box spaced-repetition rule that drives
// card scheduling. It is pure: callers pass the clock in and persist the result.
package leitner

import (
	"time"

	"github.com/example/mathtrainer/internal/models"
	"github.com/example/mathtrainer/internal/topic"
)

const (
	MinBox = 1
	MaxBox = 5
)

// intervalDays maps a box to the review interval earned by landing in it.
var intervalDays = map[int]int{
	1: 0,
	2: 1,
	3: 3,
	4: 7,
	5: 14,
}

// Interval returns the review interval for a box. Boxes outside 1..5 are
// clamped, so a corrupted row never schedules into the past or the far future.
func Interval(box int) time.Duration {
	if box < MinBox {
		box = MinBox
	}
	if box > MaxBox {
		box = MaxBox
	}
	return time.Duration(intervalDays[box]) * 24 * time.Hour
}

// NewCard builds the initial card for a (learner, topic) pair: box 1, due
// immediately, no attempts.
func NewCard(learnerID int64, t topic.Topic, now time.Time) models.Card {
	return models.Card{
		LearnerID:  learnerID,
		Operation:  t.Operation,
		Level:      t.Level,
		BoxNumber:  MinBox,
		NextReview: now,
		CreatedAt:  now,
	}
}

// Apply advances a card by one answer. A correct answer promotes the card one
// box (saturating at 5); a wrong answer demotes it straight to box 1. The new
// review time is always now plus the interval of the resulting box.
func Apply(card models.Card, correct bool, now time.Time) models.Card {
	if correct {
		card.BoxNumber++
		if card.BoxNumber > MaxBox {
			card.BoxNumber = MaxBox
		}
		card.TimesCorrect++
		card.ConsecutiveCorrect++
	} else {
		card.BoxNumber = MinBox
		card.TimesIncorrect++
		card.ConsecutiveCorrect = 0
	}

	reviewed := now
	card.LastReviewed = &reviewed
	card.NextReview = now.Add(Interval(card.BoxNumber))
	return card
}
