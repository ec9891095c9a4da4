package leitner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mathtrainer/internal/leitner"
	"github.com/example/mathtrainer/internal/models"
	"github.com/example/mathtrainer/internal/topic"
)

func addition12() topic.Topic {
	t, _ := topic.ByLevel(12)
	return t
}

func TestNewCard(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	card := leitner.NewCard(7, addition12(), now)

	assert.Equal(t, int64(7), card.LearnerID)
	assert.Equal(t, 1, card.BoxNumber, "new cards start in box 1")
	assert.True(t, card.Due(now), "new cards are due immediately")
	assert.Nil(t, card.LastReviewed)
	assert.Equal(t, 0, card.TimesCorrect)
	assert.Equal(t, 0, card.TimesIncorrect)
}

func TestApply_CorrectPromotesOneBox(t *testing.T) {
	now := time.Now()
	card := leitner.NewCard(1, addition12(), now)

	updated := leitner.Apply(card, true, now)

	assert.Equal(t, 2, updated.BoxNumber)
	assert.Equal(t, 1, updated.TimesCorrect)
	assert.Equal(t, 1, updated.ConsecutiveCorrect)
	require.NotNil(t, updated.LastReviewed)
	assert.Equal(t, now, *updated.LastReviewed)
}

func TestApply_CorrectSaturatesAtBoxFive(t *testing.T) {
	now := time.Now()
	card := leitner.NewCard(1, addition12(), now)
	card.BoxNumber = 5

	updated := leitner.Apply(card, true, now)

	assert.Equal(t, 5, updated.BoxNumber, "box 5 is the ceiling")
}

func TestApply_IncorrectResetsToBoxOne(t *testing.T) {
	now := time.Now()
	for _, box := range []int{1, 2, 3, 4, 5} {
		card := leitner.NewCard(1, addition12(), now)
		card.BoxNumber = box
		card.ConsecutiveCorrect = 4

		updated := leitner.Apply(card, false, now)

		assert.Equal(t, 1, updated.BoxNumber, "wrong answer from box %d must land in box 1", box)
		assert.Equal(t, 0, updated.ConsecutiveCorrect)
		assert.Equal(t, 1, updated.TimesIncorrect)
		assert.Equal(t, 0, updated.TimesCorrect)
	}
}

func TestApply_NextReviewMatchesIntervalTable(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	wantDays := map[int]int{1: 0, 2: 1, 3: 3, 4: 7, 5: 14}

	// Promotion path: from box n-1 a correct answer lands in box n.
	for startBox := 1; startBox <= 5; startBox++ {
		card := leitner.NewCard(1, addition12(), now)
		card.BoxNumber = startBox

		updated := leitner.Apply(card, true, now)

		require.NotNil(t, updated.LastReviewed)
		gap := updated.NextReview.Sub(*updated.LastReviewed)
		want := time.Duration(wantDays[updated.BoxNumber]) * 24 * time.Hour
		assert.Equal(t, want, gap, "interval for box %d", updated.BoxNumber)
	}

	// Demotion always schedules for immediately (box 1, interval 0).
	card := leitner.NewCard(1, addition12(), now)
	card.BoxNumber = 4
	updated := leitner.Apply(card, false, now)
	assert.Equal(t, now, updated.NextReview)
}

func TestApply_BoxStaysInRange(t *testing.T) {
	now := time.Now()
	card := leitner.NewCard(1, addition12(), now)

	answers := []bool{true, true, true, true, true, true, false, true, false, false, true}
	for _, correct := range answers {
		card = leitner.Apply(card, correct, now)
		assert.GreaterOrEqual(t, card.BoxNumber, leitner.MinBox)
		assert.LessOrEqual(t, card.BoxNumber, leitner.MaxBox)
	}
}

func TestApply_CountersNeverDecrease(t *testing.T) {
	now := time.Now()
	card := leitner.NewCard(1, addition12(), now)

	prevCorrect, prevIncorrect := 0, 0
	for i, correct := range []bool{true, false, true, true, false} {
		card = leitner.Apply(card, correct, now)
		assert.GreaterOrEqual(t, card.TimesCorrect, prevCorrect, "step %d", i)
		assert.GreaterOrEqual(t, card.TimesIncorrect, prevIncorrect, "step %d", i)
		prevCorrect, prevIncorrect = card.TimesCorrect, card.TimesIncorrect
	}
	assert.Equal(t, 3, card.TimesCorrect)
	assert.Equal(t, 2, card.TimesIncorrect)
}

func TestInterval_ClampsOutOfRangeBoxes(t *testing.T) {
	assert.Equal(t, leitner.Interval(1), leitner.Interval(0))
	assert.Equal(t, leitner.Interval(5), leitner.Interval(9))
}

func TestAccuracy(t *testing.T) {
	card := models.Card{}
	assert.Equal(t, 0.0, card.Accuracy(), "no attempts means zero accuracy")

	card.TimesCorrect = 3
	card.TimesIncorrect = 1
	assert.InDelta(t, 0.75, card.Accuracy(), 1e-9)
}
