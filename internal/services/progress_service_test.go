package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/example/mathtrainer/internal/errors"
	"github.com/example/mathtrainer/internal/models"
	"github.com/example/mathtrainer/internal/question"
	"github.com/example/mathtrainer/internal/services"
	"github.com/example/mathtrainer/internal/testutil/mocks"
	"github.com/example/mathtrainer/internal/topic"
)

func TestRecord_CorrectExtendsStreakAndPersists(t *testing.T) {
	learners := new(mocks.MockLearnerRepository)
	svc := services.NewProgressService(learners, nil, nil, nil, 20)

	learners.On("Get", mock.Anything, int64(1)).
		Return(&models.Learner{ID: 1, Name: "Arthur", CurrentStreak: 4, BestStreak: 4}, nil)
	learners.On("UpdateStreaks", mock.Anything, int64(1), 5, 5).Return(nil)

	updated, err := svc.Record(context.Background(), 1, true)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.CurrentStreak)
	assert.Equal(t, 5, updated.BestStreak)
	learners.AssertExpectations(t)
}

func TestRecord_IncorrectResetsCurrentOnly(t *testing.T) {
	learners := new(mocks.MockLearnerRepository)
	svc := services.NewProgressService(learners, nil, nil, nil, 20)

	learners.On("Get", mock.Anything, int64(1)).
		Return(&models.Learner{ID: 1, Name: "Arthur", CurrentStreak: 4, BestStreak: 9}, nil)
	learners.On("UpdateStreaks", mock.Anything, int64(1), 0, 9).Return(nil)

	updated, err := svc.Record(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Zero(t, updated.CurrentStreak)
	assert.Equal(t, 9, updated.BestStreak)
	learners.AssertExpectations(t)
}

func TestRecord_UnknownLearner(t *testing.T) {
	learners := new(mocks.MockLearnerRepository)
	svc := services.NewProgressService(learners, nil, nil, nil, 20)

	learners.On("Get", mock.Anything, int64(42)).Return(nil, nil)

	_, err := svc.Record(context.Background(), 42, true)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
	learners.AssertNotCalled(t, "UpdateStreaks")
}

func TestGetProgress_AssemblesReport(t *testing.T) {
	learners := new(mocks.MockLearnerRepository)
	cards := new(mocks.MockCardRepository)
	answers := new(mocks.MockAnswerRepository)
	scheduler := services.NewSchedulerService(cards, 3)
	svc := services.NewProgressService(learners, cards, answers, scheduler, 20)

	tp, _ := topic.ByLevel(5)
	learner := &models.Learner{ID: 1, Name: "Lena", CurrentStreak: 2, BestStreak: 6}
	card := models.Card{
		ID: 3, LearnerID: 1, Operation: tp.Operation, Level: tp.Level,
		BoxNumber: 2, TimesCorrect: 3, TimesIncorrect: 1,
	}
	stats := []models.OperationStat{{Operation: tp.Operation, Total: 4, Correct: 3, Accuracy: 0.75}}
	recent := []models.Answer{{ID: 9, QuestionID: 5, LearnerID: 1, IsCorrect: true}}

	learners.On("Get", mock.Anything, int64(1)).Return(learner, nil)
	cards.On("BoxCounts", mock.Anything, int64(1)).Return(map[int]int{2: 1}, nil)
	cards.On("DueCount", mock.Anything, int64(1), mock.AnythingOfType("time.Time")).Return(1, nil)
	cards.On("List", mock.Anything, int64(1)).Return([]models.Card{card}, nil)
	answers.On("OperationStats", mock.Anything, int64(1)).Return(stats, nil)
	answers.On("RecentForLearner", mock.Anything, int64(1), 20).Return(recent, nil)

	report, err := svc.GetProgress(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, *learner, report.Learner)
	assert.Equal(t, map[int]int{1: 0, 2: 1, 3: 0, 4: 0, 5: 0}, report.BoxDistribution)
	assert.Equal(t, 1, report.DueCount)
	require.Len(t, report.Topics, 1)
	assert.Equal(t, tp, report.Topics[0].Topic)
	assert.Equal(t, 4, report.Topics[0].Attempts)
	assert.InDelta(t, 0.75, report.Topics[0].Accuracy, 1e-9)
	assert.Equal(t, stats, report.Operations)
	assert.Equal(t, recent, report.RecentAnswers)
}

func TestNextQuestion_PersistsGeneratedQuestion(t *testing.T) {
	learners := new(mocks.MockLearnerRepository)
	cards := new(mocks.MockCardRepository)
	questions := new(mocks.MockQuestionRepository)
	scheduler := services.NewSchedulerService(cards, 3)
	svc := services.NewPracticeService(learners, questions, nil, scheduler, nil, question.NewSeededGenerator(1))

	tp, _ := topic.ByLevel(5)
	card := models.Card{ID: 3, LearnerID: 1, Operation: tp.Operation, Level: tp.Level,
		BoxNumber: 1, NextReview: time.Now().Add(-time.Minute)}

	learners.On("Get", mock.Anything, int64(1)).Return(&models.Learner{ID: 1, Name: "Lena"}, nil)
	cards.On("Due", mock.Anything, int64(1), mock.AnythingOfType("time.Time"), 1).
		Return([]models.Card{card}, nil)
	questions.On("Insert", mock.Anything, mock.MatchedBy(func(q models.Question) bool {
		return q.Operation == tp.Operation && q.Level == tp.Level && q.QuestionText != ""
	})).Return(int64(11), nil)

	item, err := svc.NextQuestion(context.Background(), 1, nil)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, int64(11), item.Question.ID)
	assert.Equal(t, card, item.Card)
	questions.AssertExpectations(t)
}
