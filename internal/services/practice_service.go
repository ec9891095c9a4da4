package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "github.com/example/mathtrainer/internal/errors"
	"github.com/example/mathtrainer/internal/logger"
	"github.com/example/mathtrainer/internal/models"
	"github.com/example/mathtrainer/internal/question"
	"github.com/example/mathtrainer/internal/repository"
	"github.com/example/mathtrainer/internal/topic"
)

// PracticeItem is a question handed to the front end together with the card
// it drills.
type PracticeItem struct {
	Question models.Question `json:"question"`
	Card     models.Card     `json:"card"`
}

// Submission is one answer coming in from the front end.
type Submission struct {
	QuestionID  int64
	RawAnswer   string
	TimeTakenMS *int
	SessionID   string
}

// PracticeService is the front-end facade: it picks the next topic, hands out
// questions, and routes answers through validator, scheduler, and streak.
type PracticeService interface {
	NextQuestion(ctx context.Context, learnerID int64, level *topic.Level) (*PracticeItem, error)
	SubmitAnswer(ctx context.Context, learnerID int64, sub Submission) (*models.SubmitResult, error)
}

type practiceService struct {
	learners  repository.LearnerRepository
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
	scheduler SchedulerService
	progress  ProgressService
	generator *question.Generator
}

// NewPracticeService creates a new PracticeService
func NewPracticeService(
	learners repository.LearnerRepository,
	questions repository.QuestionRepository,
	answers repository.AnswerRepository,
	scheduler SchedulerService,
	progress ProgressService,
	generator *question.Generator,
) PracticeService {
	return &practiceService{
		learners:  learners,
		questions: questions,
		answers:   answers,
		scheduler: scheduler,
		progress:  progress,
		generator: generator,
	}
}

// NextQuestion picks the learner's next card and generates a question for it.
// With an explicit level the card for that topic is created on first use;
// otherwise the scheduler chooses, and (nil, nil) means nothing is due.
func (s *practiceService) NextQuestion(ctx context.Context, learnerID int64, level *topic.Level) (*PracticeItem, error) {
	log := logger.FromContext(ctx)

	learner, err := s.learners.Get(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	if learner == nil {
		return nil, apperrors.NewNotFoundError("learner", learnerID)
	}

	var card *models.Card
	if level != nil {
		t, ok := topic.ByLevel(*level)
		if !ok {
			return nil, apperrors.NewInvalidTopicError(t.String())
		}
		card, err = s.scheduler.GetOrCreateCard(ctx, learnerID, t)
	} else {
		card, err = s.scheduler.NextCard(ctx, learnerID)
	}
	if err != nil {
		return nil, err
	}
	if card == nil {
		log.Debugf("no cards due: learner_id=%d", learnerID)
		return nil, nil
	}

	q, err := s.generator.Generate(card.Topic())
	if err != nil {
		return nil, apperrors.NewInvalidTopicError(err.Error())
	}
	q.ID, err = s.questions.Insert(ctx, q)
	if err != nil {
		return nil, err
	}

	log.Debugf("question generated: learner_id=%d, topic=%s, text=%s", learnerID, card.Topic(), q.QuestionText)
	return &PracticeItem{Question: q, Card: *card}, nil
}

// SubmitAnswer judges a submission and feeds the result through the card
// transition and the streak. A malformed value fails before anything mutates.
func (s *practiceService) SubmitAnswer(ctx context.Context, learnerID int64, sub Submission) (*models.SubmitResult, error) {
	log := logger.FromContext(ctx)

	learner, err := s.learners.Get(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	if learner == nil {
		return nil, apperrors.NewNotFoundError("learner", learnerID)
	}

	q, err := s.questions.Get(ctx, sub.QuestionID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apperrors.NewNotFoundError("question", sub.QuestionID)
	}

	raw := strings.TrimSpace(sub.RawAnswer)
	if raw == "" {
		return nil, apperrors.NewInvalidAnswerFormatError(sub.RawAnswer)
	}
	submitted, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperrors.NewInvalidAnswerFormatError(sub.RawAnswer)
	}

	correct := question.IsCorrect(submitted, q.CorrectAnswer)

	sessionID := sub.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if _, err := s.answers.Insert(ctx, models.Answer{
		QuestionID:  q.ID,
		LearnerID:   learnerID,
		Submitted:   submitted,
		IsCorrect:   correct,
		TimeTakenMS: sub.TimeTakenMS,
		SessionID:   sessionID,
	}); err != nil {
		return nil, err
	}

	card, err := s.scheduler.RecordAnswer(ctx, learnerID, q.Topic(), correct)
	if err != nil {
		return nil, err
	}
	updated, err := s.progress.Record(ctx, learnerID, correct)
	if err != nil {
		return nil, err
	}

	log.Infof("answer submitted: learner_id=%d, question_id=%d, correct=%t, box=%d, streak=%d",
		learnerID, q.ID, correct, card.BoxNumber, updated.CurrentStreak)

	return &models.SubmitResult{
		Correct:       correct,
		CorrectAnswer: question.FormatAnswer(q.CorrectAnswer),
		NewBox:        card.BoxNumber,
		NextReview:    card.NextReview,
		CurrentStreak: updated.CurrentStreak,
		BestStreak:    updated.BestStreak,
		Topic:         q.Topic(),
	}, nil
}
