package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	apperrors "github.com/example/mathtrainer/internal/errors"
	"github.com/example/mathtrainer/internal/leitner"
	"github.com/example/mathtrainer/internal/repository"
	"github.com/example/mathtrainer/internal/repository/sqlite"
	"github.com/example/mathtrainer/internal/testutil"
	"github.com/example/mathtrainer/internal/topic"
)

type CardRepositorySuite struct {
	suite.Suite
	db        *sql.DB
	repo      repository.CardRepository
	ctx       context.Context
	learnerID int64
}

func (s *CardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewCardRepository(s.db)
	s.ctx = context.Background()
	s.learnerID = testutil.NewTestLearner(s.T(), s.db, "Arthur")
}

func (s *CardRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CardRepositorySuite) mustTopic(level topic.Level) topic.Topic {
	t, ok := topic.ByLevel(level)
	s.Require().True(ok)
	return t
}

func (s *CardRepositorySuite) TestFindAbsentReturnsNil() {
	card, err := s.repo.Find(s.ctx, s.learnerID, s.mustTopic(5))
	s.Require().NoError(err)
	s.Nil(card)
}

func (s *CardRepositorySuite) TestInsertIfAbsentCreatesAndRoundTrips() {
	now := time.Now().UTC().Truncate(time.Second)
	created, err := s.repo.InsertIfAbsent(s.ctx, leitner.NewCard(s.learnerID, s.mustTopic(12), now))
	s.Require().NoError(err)
	s.Require().NotNil(created)

	s.NotZero(created.ID)
	s.Equal(s.learnerID, created.LearnerID)
	s.Equal(topic.Addition, created.Operation)
	s.Equal(topic.Level(12), created.Level)
	s.Equal(leitner.MinBox, created.BoxNumber)
	s.True(created.NextReview.Equal(now), "new card is due immediately")
	s.Nil(created.LastReviewed)
	s.Zero(created.Version)

	found, err := s.repo.Find(s.ctx, s.learnerID, s.mustTopic(12))
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(created.ID, found.ID)
}

func (s *CardRepositorySuite) TestInsertIfAbsentIsIdempotent() {
	now := time.Now().UTC()
	tpc := s.mustTopic(5)

	first, err := s.repo.InsertIfAbsent(s.ctx, leitner.NewCard(s.learnerID, tpc, now))
	s.Require().NoError(err)

	// A second insert for the same (learner, topic) loses the conflict and
	// returns the existing row untouched.
	second, err := s.repo.InsertIfAbsent(s.ctx, leitner.NewCard(s.learnerID, tpc, now.Add(time.Hour)))
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	s.True(first.NextReview.Equal(second.NextReview))

	cards, err := s.repo.List(s.ctx, s.learnerID)
	s.Require().NoError(err)
	s.Len(cards, 1)
}

func (s *CardRepositorySuite) TestUpdateBumpsVersion() {
	now := time.Now().UTC()
	card, err := s.repo.InsertIfAbsent(s.ctx, leitner.NewCard(s.learnerID, s.mustTopic(9), now))
	s.Require().NoError(err)

	answered := leitner.Apply(*card, true, now)
	updated, err := s.repo.Update(s.ctx, answered)
	s.Require().NoError(err)

	s.Equal(card.Version+1, updated.Version)
	s.Equal(2, updated.BoxNumber)

	reread, err := s.repo.Find(s.ctx, s.learnerID, s.mustTopic(9))
	s.Require().NoError(err)
	s.Equal(updated.Version, reread.Version)
	s.Equal(2, reread.BoxNumber)
	s.Require().NotNil(reread.LastReviewed)
}

func (s *CardRepositorySuite) TestUpdateStaleVersionConflicts() {
	now := time.Now().UTC()
	card, err := s.repo.InsertIfAbsent(s.ctx, leitner.NewCard(s.learnerID, s.mustTopic(9), now))
	s.Require().NoError(err)

	// Two readers hold the same version; the second write must lose.
	winner := leitner.Apply(*card, true, now)
	_, err = s.repo.Update(s.ctx, winner)
	s.Require().NoError(err)

	loser := leitner.Apply(*card, false, now)
	_, err = s.repo.Update(s.ctx, loser)
	s.Require().Error(err)
	s.True(apperrors.HasCode(err, apperrors.ErrCodeConflictRetry))

	// The winning write is intact.
	reread, err := s.repo.Find(s.ctx, s.learnerID, s.mustTopic(9))
	s.Require().NoError(err)
	s.Equal(2, reread.BoxNumber)
	s.Equal(1, reread.TimesCorrect)
}

func (s *CardRepositorySuite) TestUpdateMissingCardIsNotFound() {
	now := time.Now().UTC()
	ghost := leitner.NewCard(s.learnerID, s.mustTopic(5), now)
	ghost.ID = 12345

	_, err := s.repo.Update(s.ctx, ghost)
	s.Require().Error(err)
	s.True(apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func (s *CardRepositorySuite) TestDueOrdersByBoxThenNextReview() {
	now := time.Now().UTC()

	// Box and overdue staleness pull in different directions; box wins.
	seed := []struct {
		level topic.Level
		box   int
		due   time.Time
	}{
		{5, 3, now.Add(-72 * time.Hour)},
		{9, 1, now.Add(-1 * time.Hour)},
		{11, 1, now.Add(-48 * time.Hour)},
		{12, 4, now.Add(-240 * time.Hour)},
		{13, 2, now.Add(time.Hour)}, // not yet due
	}
	for _, c := range seed {
		card, err := s.repo.InsertIfAbsent(s.ctx, leitner.NewCard(s.learnerID, s.mustTopic(c.level), now))
		s.Require().NoError(err)
		_, err = s.db.Exec(`UPDATE cards SET box_number = ?, next_review = ? WHERE id = ?`,
			c.box, c.due, card.ID)
		s.Require().NoError(err)
	}

	due, err := s.repo.Due(s.ctx, s.learnerID, now, 0)
	s.Require().NoError(err)
	s.Require().Len(due, 4)

	s.Equal(topic.Level(11), due[0].Level) // box 1, most overdue
	s.Equal(topic.Level(9), due[1].Level)  // box 1, less overdue
	s.Equal(topic.Level(5), due[2].Level)  // box 3
	s.Equal(topic.Level(12), due[3].Level) // box 4, despite being stalest

	count, err := s.repo.DueCount(s.ctx, s.learnerID, now)
	s.Require().NoError(err)
	s.Equal(4, count)
}

func (s *CardRepositorySuite) TestDueHonorsLimit() {
	now := time.Now().UTC()
	for _, level := range []topic.Level{1, 2, 3} {
		_, err := s.repo.InsertIfAbsent(s.ctx, leitner.NewCard(s.learnerID, s.mustTopic(level), now.Add(-time.Minute)))
		s.Require().NoError(err)
	}

	due, err := s.repo.Due(s.ctx, s.learnerID, now, 2)
	s.Require().NoError(err)
	s.Len(due, 2)
}

func (s *CardRepositorySuite) TestDueExcludesOtherLearners() {
	now := time.Now().UTC()
	otherID := testutil.NewTestLearner(s.T(), s.db, "Lena")

	_, err := s.repo.InsertIfAbsent(s.ctx, leitner.NewCard(otherID, s.mustTopic(5), now))
	s.Require().NoError(err)

	due, err := s.repo.Due(s.ctx, s.learnerID, now, 0)
	s.Require().NoError(err)
	s.Empty(due)
}

func (s *CardRepositorySuite) TestBoxCountsOmitsEmptyBoxes() {
	now := time.Now().UTC()
	for _, c := range []struct {
		level topic.Level
		box   int
	}{{5, 1}, {9, 1}, {12, 3}} {
		card, err := s.repo.InsertIfAbsent(s.ctx, leitner.NewCard(s.learnerID, s.mustTopic(c.level), now))
		s.Require().NoError(err)
		_, err = s.db.Exec(`UPDATE cards SET box_number = ? WHERE id = ?`, c.box, card.ID)
		s.Require().NoError(err)
	}

	counts, err := s.repo.BoxCounts(s.ctx, s.learnerID)
	s.Require().NoError(err)
	s.Equal(map[int]int{1: 2, 3: 1}, counts)
}

func TestCardRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardRepositorySuite))
}
