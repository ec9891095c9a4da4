package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	apperrors "github.com/example/mathtrainer/internal/errors"
	"github.com/example/mathtrainer/internal/logger"
	"github.com/example/mathtrainer/internal/models"
	"github.com/example/mathtrainer/internal/repository"
	"github.com/example/mathtrainer/internal/topic"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var cardColumns = []string{
	"id", "learner_id", "operation", "level", "box_number", "next_review",
	"last_reviewed", "times_correct", "times_incorrect", "consecutive_correct",
	"version", "created_at",
}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Find(ctx context.Context, learnerID int64, t topic.Topic) (*models.Card, error) {
	log := logger.FromContext(ctx).Named("card_repo")
	log.Debugf("finding card: learner_id=%d, topic=%s", learnerID, t)

	row := r.db.QueryRowContext(ctx, `
SELECT id, learner_id, operation, level, box_number, next_review, last_reviewed,
       times_correct, times_incorrect, consecutive_correct, version, created_at
FROM cards
WHERE learner_id = ? AND operation = ? AND level = ?
`, learnerID, string(t.Operation), int(t.Level))

	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("card not found: learner_id=%d, topic=%s", learnerID, t)
		return nil, nil
	}
	if err != nil {
		log.Errorf("failed to find card: %v", err)
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	return card, nil
}

func (r *cardRepository) InsertIfAbsent(ctx context.Context, c models.Card) (*models.Card, error) {
	log := logger.FromContext(ctx).Named("card_repo")
	log.Debugf("inserting card if absent: learner_id=%d, topic=%s", c.LearnerID, c.Topic())

	// ON CONFLICT DO NOTHING makes a duplicate-create race resolve to the
	// existing row; the re-select below returns whichever row won.
	_, err := r.db.ExecContext(ctx, `
INSERT INTO cards (learner_id, operation, level, box_number, next_review, last_reviewed,
                   times_correct, times_incorrect, consecutive_correct, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(learner_id, operation, level) DO NOTHING
`, c.LearnerID, string(c.Operation), int(c.Level), c.BoxNumber, c.NextReview, c.LastReviewed,
		c.TimesCorrect, c.TimesIncorrect, c.ConsecutiveCorrect, c.CreatedAt)
	if err != nil {
		log.Errorf("failed to insert card: %v", err)
		return nil, apperrors.NewStorageUnavailableError(err)
	}

	card, err := r.Find(ctx, c.LearnerID, c.Topic())
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, apperrors.NewStorageUnavailableError(errors.New("card vanished after insert"))
	}
	return card, nil
}

func (r *cardRepository) Update(ctx context.Context, c models.Card) (*models.Card, error) {
	log := logger.FromContext(ctx).Named("card_repo")
	log.Debugf("updating card: id=%d, box=%d, version=%d", c.ID, c.BoxNumber, c.Version)

	res, err := r.db.ExecContext(ctx, `
UPDATE cards
SET box_number = ?, next_review = ?, last_reviewed = ?, times_correct = ?,
    times_incorrect = ?, consecutive_correct = ?, version = version + 1
WHERE id = ? AND version = ?
`, c.BoxNumber, c.NextReview, c.LastReviewed, c.TimesCorrect, c.TimesIncorrect,
		c.ConsecutiveCorrect, c.ID, c.Version)
	if err != nil {
		log.Errorf("failed to update card: %v", err)
		return nil, apperrors.NewStorageUnavailableError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	if affected == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM cards WHERE id = ?`, c.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("card", c.ID)
		}
		if err != nil {
			return nil, apperrors.NewStorageUnavailableError(err)
		}
		log.Debugf("card update lost version race: id=%d, version=%d", c.ID, c.Version)
		return nil, apperrors.NewConflictRetryError("card", c.ID)
	}

	c.Version++
	return &c, nil
}

func (r *cardRepository) List(ctx context.Context, learnerID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).Named("card_repo")
	log.Debugf("listing cards: learner_id=%d", learnerID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, learner_id, operation, level, box_number, next_review, last_reviewed,
       times_correct, times_incorrect, consecutive_correct, version, created_at
FROM cards
WHERE learner_id = ?
ORDER BY level ASC
`, learnerID)
	if err != nil {
		log.Errorf("failed to list cards: %v", err)
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	defer rows.Close()
	return collectCards(rows)
}

func (r *cardRepository) Due(ctx context.Context, learnerID int64, now time.Time, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx).Named("card_repo")
	log.Debugf("fetching due cards: learner_id=%d, limit=%d", learnerID, limit)

	// Lower boxes first, then longest overdue. A due box-1 card always beats a
	// due box-4 card, no matter how stale the latter is.
	query := sqlBuilder.Select(cardColumns...).
		From("cards").
		Where(squirrel.Eq{"learner_id": learnerID}).
		Where(squirrel.LtOrEq{"next_review": now}).
		OrderBy("box_number ASC", "next_review ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Errorf("failed to build due query: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Errorf("failed to query due cards: %v", err)
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	defer rows.Close()

	cards, err := collectCards(rows)
	if err != nil {
		return nil, err
	}
	log.Debugf("found %d due cards", len(cards))
	return cards, nil
}

func (r *cardRepository) DueCount(ctx context.Context, learnerID int64, now time.Time) (int, error) {
	log := logger.FromContext(ctx).Named("card_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM cards WHERE learner_id = ? AND next_review <= ?
`, learnerID, now).Scan(&count)
	if err != nil {
		log.Errorf("failed to count due cards: %v", err)
		return 0, apperrors.NewStorageUnavailableError(err)
	}
	return count, nil
}

func (r *cardRepository) BoxCounts(ctx context.Context, learnerID int64) (map[int]int, error) {
	log := logger.FromContext(ctx).Named("card_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT box_number, COUNT(*) FROM cards WHERE learner_id = ? GROUP BY box_number
`, learnerID)
	if err != nil {
		log.Errorf("failed to query box counts: %v", err)
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var box, count int
		if err := rows.Scan(&box, &count); err != nil {
			log.Errorf("failed to scan box count row: %v", err)
			return nil, apperrors.NewStorageUnavailableError(err)
		}
		counts[box] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	var c models.Card
	var op string
	var level int
	var lastReviewed sql.NullTime
	err := row.Scan(&c.ID, &c.LearnerID, &op, &level, &c.BoxNumber, &c.NextReview,
		&lastReviewed, &c.TimesCorrect, &c.TimesIncorrect, &c.ConsecutiveCorrect,
		&c.Version, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Operation = topic.Operation(op)
	c.Level = topic.Level(level)
	if lastReviewed.Valid {
		t := lastReviewed.Time
		c.LastReviewed = &t
	}
	return &c, nil
}

func collectCards(rows *sql.Rows) ([]models.Card, error) {
	var cards []models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, apperrors.NewStorageUnavailableError(err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	return cards, nil
}
