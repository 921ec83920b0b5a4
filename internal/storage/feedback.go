package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Feedback is one row of the ordered feedback log.
type Feedback struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}

// FeedbackStore persists submitted feedback.
type FeedbackStore struct {
	db *sqlx.DB
}

func NewFeedbackStore(db *sqlx.DB) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// Append records one feedback submission.
func (s *FeedbackStore) Append(ctx context.Context, userID int64, body string) error {
	const q = `INSERT INTO feedback (user_id, body, created_at) VALUES ($1, $2, NOW())`
	if _, err := s.db.ExecContext(ctx, q, userID, body); err != nil {
		return fmt.Errorf("feedback append: %w", err)
	}
	return nil
}

// All returns the user's feedback submissions, oldest first.
func (s *FeedbackStore) All(ctx context.Context, userID int64) ([]Feedback, error) {
	var out []Feedback
	const q = `SELECT * FROM feedback WHERE user_id = $1 ORDER BY created_at ASC`
	if err := s.db.SelectContext(ctx, &out, q, userID); err != nil {
		return nil, fmt.Errorf("feedback all: %w", err)
	}
	return out, nil
}

// DeleteAll removes the user's feedback.
func (s *FeedbackStore) DeleteAll(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM feedback WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("feedback delete all: %w", err)
	}
	return nil
}
