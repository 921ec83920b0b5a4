package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// UserState is one row of the conversation state table. An absent row means
// the user is idle.
type UserState struct {
	UserID       int64     `db:"user_id"`
	CurrentState string    `db:"current_state"`
	StateData    []byte    `db:"state_data"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// StateStore persists conversation state, one row per user.
type StateStore struct {
	db *sqlx.DB
}

func NewStateStore(db *sqlx.DB) *StateStore {
	return &StateStore{db: db}
}

// Get returns the user's state row, or nil when the user is idle.
func (s *StateStore) Get(ctx context.Context, userID int64) (*UserState, error) {
	var st UserState
	err := s.db.GetContext(ctx, &st, `SELECT * FROM user_states WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("states get: %w", err)
	}
	return &st, nil
}

// Set upserts the user's state row with an optional opaque payload.
func (s *StateStore) Set(ctx context.Context, userID int64, label string, payload []byte) error {
	const q = `
		INSERT INTO user_states (user_id, current_state, state_data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			current_state = EXCLUDED.current_state,
			state_data    = EXCLUDED.state_data,
			updated_at    = NOW()`
	if _, err := s.db.ExecContext(ctx, q, userID, label, payload); err != nil {
		return fmt.Errorf("states set: %w", err)
	}
	return nil
}

// Clear deletes the user's state row, returning the user to idle.
func (s *StateStore) Clear(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_states WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("states clear: %w", err)
	}
	return nil
}

// ClearStale deletes rows in the given labels whose last update is older
// than cutoff, and reports how many were removed.
func (s *StateStore) ClearStale(ctx context.Context, labels []string, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM user_states WHERE current_state = ANY($1) AND updated_at < $2`
	res, err := s.db.ExecContext(ctx, q, pq.Array(labels), cutoff)
	if err != nil {
		return 0, fmt.Errorf("states clear stale: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("states clear stale: %w", err)
	}
	return n, nil
}
