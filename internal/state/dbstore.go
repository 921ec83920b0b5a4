package state

import (
	"context"

	"github.com/m3rciful/profilebot/internal/storage"
)

// DBStore adapts the Postgres state store to the machine's Store contract.
type DBStore struct {
	states *storage.StateStore
}

func NewDBStore(states *storage.StateStore) *DBStore {
	return &DBStore{states: states}
}

func (s *DBStore) Get(ctx context.Context, userID int64) (*Record, error) {
	row, err := s.states.Get(ctx, userID)
	if err != nil || row == nil {
		return nil, err
	}
	return &Record{
		Label:     row.CurrentState,
		Payload:   row.StateData,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (s *DBStore) Set(ctx context.Context, userID int64, label string, payload []byte) error {
	return s.states.Set(ctx, userID, label, payload)
}

func (s *DBStore) Clear(ctx context.Context, userID int64) error {
	return s.states.Clear(ctx, userID)
}
