package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SettingStore persists per-user key/value settings. Values are stored as
// JSONB so booleans, strings and nulls round-trip without a type column.
type SettingStore struct {
	db *sqlx.DB
}

func NewSettingStore(db *sqlx.DB) *SettingStore {
	return &SettingStore{db: db}
}

// Get returns the raw JSON value for one key. The found flag distinguishes
// an absent key from a stored null.
func (s *SettingStore) Get(ctx context.Context, userID int64, key string) (json.RawMessage, bool, error) {
	var raw []byte
	err := s.db.GetContext(ctx, &raw,
		`SELECT value FROM user_settings WHERE user_id = $1 AND key = $2`, userID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("settings get %q: %w", key, err)
	}
	return json.RawMessage(raw), true, nil
}

// Set upserts one key. value is marshalled to JSON; a nil value stores JSON null.
func (s *SettingStore) Set(ctx context.Context, userID int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("settings marshal %q: %w", key, err)
	}
	const q = `
		INSERT INTO user_settings (user_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, key) DO UPDATE SET
			value = EXCLUDED.value, updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, q, userID, key, raw); err != nil {
		return fmt.Errorf("settings set %q: %w", key, err)
	}
	return nil
}

// All returns every setting for one user keyed by name.
func (s *SettingStore) All(ctx context.Context, userID int64) (map[string]json.RawMessage, error) {
	rows := []struct {
		Key   string `db:"key"`
		Value []byte `db:"value"`
	}{}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT key, value FROM user_settings WHERE user_id = $1 ORDER BY key`, userID)
	if err != nil {
		return nil, fmt.Errorf("settings all: %w", err)
	}
	out := make(map[string]json.RawMessage, len(rows))
	for _, r := range rows {
		out[r.Key] = json.RawMessage(r.Value)
	}
	return out, nil
}

// DeleteAll removes every setting for one user.
func (s *SettingStore) DeleteAll(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_settings WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("settings delete all: %w", err)
	}
	return nil
}
