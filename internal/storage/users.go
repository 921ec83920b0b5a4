package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// User mirrors one row of the users table. Telegram is the source of truth
// for everything here; rows are refreshed on every inbound update.
type User struct {
	TelegramID   int64      `db:"telegram_id"`
	Username     *string    `db:"username"`
	FirstName    string     `db:"first_name"`
	LastName     *string    `db:"last_name"`
	LanguageCode *string    `db:"language_code"`
	IsBot        bool       `db:"is_bot"`
	IsPremium    bool       `db:"is_premium"`
	CreatedAt    time.Time  `db:"created_at"`
	LastActiveAt *time.Time `db:"last_active_at"`
}

// UserStore persists the user directory.
type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// Upsert registers the user on first sight and refreshes profile fields and
// last_active_at on every later one. The created flag reports whether the
// row was inserted by this call.
func (s *UserStore) Upsert(ctx context.Context, u User) (bool, error) {
	const q = `
		INSERT INTO users (telegram_id, username, first_name, last_name, language_code, is_bot, is_premium, created_at, last_active_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (telegram_id) DO UPDATE SET
			username       = EXCLUDED.username,
			first_name     = EXCLUDED.first_name,
			last_name      = EXCLUDED.last_name,
			language_code  = EXCLUDED.language_code,
			is_premium     = EXCLUDED.is_premium,
			last_active_at = NOW()
		RETURNING (xmax = 0)`

	var created bool
	err := s.db.QueryRowxContext(ctx, q,
		u.TelegramID, u.Username, u.FirstName, u.LastName, u.LanguageCode, u.IsBot, u.IsPremium,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("users upsert: %w", err)
	}
	return created, nil
}

// Get returns the user row, or nil when the user is unknown.
func (s *UserStore) Get(ctx context.Context, telegramID int64) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE telegram_id = $1`, telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("users get: %w", err)
	}
	return &u, nil
}

// Delete removes the user row.
func (s *UserStore) Delete(ctx context.Context, telegramID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE telegram_id = $1`, telegramID); err != nil {
		return fmt.Errorf("users delete: %w", err)
	}
	return nil
}
