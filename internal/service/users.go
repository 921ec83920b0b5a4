// Package service holds the domain services between the Telegram handlers
// and the stores. Services log store failures and degrade instead of
// propagating them: a broken database must never take the bot surface down.
package service

import (
	"context"

	"github.com/m3rciful/profilebot/core/logger"
	"github.com/m3rciful/profilebot/internal/storage"

	"log/slog"
)

// Directory keeps the user table in sync with what Telegram sends.
type Directory struct {
	users *storage.UserStore
}

func NewDirectory(users *storage.UserStore) *Directory {
	return &Directory{users: users}
}

// OnSight upserts the user from update metadata and reports whether this is
// the first time the bot has seen them. Store failure degrades to a known
// user so the welcome flow never fires spuriously.
func (d *Directory) OnSight(ctx context.Context, u storage.User) bool {
	created, err := d.users.Upsert(ctx, u)
	if err != nil {
		logger.SVCUsers.ErrorContext(ctx, "upsert failed",
			slog.String("event", "upsert"),
			slog.Int64("user_id", u.TelegramID),
			slog.String("err", logger.Sanitize(err.Error())),
		)
		return false
	}
	if created {
		logger.SVCUsers.InfoContext(ctx, "user registered",
			slog.String("event", "registered"),
			slog.Int64("user_id", u.TelegramID),
		)
	}
	return created
}

// Lookup returns the stored user row, or nil if unknown or on store failure.
func (d *Directory) Lookup(ctx context.Context, telegramID int64) *storage.User {
	u, err := d.users.Get(ctx, telegramID)
	if err != nil {
		logger.SVCUsers.ErrorContext(ctx, "lookup failed",
			slog.String("event", "lookup"),
			slog.Int64("user_id", telegramID),
			slog.String("err", logger.Sanitize(err.Error())),
		)
		return nil
	}
	return u
}
