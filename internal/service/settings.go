package service

import (
	"context"
	"encoding/json"

	"github.com/m3rciful/profilebot/core/logger"
	"github.com/m3rciful/profilebot/internal/storage"

	"log/slog"
)

// Setting keys reachable from the settings menu.
const (
	KeyNotifications = "notifications"
	KeyLanguage      = "language"
	KeyNickname      = "nickname"
	KeyTheme         = "theme"
)

// Reset restores these values.
const (
	DefaultLanguage = "ko"
	DefaultTheme    = "light"
)

// Settings wraps the per-user key/value store with typed accessors.
type Settings struct {
	store *storage.SettingStore
}

func NewSettings(store *storage.SettingStore) *Settings {
	return &Settings{store: store}
}

// Notifications reports whether notifications are on. An absent or
// unreadable value counts as on.
func (s *Settings) Notifications(ctx context.Context, userID int64) bool {
	raw, found, err := s.store.Get(ctx, userID, KeyNotifications)
	if err != nil {
		s.logErr(ctx, "get", KeyNotifications, userID, err)
		return true
	}
	if !found {
		return true
	}
	var v bool
	if json.Unmarshal(raw, &v) != nil {
		return true
	}
	return v
}

// ToggleNotifications flips the notifications flag and returns the new value.
func (s *Settings) ToggleNotifications(ctx context.Context, userID int64) (bool, error) {
	next := !s.Notifications(ctx, userID)
	if err := s.store.Set(ctx, userID, KeyNotifications, next); err != nil {
		s.logErr(ctx, "set", KeyNotifications, userID, err)
		return false, err
	}
	return next, nil
}

// SetLanguage stores the language code chosen from the language menu.
func (s *Settings) SetLanguage(ctx context.Context, userID int64, code string) error {
	if err := s.store.Set(ctx, userID, KeyLanguage, code); err != nil {
		s.logErr(ctx, "set", KeyLanguage, userID, err)
		return err
	}
	return nil
}

// SetTheme stores the theme name chosen from the theme menu.
func (s *Settings) SetTheme(ctx context.Context, userID int64, name string) error {
	if err := s.store.Set(ctx, userID, KeyTheme, name); err != nil {
		s.logErr(ctx, "set", KeyTheme, userID, err)
		return err
	}
	return nil
}

// SetNickname stores the user-chosen nickname.
func (s *Settings) SetNickname(ctx context.Context, userID int64, name string) error {
	if err := s.store.Set(ctx, userID, KeyNickname, name); err != nil {
		s.logErr(ctx, "set", KeyNickname, userID, err)
		return err
	}
	return nil
}

// StringValue returns a string-typed setting, or "" when absent.
func (s *Settings) StringValue(ctx context.Context, userID int64, key string) string {
	raw, found, err := s.store.Get(ctx, userID, key)
	if err != nil {
		s.logErr(ctx, "get", key, userID, err)
		return ""
	}
	if !found {
		return ""
	}
	var v string
	if json.Unmarshal(raw, &v) != nil {
		return ""
	}
	return v
}

// Reset restores the documented defaults. Nickname is stored as null rather
// than removed, matching the export surface. Conversation state is left
// untouched. The first failure aborts the sequence.
func (s *Settings) Reset(ctx context.Context, userID int64) error {
	steps := []struct {
		key   string
		value any
	}{
		{KeyNotifications, true},
		{KeyLanguage, DefaultLanguage},
		{KeyNickname, nil},
		{KeyTheme, DefaultTheme},
	}
	for _, st := range steps {
		if err := s.store.Set(ctx, userID, st.key, st.value); err != nil {
			s.logErr(ctx, "reset", st.key, userID, err)
			return err
		}
	}
	logger.SVCSettings.InfoContext(ctx, "settings reset",
		slog.String("event", "reset"),
		slog.Int64("user_id", userID),
	)
	return nil
}

// All returns every stored setting, or an empty map on store failure.
func (s *Settings) All(ctx context.Context, userID int64) map[string]json.RawMessage {
	out, err := s.store.All(ctx, userID)
	if err != nil {
		s.logErr(ctx, "all", "", userID, err)
		return map[string]json.RawMessage{}
	}
	return out
}

func (s *Settings) logErr(ctx context.Context, op, key string, userID int64, err error) {
	attrs := []slog.Attr{
		slog.String("event", op),
		slog.Int64("user_id", userID),
		slog.String("err", logger.Sanitize(err.Error())),
	}
	if key != "" {
		attrs = append(attrs, slog.String("key", key))
	}
	logger.SVCSettings.LogAttrs(ctx, slog.LevelError, "settings store failed", attrs...)
}
