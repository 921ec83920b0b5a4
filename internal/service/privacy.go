package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m3rciful/profilebot/core/logger"
	"github.com/m3rciful/profilebot/internal/state"
	"github.com/m3rciful/profilebot/internal/storage"

	"log/slog"
)

// Export is the full JSON bundle sent for a data-download request.
type Export struct {
	ExportedAt time.Time                  `json:"exported_at"`
	User       *storage.User              `json:"user"`
	Settings   map[string]json.RawMessage `json:"settings"`
	Messages   []storage.Message          `json:"messages"`
	Feedback   []storage.Feedback         `json:"feedback"`
}

// Privacy implements the data-download and right-to-erasure flows.
type Privacy struct {
	stores *storage.Stores
	fsm    *state.Machine
}

func NewPrivacy(stores *storage.Stores, fsm *state.Machine) *Privacy {
	return &Privacy{stores: stores, fsm: fsm}
}

// BuildExport collects everything stored about the user. Partial store
// failures leave the corresponding section empty; only a failure to
// serialize the bundle is an error.
func (p *Privacy) BuildExport(ctx context.Context, userID int64) ([]byte, error) {
	ex := Export{
		ExportedAt: time.Now().UTC(),
		Settings:   map[string]json.RawMessage{},
	}

	if u, err := p.stores.Users.Get(ctx, userID); err != nil {
		p.logErr(ctx, "export_user", userID, err)
	} else {
		ex.User = u
	}
	if settings, err := p.stores.Settings.All(ctx, userID); err != nil {
		p.logErr(ctx, "export_settings", userID, err)
	} else {
		ex.Settings = settings
	}
	if msgs, err := p.stores.Messages.All(ctx, userID); err != nil {
		p.logErr(ctx, "export_messages", userID, err)
	} else {
		ex.Messages = msgs
	}
	if fb, err := p.stores.Feedback.All(ctx, userID); err != nil {
		p.logErr(ctx, "export_feedback", userID, err)
	} else {
		ex.Feedback = fb
	}

	raw, err := json.MarshalIndent(ex, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("privacy export marshal: %w", err)
	}
	logger.SVCPrivacy.InfoContext(ctx, "export built",
		slog.String("event", "export"),
		slog.Int64("user_id", userID),
		slog.Int("bytes", len(raw)),
	)
	return raw, nil
}

// Purge erases everything stored about the user: messages, settings,
// feedback, conversation state, then the user row itself. Each delete is
// independent; the joined error reports what survived.
func (p *Privacy) Purge(ctx context.Context, userID int64) error {
	var errs []error
	if err := p.stores.Messages.DeleteAll(ctx, userID); err != nil {
		errs = append(errs, err)
	}
	if err := p.stores.Settings.DeleteAll(ctx, userID); err != nil {
		errs = append(errs, err)
	}
	if err := p.stores.Feedback.DeleteAll(ctx, userID); err != nil {
		errs = append(errs, err)
	}
	if err := p.fsm.End(ctx, userID); err != nil {
		errs = append(errs, err)
	}
	if err := p.stores.Users.Delete(ctx, userID); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		p.logErr(ctx, "purge", userID, err)
		return err
	}
	logger.SVCPrivacy.InfoContext(ctx, "user purged",
		slog.String("event", "purge"),
		slog.Int64("user_id", userID),
	)
	return nil
}

func (p *Privacy) logErr(ctx context.Context, event string, userID int64, err error) {
	logger.SVCPrivacy.ErrorContext(ctx, "privacy operation failed",
		slog.String("event", event),
		slog.Int64("user_id", userID),
		slog.String("err", logger.Sanitize(err.Error())),
	)
}
