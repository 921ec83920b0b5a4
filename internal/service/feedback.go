package service

import (
	"context"
	"fmt"
	"time"

	"github.com/m3rciful/profilebot/core/logger"
	"github.com/m3rciful/profilebot/internal/storage"

	"log/slog"
)

// FeedbackService records user feedback. Submissions land in the feedback
// table, plus a timestamp-keyed setting so the settings export surface keeps
// showing them.
type FeedbackService struct {
	feedback *storage.FeedbackStore
	settings *storage.SettingStore
}

func NewFeedbackService(feedback *storage.FeedbackStore, settings *storage.SettingStore) *FeedbackService {
	return &FeedbackService{feedback: feedback, settings: settings}
}

// Submit stores one feedback message. The compat setting write is best
// effort; only the feedback row failing is an error.
func (f *FeedbackService) Submit(ctx context.Context, userID int64, body string) error {
	if err := f.feedback.Append(ctx, userID, body); err != nil {
		logger.Error(ctx, "service.feedback", "append_failed",
			slog.Int64("user_id", userID),
			slog.String("err", logger.Sanitize(err.Error())),
		)
		return err
	}

	key := fmt.Sprintf("feedback_%d", time.Now().UnixMilli())
	if err := f.settings.Set(ctx, userID, key, body); err != nil {
		logger.Warn(ctx, "service.feedback", "compat_setting_failed",
			slog.Int64("user_id", userID),
			slog.String("key", key),
			slog.String("err", logger.Sanitize(err.Error())),
		)
	}

	logger.Info(ctx, "service.feedback", "submitted",
		slog.Int64("user_id", userID),
		slog.Int("length", len(body)),
	)
	return nil
}
