package middleware

import (
	"runtime/debug"

	"github.com/m3rciful/profilebot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// RecoverMiddleware turns a handler panic into an error log so one broken
// update cannot take the bot down.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				attrs := []slog.Attr{
					slog.String("event", "tg.panic"),
					slog.Any("err", r),
					slog.Int("update_id", c.Update().ID),
					slog.String("stack", string(debug.Stack())),
				}
				if user := c.Sender(); user != nil {
					attrs = append(attrs, slog.Int64("user_id", user.ID))
				}
				logger.TG.LogAttrs(logger.Background(), slog.LevelError, "panic recovered", attrs...)
			}
		}()
		return next(c)
	}
}
