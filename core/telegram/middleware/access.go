package middleware

import (
	"github.com/m3rciful/profilebot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions configures the admin gate.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware silently drops updates from anyone but the configured
// admin. With AdminID zero the gate is open, which keeps admin commands
// usable in development setups without an admin configured.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if opts.AdminID != 0 && (user == nil || user.ID != opts.AdminID) {
				attrs := []slog.Attr{slog.String("event", "tg.access_denied")}
				if user != nil {
					attrs = append(attrs, slog.Int64("user_id", user.ID))
				}
				logger.TG.LogAttrs(logger.Background(), slog.LevelWarn, "admin gate", attrs...)
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
