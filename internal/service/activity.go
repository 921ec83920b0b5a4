package service

import (
	"context"
	"strings"
	"time"

	"github.com/m3rciful/profilebot/core/logger"
	"github.com/m3rciful/profilebot/internal/storage"

	"log/slog"
)

// recentCommandLimit caps the command list shown by /stats.
const recentCommandLimit = 5

// Stats summarizes one user's activity for the /profile and /stats views.
type Stats struct {
	MessageCount   int64
	MemberSince    *time.Time
	LastActive     *time.Time
	RecentCommands []string
}

// ActiveDays counts whole days since registration, rounding up so the
// signup day itself counts as day one.
func (s Stats) ActiveDays(now time.Time) int {
	if s.MemberSince == nil {
		return 0
	}
	d := now.Sub(*s.MemberSince)
	if d < 0 {
		d = -d
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// Activity maintains the append-only message log.
type Activity struct {
	messages *storage.MessageStore
	users    *storage.UserStore
}

func NewActivity(messages *storage.MessageStore, users *storage.UserStore) *Activity {
	return &Activity{messages: messages, users: users}
}

// Log appends one inbound message, classifying it by the '/' prefix.
// Failures are logged and swallowed: losing a log row must not stop routing.
func (a *Activity) Log(ctx context.Context, userID, chatID int64, text string) {
	msgType := storage.MessageTypeText
	if strings.HasPrefix(text, "/") {
		msgType = storage.MessageTypeCommand
	}
	if err := a.messages.Append(ctx, userID, chatID, text, msgType); err != nil {
		logger.SVCActivity.ErrorContext(ctx, "append failed",
			slog.String("event", "append"),
			slog.Int64("user_id", userID),
			slog.String("err", logger.Sanitize(err.Error())),
		)
	}
}

// UserStats aggregates the activity view. Every store failure degrades to
// the zero value of its field, so a broken store yields empty stats rather
// than an error reply.
func (a *Activity) UserStats(ctx context.Context, userID int64) Stats {
	var st Stats

	if n, err := a.messages.Count(ctx, userID); err != nil {
		a.logErr(ctx, "count", userID, err)
	} else {
		st.MessageCount = n
	}

	if u, err := a.users.Get(ctx, userID); err != nil {
		a.logErr(ctx, "user_lookup", userID, err)
	} else if u != nil {
		created := u.CreatedAt
		st.MemberSince = &created
		st.LastActive = u.LastActiveAt
	}

	if cmds, err := a.messages.RecentCommands(ctx, userID, recentCommandLimit); err != nil {
		a.logErr(ctx, "recent_commands", userID, err)
	} else {
		for _, m := range cmds {
			st.RecentCommands = append(st.RecentCommands, m.MessageText)
		}
	}

	return st
}

func (a *Activity) logErr(ctx context.Context, event string, userID int64, err error) {
	logger.SVCActivity.ErrorContext(ctx, "stats query failed",
		slog.String("event", event),
		slog.Int64("user_id", userID),
		slog.String("err", logger.Sanitize(err.Error())),
	)
}
