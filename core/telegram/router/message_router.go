package router

import (
	"context"
	"strings"
	"time"

	tg "github.com/m3rciful/profilebot/core/telegram"
	tghelpers "github.com/m3rciful/profilebot/core/telegram/helpers"
	"github.com/m3rciful/profilebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// FSM defines the minimal interface for a conversation state manager.
// An in-progress conversation takes absolute precedence over command parsing:
// while a continuation is pending, every text message goes to it, even one
// that looks like a command.
type FSM interface {
	// WithUserLock serializes fn against other events for the same user, so
	// that the state read and the transition it decides form one atomic step.
	WithUserLock(userID int64, fn func() error) error
	InProgress(ctx context.Context, userID int64) bool
	Handle(c tele.Context) error
}

// TextOptions controls routing behaviour for text updates.
type TextOptions struct {
	// Observe runs before any routing decision for every message update
	// (directory upsert, activity logging). Its error is logged, not fatal.
	Observe tele.HandlerFunc
	// UnknownCommand handles slash-prefixed text with no registered command.
	UnknownCommand tele.HandlerFunc
	AdminID        int64
	OnAdminReject  tele.HandlerFunc
}

// TextRoutes builds the handler that routes all text updates: conversation
// continuations first, then commands, then the free-text fallback.
func TextRoutes(fsmMgr FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	adminMW := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminID:  opts.AdminID,
		OnReject: opts.OnAdminReject,
	})

	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()
		ctx := tghelpers.BuildContext(c)

		if opts.Observe != nil {
			_ = handleWithSummary(c, "observe", start, func() error {
				return opts.Observe(c)
			})
		}

		route := func() error {
			if fsmMgr != nil && fsmMgr.InProgress(ctx, c.Sender().ID) {
				return handleWithSummary(c, "fsm", start, func() error {
					return fsmMgr.Handle(c)
				})
			}

			if reg != nil {
				if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
					name := normalizeHandlerName(key)
					h := cmd.Handler
					if cmd.AdminOnly {
						h = adminMW(h)
					}
					return handleWithSummary(c, name, start, func() error {
						return h(c)
					})
				}
			}

			if strings.HasPrefix(strings.TrimSpace(text), "/") {
				if opts.UnknownCommand != nil {
					return handleWithSummary(c, "unknown_command", start, func() error {
						return opts.UnknownCommand(c)
					})
				}
				logHandlerSummary(c, "unknown_command", start, nil)
				return nil
			}

			if reg != nil {
				if fb := reg.TextFallback(); fb != nil {
					return handleWithSummary(c, "fallback", start, func() error {
						return fb(c)
					})
				}
			}

			logHandlerSummary(c, "unknown_text", start, nil)
			return nil
		}

		if fsmMgr != nil {
			return fsmMgr.WithUserLock(c.Sender().ID, route)
		}
		return route()
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}
