package router

import (
	"time"

	tg "github.com/m3rciful/profilebot/core/telegram"
	"github.com/m3rciful/profilebot/core/telegram/callbacks"
	"github.com/m3rciful/profilebot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Locker serializes callback handling per user; nil disables locking.
type Locker interface {
	WithUserLock(userID int64, fn func() error) error
}

// CallbackOptions customises callback routing.
type CallbackOptions struct {
	Locker Locker
}

// ackContext guarantees exactly one answerCallbackQuery per callback: the
// first Respond wins, later ones are no-ops, and the router answers with an
// empty acknowledgment when the handler never responded. Without the final
// acknowledgment the pressed button keeps its spinner.
type ackContext struct {
	tele.Context
	acked bool
}

// Respond proxies tele.Context.Respond at most once.
func (a *ackContext) Respond(resp ...*tele.CallbackResponse) error {
	if a.acked {
		return nil
	}
	a.acked = true
	return a.Context.Respond(resp...)
}

func (a *ackContext) ensureAcked() {
	if a.acked {
		return
	}
	a.acked = true
	_ = a.Context.Respond()
}

// CallbackRoute returns a handler that routes callbacks through the registry:
// exact payload tokens first, then registered prefixes, then the not-found
// fallback. Every branch acknowledges the callback exactly once.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		data := callbacks.Data(c.Callback())
		ac := &ackContext{Context: c}

		run := func() error {
			cbHandler, key, ok := reg.ResolveCallback(data)
			name := "callback." + normalizeHandlerName(key)
			extras := []slog.Attr{slog.String("cb_key", key)}

			if !ok || cbHandler == nil {
				name = "callback.not_found"
				extras = []slog.Attr{
					slog.String("cb_key", data),
					slog.String("reason", "not_found"),
				}
				cbHandler = reg.CallbackNotFound()
			}

			err := handleWithSummary(ac, name, start, func() error {
				if cbHandler != nil {
					return cbHandler(ac)
				}
				return nil
			}, extras...)
			ac.ensureAcked()
			return err
		}

		if opts.Locker != nil {
			return opts.Locker.WithUserLock(c.Sender().ID, run)
		}
		return run()
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
