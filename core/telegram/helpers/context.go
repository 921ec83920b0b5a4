package helpers

import (
	"context"

	"github.com/m3rciful/profilebot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Key under which the request-scoped context.Context is cached on tele.Context.
const ctxCacheKey = "logger_ctx"

// StoreContext caches a request-scoped context on the update so later
// helpers reuse it instead of rebuilding.
func StoreContext(c tele.Context, ctx context.Context) {
	if c == nil || ctx == nil {
		return
	}
	c.Set(ctxCacheKey, ctx)
}

func cachedContext(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	ctx, ok := c.Get(ctxCacheKey).(context.Context)
	return ctx, ok && ctx != nil
}

// BuildContext derives a context.Context for the current update, carrying
// the rid and update/user/chat ids every service log line wants. The result
// is cached on the tele.Context for the rest of the dispatch.
func BuildContext(c tele.Context) context.Context {
	if ctx, ok := cachedContext(c); ok {
		return ctx
	}

	upd := c.Update()
	var userID, chatID int64
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}

	rid, _ := c.Get("rid").(string)
	if rid == "" {
		rid = logger.BuildRID(upd.ID, chatID, userID)
	}

	ctx := logger.WithRID(context.Background(), rid)
	ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.Component("tg"))
	StoreContext(c, ctx)
	return ctx
}

// WithHandler tags the cached context with the resolved handler name.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler == "" {
		return ctx
	}
	ctx = logger.WithHandler(ctx, handler)
	StoreContext(c, ctx)
	return ctx
}
