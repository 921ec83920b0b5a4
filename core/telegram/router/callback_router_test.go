package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tg "github.com/m3rciful/profilebot/core/telegram"
	"github.com/m3rciful/profilebot/core/telegram/callbacks"
	"github.com/m3rciful/profilebot/core/telegram/telegramtest"

	tele "gopkg.in/telebot.v4"
)

func TestCallbackAckedOnceWhenHandlerResponds(t *testing.T) {
	reg := tg.NewRegistry()
	require.NoError(t, reg.RegisterCallback("settings_reset", func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "done"})
	}))

	fake := telegramtest.NewCallback(1, "settings_reset")
	route := CallbackRoute(reg, CallbackOptions{})
	require.NoError(t, route.Handler(fake))

	assert.Equal(t, 1, fake.RespondCount())
	assert.Equal(t, "done", fake.Responses[0].Text)
}

func TestCallbackAckedOnceWhenHandlerForgets(t *testing.T) {
	reg := tg.NewRegistry()
	require.NoError(t, reg.RegisterCallback("settings_language", func(tele.Context) error {
		return nil
	}))

	fake := telegramtest.NewCallback(1, "settings_language")
	route := CallbackRoute(reg, CallbackOptions{})
	require.NoError(t, route.Handler(fake))

	assert.Equal(t, 1, fake.RespondCount())
}

func TestCallbackDoubleRespondCollapsesToOne(t *testing.T) {
	reg := tg.NewRegistry()
	require.NoError(t, reg.RegisterCallback("settings_theme", func(c tele.Context) error {
		_ = c.Respond(&tele.CallbackResponse{Text: "first"})
		return c.Respond(&tele.CallbackResponse{Text: "second"})
	}))

	fake := telegramtest.NewCallback(1, "settings_theme")
	route := CallbackRoute(reg, CallbackOptions{})
	require.NoError(t, route.Handler(fake))

	require.Equal(t, 1, fake.RespondCount())
	assert.Equal(t, "first", fake.Responses[0].Text)
}

func TestUnknownCallbackStillAcked(t *testing.T) {
	reg := tg.NewRegistry()
	require.NoError(t, reg.RegisterCallbackPrefix("lang_", func(tele.Context) error { return nil }))

	fake := telegramtest.NewCallback(1, "totally_unknown")
	route := CallbackRoute(reg, CallbackOptions{})
	require.NoError(t, route.Handler(fake))

	require.Equal(t, 1, fake.RespondCount())
	assert.Equal(t, "Unsupported action", fake.Responses[0].Text)
}

func TestCallbackPrefixSuffixReachesHandler(t *testing.T) {
	reg := tg.NewRegistry()
	var code string
	require.NoError(t, reg.RegisterCallbackPrefix("lang_", func(c tele.Context) error {
		code = callbacks.Suffix(c, "lang_")
		return nil
	}))

	fake := telegramtest.NewCallback(1, "lang_ja")
	route := CallbackRoute(reg, CallbackOptions{})
	require.NoError(t, route.Handler(fake))

	assert.Equal(t, "ja", code)
	assert.Equal(t, 1, fake.RespondCount())
}

type countingLocker struct{ calls int }

func (l *countingLocker) WithUserLock(_ int64, fn func() error) error {
	l.calls++
	return fn()
}

func TestCallbackRoutingRunsUnderUserLock(t *testing.T) {
	reg := tg.NewRegistry()
	require.NoError(t, reg.RegisterCallback("privacy_cancel", func(tele.Context) error { return nil }))

	locker := &countingLocker{}
	fake := telegramtest.NewCallback(7, "privacy_cancel")
	route := CallbackRoute(reg, CallbackOptions{Locker: locker})
	require.NoError(t, route.Handler(fake))

	assert.Equal(t, 1, locker.calls)
}
