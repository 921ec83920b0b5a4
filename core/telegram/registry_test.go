package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/profilebot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noopHandler(tele.Context) error { return nil }

func TestLookupCommandStripsArgsAndBotName(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/stats", commands.Command{Handler: noopHandler, Description: "stats"})

	for _, text := range []string{
		"/stats",
		"/stats today",
		"/stats@profilebot",
		"  /stats@profilebot extra args  ",
	} {
		key, _, ok := reg.LookupCommand(text)
		require.True(t, ok, "text %q should resolve", text)
		assert.Equal(t, "/stats", key)
	}
}

func TestLookupCommandRequiresSlash(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "start"})

	_, _, ok := reg.LookupCommand("start")
	assert.False(t, ok)
	_, _, ok = reg.LookupCommand("hello /start")
	assert.False(t, ok)
}

func TestLookupCommandAliases(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/help", commands.Command{
		Handler:     noopHandler,
		Description: "help",
		Aliases:     []string{"h"},
	})

	key, _, ok := reg.LookupCommand("/h")
	require.True(t, ok)
	assert.Equal(t, "/help", key)
}

func TestResolveCallbackExactBeatsPrefix(t *testing.T) {
	reg := NewRegistry()

	var hit string
	require.NoError(t, reg.RegisterCallback("lang_ko", func(tele.Context) error {
		hit = "exact"
		return nil
	}))
	require.NoError(t, reg.RegisterCallbackPrefix("lang_", func(tele.Context) error {
		hit = "prefix"
		return nil
	}))

	h, key, ok := reg.ResolveCallback("lang_ko")
	require.True(t, ok)
	assert.Equal(t, "lang_ko", key)
	require.NoError(t, h(nil))
	assert.Equal(t, "exact", hit)
}

func TestResolveCallbackLongestPrefixWins(t *testing.T) {
	reg := NewRegistry()

	var hit string
	require.NoError(t, reg.RegisterCallbackPrefix("privacy_", func(tele.Context) error {
		hit = "short"
		return nil
	}))
	require.NoError(t, reg.RegisterCallbackPrefix("privacy_delete_confirm", func(tele.Context) error {
		hit = "long"
		return nil
	}))

	h, key, ok := reg.ResolveCallback("privacy_delete_confirm|abc")
	require.True(t, ok)
	assert.Equal(t, "privacy_delete_confirm", key)
	require.NoError(t, h(nil))
	assert.Equal(t, "long", hit)
}

func TestResolveCallbackUnknown(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCallbackPrefix("lang_", noopHandler))

	_, _, ok := reg.ResolveCallback("theme_dark")
	assert.False(t, ok)
}

func TestRegisterCallbackDuplicate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCallback("settings_reset", noopHandler))
	assert.Error(t, reg.RegisterCallback("settings_reset", noopHandler))
	require.NoError(t, reg.RegisterCallbackPrefix("theme_", noopHandler))
	assert.Error(t, reg.RegisterCallbackPrefix("theme_", noopHandler))
}
