package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tg "github.com/m3rciful/profilebot/core/telegram"
	"github.com/m3rciful/profilebot/core/telegram/commands"
	"github.com/m3rciful/profilebot/core/telegram/telegramtest"

	tele "gopkg.in/telebot.v4"
)

// scriptedFSM drives the routing decision from test data.
type scriptedFSM struct {
	inProgress bool
	handled    []string
	locked     int
}

func (f *scriptedFSM) WithUserLock(_ int64, fn func() error) error {
	f.locked++
	return fn()
}

func (f *scriptedFSM) InProgress(context.Context, int64) bool { return f.inProgress }

func (f *scriptedFSM) Handle(c tele.Context) error {
	f.handled = append(f.handled, c.Text())
	return nil
}

func textHandler(trace *[]string, name string) tele.HandlerFunc {
	return func(tele.Context) error {
		*trace = append(*trace, name)
		return nil
	}
}

func buildRoute(t *testing.T, fsm *scriptedFSM, reg *tg.Registry, opts TextOptions) tele.HandlerFunc {
	t.Helper()
	routes := TextRoutes(fsm, reg, opts)
	require.Len(t, routes, 1)
	require.Equal(t, tele.OnText, routes[0].Endpoint)
	return routes[0].Handler
}

func TestIdleCommandGoesToHandlerNotFallback(t *testing.T) {
	var trace []string
	fsm := &scriptedFSM{}
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: textHandler(&trace, "start"), Description: "start"})
	reg.SetTextFallback(textHandler(&trace, "echo"))

	h := buildRoute(t, fsm, reg, TextOptions{})
	require.NoError(t, h(telegramtest.NewMessage(1, "/start")))

	assert.Equal(t, []string{"start"}, trace)
	assert.Empty(t, fsm.handled)
	assert.Equal(t, 1, fsm.locked)
}

func TestActiveConversationInterceptsCommandLookingText(t *testing.T) {
	var trace []string
	fsm := &scriptedFSM{inProgress: true}
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: textHandler(&trace, "start"), Description: "start"})
	reg.SetTextFallback(textHandler(&trace, "echo"))

	h := buildRoute(t, fsm, reg, TextOptions{})
	require.NoError(t, h(telegramtest.NewMessage(1, "/start")))

	assert.Empty(t, trace, "neither command nor fallback may run")
	assert.Equal(t, []string{"/start"}, fsm.handled)
}

func TestUnknownCommandBranch(t *testing.T) {
	var trace []string
	fsm := &scriptedFSM{}
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: textHandler(&trace, "start"), Description: "start"})
	reg.SetTextFallback(textHandler(&trace, "echo"))

	h := buildRoute(t, fsm, reg, TextOptions{
		UnknownCommand: textHandler(&trace, "unknown"),
	})
	require.NoError(t, h(telegramtest.NewMessage(1, "/doesnotexist")))

	assert.Equal(t, []string{"unknown"}, trace)
}

func TestFreeTextFallsThroughToEcho(t *testing.T) {
	var trace []string
	fsm := &scriptedFSM{}
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: textHandler(&trace, "start"), Description: "start"})
	reg.SetTextFallback(textHandler(&trace, "echo"))

	h := buildRoute(t, fsm, reg, TextOptions{})
	require.NoError(t, h(telegramtest.NewMessage(1, "hello there")))

	assert.Equal(t, []string{"echo"}, trace)
}

func TestObserveRunsBeforeRouting(t *testing.T) {
	var trace []string
	fsm := &scriptedFSM{}
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: textHandler(&trace, "start"), Description: "start"})

	h := buildRoute(t, fsm, reg, TextOptions{
		Observe: textHandler(&trace, "observe"),
	})
	require.NoError(t, h(telegramtest.NewMessage(1, "/start")))

	assert.Equal(t, []string{"observe", "start"}, trace)
}
