package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command describes a slash command the text router can dispatch.
type Command struct {
	// Handler runs when the command or one of its aliases is typed and no
	// conversation is waiting for the user's input.
	Handler tele.HandlerFunc
	// Description appears in the Telegram command menu unless Hidden.
	Description string
	// AdminOnly restricts the command to the configured admin account.
	AdminOnly bool
	// Hidden keeps the command out of setMyCommands.
	Hidden bool
	// Aliases are alternative names resolving to the same handler.
	Aliases []string
}
