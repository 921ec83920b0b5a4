package handlers

import (
	"fmt"

	"github.com/m3rciful/profilebot/core/telegram/format"
	tghelpers "github.com/m3rciful/profilebot/core/telegram/helpers"
	"github.com/m3rciful/profilebot/internal/state"

	tele "gopkg.in/telebot.v4"
)

// FeedbackText resolves waiting_feedback: any text, even command-looking
// text, is the feedback body. The state clears whether or not the save
// succeeded, so a broken store cannot trap the user in the flow.
func (h *Handlers) FeedbackText(c tele.Context, _ state.Record) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	err := h.feedback.Submit(ctx, userID, c.Text())
	_ = h.fsm.End(ctx, userID)
	if err != nil {
		return tghelpers.SendText(c, operationFailedText)
	}
	return tghelpers.SendText(c, feedbackThanksText)
}

// NicknameText resolves waiting_name: the text becomes the nickname.
func (h *Handlers) NicknameText(c tele.Context, _ state.Record) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID
	name := c.Text()

	err := h.settings.SetNickname(ctx, userID, name)
	_ = h.fsm.End(ctx, userID)
	if err != nil {
		return tghelpers.SendText(c, operationFailedText)
	}
	return tghelpers.SendHTML(c, fmt.Sprintf(nicknameSetFmt, format.EscapeHTML(name)))
}
