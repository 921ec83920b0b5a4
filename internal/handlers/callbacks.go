package handlers

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/profilebot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/profilebot/core/telegram/helpers"
	"github.com/m3rciful/profilebot/core/telegram/keyboard"
	"github.com/m3rciful/profilebot/internal/state"

	tele "gopkg.in/telebot.v4"
)

// ToggleNotifications flips the flag and reports the new value in both the
// callback ack and a follow-up message.
func (h *Handlers) ToggleNotifications(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	next, err := h.settings.ToggleNotifications(ctx, c.Sender().ID)
	if err != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: operationFailedText})
		return nil
	}
	ack, msg := notificationsOffAck, notificationsOffText
	if next {
		ack, msg = notificationsOnAck, notificationsOnText
	}
	_ = c.Respond(&tele.CallbackResponse{Text: ack})
	return tghelpers.SendText(c, msg)
}

// LanguageMenu shows the language choices.
func (h *Handlers) LanguageMenu(c tele.Context) error {
	kb := keyboard.InlineColumn(
		keyboard.Btn{Text: "🇰🇷 한국어", Data: "lang_ko"},
		keyboard.Btn{Text: "🇺🇸 English", Data: "lang_en"},
		keyboard.Btn{Text: "🇯🇵 日本語", Data: "lang_ja"},
	)
	_ = c.Respond()
	return tghelpers.SendText(c, languageMenuText, &tele.SendOptions{ReplyMarkup: kb})
}

// SetLanguage stores the language chosen from the menu. The payload suffix
// after lang_ is the language code.
func (h *Handlers) SetLanguage(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	code := callbacks.Suffix(c, "lang_")
	if err := h.settings.SetLanguage(ctx, c.Sender().ID, code); err != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: operationFailedText})
		return nil
	}
	name, ok := languageNames[code]
	if !ok {
		name = code
	}
	_ = c.Respond(&tele.CallbackResponse{Text: fmt.Sprintf(languageSetAckFmt, name)})
	return tghelpers.SendText(c, fmt.Sprintf(languageSetFmt, name))
}

// NicknameStart enters the nickname waiting state and prompts for input.
func (h *Handlers) NicknameStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if err := h.fsm.Begin(ctx, c.Sender().ID, state.WaitingName, nil); err != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: operationFailedText})
		return nil
	}
	_ = c.Respond()
	return tghelpers.SendText(c, nicknamePromptText)
}

// ThemeMenu shows the theme choices.
func (h *Handlers) ThemeMenu(c tele.Context) error {
	kb := keyboard.InlineColumn(
		keyboard.Btn{Text: "☀️ 라이트", Data: "theme_light"},
		keyboard.Btn{Text: "🌙 다크", Data: "theme_dark"},
		keyboard.Btn{Text: "🌈 컬러풀", Data: "theme_colorful"},
	)
	_ = c.Respond()
	return tghelpers.SendText(c, themeMenuText, &tele.SendOptions{ReplyMarkup: kb})
}

// SetTheme stores the theme chosen from the menu.
func (h *Handlers) SetTheme(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	name := callbacks.Suffix(c, "theme_")
	if err := h.settings.SetTheme(ctx, c.Sender().ID, name); err != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: operationFailedText})
		return nil
	}
	_ = c.Respond(&tele.CallbackResponse{Text: themeSetAck})
	return tghelpers.SendText(c, themeSetText)
}

// SettingsReset restores the default settings. Conversation state stays.
func (h *Handlers) SettingsReset(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if err := h.settings.Reset(ctx, c.Sender().ID); err != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: operationFailedText})
		return nil
	}
	_ = c.Respond(&tele.CallbackResponse{Text: settingsResetAck})
	return tghelpers.SendText(c, settingsResetText)
}

// PrivacyDownload acknowledges immediately, then sends the full data export
// as a JSON document.
func (h *Handlers) PrivacyDownload(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	_ = c.Respond(&tele.CallbackResponse{Text: exportPreparingAck})

	raw, err := h.privacy.BuildExport(ctx, c.Sender().ID)
	if err != nil {
		return tghelpers.SendText(c, exportFailedText)
	}
	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(raw)),
		FileName: fmt.Sprintf("profilebot-export-%d-%s.json", c.Sender().ID, time.Now().Format("20060102")),
		Caption:  exportCaption,
	}
	return tghelpers.SendDocument(c, doc)
}

// PrivacyDelete issues a fresh confirmation token, parks it in the
// waiting_delete state and shows the confirm/cancel keyboard. The confirm
// button carries the token, so only the keyboard from this exchange can
// confirm the deletion.
func (h *Handlers) PrivacyDelete(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	token := uuid.NewString()
	if err := h.fsm.Begin(ctx, c.Sender().ID, state.WaitingDelete, state.EncodeDeletePayload(token)); err != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: operationFailedText})
		return nil
	}
	kb := keyboard.InlineColumn(
		keyboard.Btn{Text: "⚠️ 정말 삭제", Data: "privacy_delete_confirm|" + token},
		keyboard.Btn{Text: "❌ 취소", Data: "privacy_cancel"},
	)
	_ = c.Respond()
	return tghelpers.SendText(c, deleteConfirmText, &tele.SendOptions{ReplyMarkup: kb})
}

// PrivacyDeleteConfirm validates the carried token against the stored
// waiting_delete payload and only purges on a match. A missing state row,
// a stale keyboard or a forged payload all refuse without deleting.
func (h *Handlers) PrivacyDeleteConfirm(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	token := strings.TrimPrefix(callbacks.Suffix(c, "privacy_delete_confirm"), "|")

	rec, err := h.fsm.Current(ctx, userID)
	if err != nil || rec == nil || rec.Label != state.WaitingDelete {
		_ = c.Respond(&tele.CallbackResponse{Text: deleteRefusedAck})
		return tghelpers.SendText(c, deleteRefusedText)
	}
	expected := state.DecodeDeletePayload(rec.Payload).Token
	if token == "" || expected == "" || token != expected {
		_ = c.Respond(&tele.CallbackResponse{Text: deleteRefusedAck})
		return tghelpers.SendText(c, deleteRefusedText)
	}

	if err := h.privacy.Purge(ctx, userID); err != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: operationFailedText})
		return tghelpers.SendText(c, operationFailedText)
	}
	_ = c.Respond(&tele.CallbackResponse{Text: deletedAck})
	return tghelpers.SendText(c, deletedText)
}

// PrivacyCancel dismisses the privacy menu and clears a pending delete.
func (h *Handlers) PrivacyCancel(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID
	if rec, err := h.fsm.Current(ctx, userID); err == nil && rec != nil && rec.Label == state.WaitingDelete {
		_ = h.fsm.End(ctx, userID)
	}
	_ = c.Respond(&tele.CallbackResponse{Text: cancelledAck})
	return tghelpers.SendText(c, cancelledText)
}
