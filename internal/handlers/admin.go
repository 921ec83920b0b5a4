package handlers

import (
	"fmt"
	"strings"

	"github.com/m3rciful/profilebot/core/logger"
	tg "github.com/m3rciful/profilebot/core/telegram"
	tghelpers "github.com/m3rciful/profilebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminWebhook manages the Bot API webhook registration:
//
//	/webhook         — show the configured public URL and run mode
//	/webhook set     — register the configured URL
//	/webhook delete  — remove the registration
func (h *Handlers) AdminWebhook(c tele.Context) error {
	args := strings.Fields(c.Text())
	sub := ""
	if len(args) > 1 {
		sub = strings.ToLower(args[1])
	}

	switch sub {
	case "set":
		if err := tg.SetWebhook(h.cfg.Telegram.Token, h.cfg.Webhook.URL); err != nil {
			return tghelpers.SendText(c, "webhook set failed: "+logger.Sanitize(err.Error()))
		}
		return tghelpers.SendText(c, "webhook set: "+h.cfg.Webhook.URL)
	case "delete":
		if err := tg.DeleteWebhook(h.cfg.Telegram.Token, false); err != nil {
			return tghelpers.SendText(c, "webhook delete failed: "+logger.Sanitize(err.Error()))
		}
		return tghelpers.SendText(c, "webhook deleted")
	default:
		return tghelpers.SendText(c, fmt.Sprintf(
			"run_mode: %s\nwebhook_url: %s\nusage: /webhook [set|delete]",
			h.cfg.Telegram.RunMode, h.cfg.Webhook.URL,
		))
	}
}
