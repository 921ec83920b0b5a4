// Package handlers binds the bot surface: commands, callback actions and
// conversation continuations. Handlers render replies and delegate every
// decision about data to the services; they log failures and answer with a
// degraded message instead of returning store errors to the dispatcher.
package handlers

import (
	coreconfig "github.com/m3rciful/profilebot/core/config"
	tg "github.com/m3rciful/profilebot/core/telegram"
	"github.com/m3rciful/profilebot/core/telegram/commands"
	"github.com/m3rciful/profilebot/internal/service"
	"github.com/m3rciful/profilebot/internal/state"
)

// Handlers carries the services the bot surface runs on.
type Handlers struct {
	cfg       *coreconfig.Config
	directory *service.Directory
	settings  *service.Settings
	activity  *service.Activity
	privacy   *service.Privacy
	feedback  *service.FeedbackService
	fsm       *state.Machine
}

// New wires the handler set.
func New(
	cfg *coreconfig.Config,
	directory *service.Directory,
	settings *service.Settings,
	activity *service.Activity,
	privacy *service.Privacy,
	feedback *service.FeedbackService,
	fsm *state.Machine,
) *Handlers {
	return &Handlers{
		cfg:       cfg,
		directory: directory,
		settings:  settings,
		activity:  activity,
		privacy:   privacy,
		feedback:  feedback,
		fsm:       fsm,
	}
}

// Register binds every command, callback action and continuation.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{Handler: h.Start, Description: "시작 및 명령어 안내"})
	reg.RegisterCommand("/help", commands.Command{Handler: h.Help, Description: "도움말"})
	reg.RegisterCommand("/profile", commands.Command{Handler: h.Profile, Description: "내 프로필"})
	reg.RegisterCommand("/settings", commands.Command{Handler: h.SettingsMenu, Description: "설정 관리"})
	reg.RegisterCommand("/stats", commands.Command{Handler: h.Stats, Description: "사용 통계"})
	reg.RegisterCommand("/privacy", commands.Command{Handler: h.PrivacyMenu, Description: "개인정보 관리"})
	reg.RegisterCommand("/feedback", commands.Command{Handler: h.FeedbackStart, Description: "피드백 보내기"})
	reg.RegisterCommand("/webhook", commands.Command{
		Handler:     h.AdminWebhook,
		Description: "webhook administration",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback("settings_notifications", h.ToggleNotifications)
	_ = reg.RegisterCallback("settings_language", h.LanguageMenu)
	_ = reg.RegisterCallback("settings_nickname", h.NicknameStart)
	_ = reg.RegisterCallback("settings_theme", h.ThemeMenu)
	_ = reg.RegisterCallback("settings_reset", h.SettingsReset)
	_ = reg.RegisterCallback("privacy_download", h.PrivacyDownload)
	_ = reg.RegisterCallback("privacy_delete", h.PrivacyDelete)
	_ = reg.RegisterCallback("privacy_cancel", h.PrivacyCancel)
	_ = reg.RegisterCallbackPrefix("lang_", h.SetLanguage)
	_ = reg.RegisterCallbackPrefix("theme_", h.SetTheme)
	_ = reg.RegisterCallbackPrefix("privacy_delete_confirm", h.PrivacyDeleteConfirm)

	reg.SetTextFallback(h.Echo)

	h.fsm.RegisterContinuation(state.WaitingFeedback, h.FeedbackText)
	h.fsm.RegisterContinuation(state.WaitingName, h.NicknameText)
}
