package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/m3rciful/profilebot/core/telegram/format"
	tghelpers "github.com/m3rciful/profilebot/core/telegram/helpers"
	"github.com/m3rciful/profilebot/core/telegram/keyboard"
	"github.com/m3rciful/profilebot/internal/state"
	"github.com/m3rciful/profilebot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// koDate renders dates the way ko-KR locale formatting does.
const koDate = "2006. 1. 2."

// Observe runs before routing for every text update: keeps the user
// directory fresh, greets first-time users and appends the message log.
func (h *Handlers) Observe(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	created := h.directory.OnSight(ctx, senderToUser(sender))
	if created {
		_ = tghelpers.SendText(c, fmt.Sprintf(welcomeNewUserFmt, sender.FirstName))
	}

	h.activity.Log(ctx, sender.ID, c.Chat().ID, c.Text())
	return nil
}

// Start greets the user and lists the available commands.
func (h *Handlers) Start(c tele.Context) error {
	name := format.EscapeHTML(c.Sender().FirstName)
	return tghelpers.SendHTML(c, fmt.Sprintf(startFmt, name))
}

// Help shows the command reference.
func (h *Handlers) Help(c tele.Context) error {
	return tghelpers.SendHTML(c, helpText)
}

// Profile renders identity, activity and settings in one view.
func (h *Handlers) Profile(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sender := c.Sender()
	stats := h.activity.UserStats(ctx, sender.ID)

	username := "없음"
	if sender.Username != "" {
		username = "@" + format.EscapeHTML(sender.Username)
	}
	langCode := sender.LanguageCode
	if langCode == "" {
		langCode = "미설정"
	}

	notifications := "꺼짐"
	if h.settings.Notifications(ctx, sender.ID) {
		notifications = "켜짐"
	}
	language := h.settings.StringValue(ctx, sender.ID, "language")
	if language == "" {
		language = "한국어"
	}
	nickname := h.settings.StringValue(ctx, sender.ID, "nickname")
	if nickname == "" {
		nickname = "미설정"
	}

	var b strings.Builder
	b.WriteString("👤 <b>프로필</b>\n\n")
	b.WriteString("<b>기본 정보:</b>\n")
	fmt.Fprintf(&b, "• ID: <code>%d</code>\n", sender.ID)
	fmt.Fprintf(&b, "• 이름: %s %s\n", format.EscapeHTML(sender.FirstName), format.EscapeHTML(sender.LastName))
	fmt.Fprintf(&b, "• 사용자명: %s\n", username)
	fmt.Fprintf(&b, "• 언어: %s\n\n", format.EscapeHTML(langCode))
	b.WriteString("<b>활동 정보:</b>\n")
	fmt.Fprintf(&b, "• 총 메시지: %d개\n", stats.MessageCount)
	fmt.Fprintf(&b, "• 가입일: %s\n", formatDate(stats.MemberSince))
	fmt.Fprintf(&b, "• 마지막 활동: %s\n\n", formatDate(stats.LastActive))
	b.WriteString("<b>설정:</b>\n")
	fmt.Fprintf(&b, "• 알림: %s\n", notifications)
	fmt.Fprintf(&b, "• 언어: %s\n", format.EscapeHTML(language))
	fmt.Fprintf(&b, "• 닉네임: %s", format.EscapeHTML(nickname))

	return tghelpers.SendHTML(c, b.String())
}

// SettingsMenu shows the inline settings keyboard.
func (h *Handlers) SettingsMenu(c tele.Context) error {
	kb := keyboard.Inline(
		[]keyboard.Btn{
			{Text: "🔔 알림 설정", Data: "settings_notifications"},
			{Text: "🌐 언어 설정", Data: "settings_language"},
		},
		[]keyboard.Btn{
			{Text: "✏️ 닉네임 변경", Data: "settings_nickname"},
			{Text: "🎨 테마 설정", Data: "settings_theme"},
		},
		[]keyboard.Btn{
			{Text: "↩️ 설정 초기화", Data: "settings_reset"},
		},
	)
	return tghelpers.SendHTML(c, settingsMenuText, kb)
}

// Stats renders the activity summary and the last commands.
func (h *Handlers) Stats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	stats := h.activity.UserStats(ctx, c.Sender().ID)

	recent := "없음"
	if len(stats.RecentCommands) > 0 {
		lines := make([]string, 0, len(stats.RecentCommands))
		for _, cmd := range stats.RecentCommands {
			lines = append(lines, "• "+format.EscapeHTML(cmd))
		}
		recent = strings.Join(lines, "\n")
	}

	var b strings.Builder
	b.WriteString("📊 <b>사용 통계</b>\n\n")
	b.WriteString("<b>활동 요약:</b>\n")
	fmt.Fprintf(&b, "• 총 메시지 수: %d개\n", stats.MessageCount)
	fmt.Fprintf(&b, "• 가입일: %s\n", formatDate(stats.MemberSince))
	fmt.Fprintf(&b, "• 활동 기간: %d일\n\n", stats.ActiveDays(time.Now()))
	b.WriteString("<b>최근 명령어:</b>\n")
	b.WriteString(recent)

	return tghelpers.SendHTML(c, b.String())
}

// PrivacyMenu shows the download / delete / cancel keyboard.
func (h *Handlers) PrivacyMenu(c tele.Context) error {
	kb := keyboard.InlineColumn(
		keyboard.Btn{Text: "📥 내 데이터 다운로드", Data: "privacy_download"},
		keyboard.Btn{Text: "🗑️ 모든 데이터 삭제", Data: "privacy_delete"},
		keyboard.Btn{Text: "❌ 취소", Data: "privacy_cancel"},
	)
	return tghelpers.SendHTML(c, privacyMenuText, kb)
}

// FeedbackStart enters the feedback waiting state and prompts for input.
func (h *Handlers) FeedbackStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if err := h.fsm.Begin(ctx, c.Sender().ID, state.WaitingFeedback, nil); err != nil {
		return tghelpers.SendText(c, operationFailedText)
	}
	return tghelpers.SendText(c, feedbackPromptText)
}

// Unknown answers slash-prefixed text that matches no command. It mutates
// no state: whatever the user was doing stays as it was.
func (h *Handlers) Unknown(c tele.Context) error {
	return tghelpers.SendText(c, unknownCommandText)
}

// Echo is the free-text fallback for idle users.
func (h *Handlers) Echo(c tele.Context) error {
	return tghelpers.SendText(c, fmt.Sprintf(echoFmt, c.Text()))
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format(koDate)
}

func senderToUser(sender *tele.User) storage.User {
	return storage.User{
		TelegramID:   sender.ID,
		Username:     optional(sender.Username),
		FirstName:    sender.FirstName,
		LastName:     optional(sender.LastName),
		LanguageCode: optional(sender.LanguageCode),
		IsBot:        sender.IsBot,
		IsPremium:    sender.IsPremium,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
