package handlers

// User-facing texts. Messages are sent with HTML parse mode; dynamic values
// are escaped at the call site.

const (
	welcomeNewUserFmt = "🎉 환영합니다 %s님! 처음 오셨네요!"

	startFmt = `👋 <b>안녕하세요 %s님!</b>

이 봇은 <b>로그인/회원가입 없이</b> 사용 가능합니다.
텔레그램 ID로 자동 인식됩니다.

<b>사용 가능한 명령어:</b>
/profile - 내 프로필
/settings - 설정 관리
/stats - 사용 통계
/privacy - 개인정보 관리
/help - 도움말`

	helpText = `📚 <b>도움말</b>

<b>명령어:</b>
/start - 시작 및 명령어 안내
/profile - 프로필과 설정 확인
/settings - 알림, 언어, 닉네임, 테마 설정
/stats - 사용 통계 보기
/privacy - 데이터 다운로드 및 삭제
/feedback - 피드백 보내기

설정 변경은 /settings 메뉴의 버튼으로 진행됩니다.`

	settingsMenuText = "⚙️ 설정을 선택하세요:"
	languageMenuText = "언어를 선택하세요:"
	themeMenuText    = "테마를 선택하세요:"

	privacyMenuText = `🔐 <b>개인정보 관리</b>

저장된 데이터:
• 프로필 정보 (이름, ID)
• 메시지 기록
• 설정값
• 사용 통계

GDPR 준수를 위해 언제든 데이터를 다운로드하거나 삭제할 수 있습니다.`

	deleteConfirmText = "⚠️ 정말로 모든 데이터를 삭제하시겠습니까?\n이 작업은 되돌릴 수 없습니다!"

	feedbackPromptText = "💬 피드백을 입력해주세요:"
	feedbackThanksText = "✅ 피드백이 저장되었습니다. 감사합니다!"

	nicknamePromptText   = "✏️ 새로운 닉네임을 입력해주세요:"
	nicknameSetFmt       = "✅ 닉네임이 \"%s\"로 설정되었습니다!"
	unknownCommandText   = "❌ 알 수 없는 명령어입니다. /help를 입력해보세요."
	echoFmt              = "메시지를 받았습니다: \"%s\""
	notificationsOnText  = "🔔 알림이 켜졌습니다"
	notificationsOffText = "🔔 알림이 꺼졌습니다"
	notificationsOnAck   = "알림이 켜졌습니다"
	notificationsOffAck  = "알림이 꺼졌습니다"

	languageSetAckFmt = "언어가 %s로 변경되었습니다"
	languageSetFmt    = "✅ 언어가 %s로 설정되었습니다"
	themeSetAck       = "테마가 변경되었습니다"
	themeSetText      = "✅ 테마가 설정되었습니다"
	settingsResetAck  = "설정이 초기화되었습니다"
	settingsResetText = "✅ 모든 설정이 초기화되었습니다"

	exportPreparingAck = "데이터 준비 중..."
	exportCaption      = "📥 요청하신 데이터 내보내기입니다"
	exportFailedText   = "❌ 데이터 준비에 실패했습니다. 잠시 후 다시 시도해주세요."

	deletedAck          = "데이터가 삭제되었습니다"
	deletedText         = "✅ 모든 데이터가 삭제되었습니다. 안녕히 가세요!"
	deleteRefusedAck    = "확인 토큰이 일치하지 않습니다"
	deleteRefusedText   = "❌ 삭제 확인이 만료되었거나 유효하지 않습니다. /privacy에서 다시 시도해주세요."
	cancelledAck        = "취소되었습니다"
	cancelledText       = "❌ 작업이 취소되었습니다"
	operationFailedText = "❌ 처리 중 문제가 발생했습니다. 잠시 후 다시 시도해주세요."
)

// languageNames maps language codes from the language menu to display names.
var languageNames = map[string]string{
	"ko": "한국어",
	"en": "English",
	"ja": "日本語",
}
