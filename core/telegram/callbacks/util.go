package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Data returns the raw callback payload. Buttons in this codebase carry raw
// data strings, but Telebot's own \f<unique>|<payload> encoding (and its
// already-parsed Unique/Data split) is tolerated for markup.Data buttons.
func Data(cb *tele.Callback) string {
	if cb == nil {
		return ""
	}
	raw := strings.TrimSpace(cb.Data)
	raw = strings.TrimPrefix(raw, "\f")
	raw = strings.TrimPrefix(raw, "\\f")
	if cb.Unique != "" {
		if raw == "" {
			return cb.Unique
		}
		return cb.Unique + "|" + raw
	}
	return raw
}

// FromContext returns the raw payload of the pressed button, or "" when the
// update is not a callback.
func FromContext(c tele.Context) string {
	return Data(c.Callback())
}

// Suffix strips prefix from the payload carried by c and returns the rest.
func Suffix(c tele.Context, prefix string) string {
	return strings.TrimPrefix(FromContext(c), prefix)
}
