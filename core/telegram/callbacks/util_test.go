package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	tele "gopkg.in/telebot.v4"
)

func TestDataCanonicalizesPayloads(t *testing.T) {
	cases := []struct {
		name string
		cb   *tele.Callback
		want string
	}{
		{"nil", nil, ""},
		{"raw", &tele.Callback{Data: "settings_reset"}, "settings_reset"},
		{"raw with feed prefix", &tele.Callback{Data: "\flang_ko"}, "lang_ko"},
		{"parsed unique and data", &tele.Callback{Unique: "privacy_delete_confirm", Data: "abc"}, "privacy_delete_confirm|abc"},
		{"parsed unique only", &tele.Callback{Unique: "privacy_cancel"}, "privacy_cancel"},
		{"whitespace", &tele.Callback{Data: "  theme_dark "}, "theme_dark"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Data(tc.cb))
		})
	}
}
