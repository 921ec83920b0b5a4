package keyboard

import tele "gopkg.in/telebot.v4"

// Btn describes an inline button carrying a raw callback payload or a URL.
type Btn struct {
	Text string
	Data string
	URL  string
}

// Inline builds an inline keyboard from rows of Btn. The Data string is sent
// to Telegram verbatim so that callback routing can match exact tokens and
// prefixes against it.
func Inline(rows ...[]Btn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = tele.InlineButton{Text: btn.Text, Data: btn.Data, URL: btn.URL}
		}
		inline[i] = r
	}
	markup.InlineKeyboard = inline
	return markup
}

// InlineColumn places each button on its own row.
func InlineColumn(buttons ...Btn) *tele.ReplyMarkup {
	rows := make([][]Btn, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []Btn{b})
	}
	return Inline(rows...)
}

// Chunk splits a flat list of buttons into rows with up to n buttons per row.
func Chunk(buttons []Btn, n int) [][]Btn {
	if n <= 1 {
		out := make([][]Btn, 0, len(buttons))
		for _, b := range buttons {
			out = append(out, []Btn{b})
		}
		return out
	}
	var rows [][]Btn
	for i := 0; i < len(buttons); i += n {
		end := i + n
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	return rows
}
