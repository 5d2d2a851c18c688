// Package keyboard builds inline keyboards from plain callback tokens.
package keyboard

import tele "gopkg.in/telebot.v4"

// Button is one inline button. Data is sent back verbatim as the callback data.
type Button struct {
	Text string
	Data string
}

// Column lays out buttons one per row. It returns nil for no buttons, which
// removes the keyboard when editing a message.
func Column(buttons ...Button) *tele.ReplyMarkup {
	if len(buttons) == 0 {
		return nil
	}
	return Rows(Chunk(buttons, 1)...)
}

// Rows builds an inline keyboard from rows of buttons.
func Rows(rows ...[]Button) *tele.ReplyMarkup {
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			r = append(r, tele.InlineButton{Text: b.Text, Data: b.Data})
		}
		inline = append(inline, r)
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}

// Chunk splits buttons into rows of at most n; n <= 1 yields one per row.
func Chunk(buttons []Button, n int) [][]Button {
	if n < 1 {
		n = 1
	}
	rows := make([][]Button, 0, (len(buttons)+n-1)/n)
	for i := 0; i < len(buttons); i += n {
		rows = append(rows, buttons[i:min(i+n, len(buttons))])
	}
	return rows
}
