package bot

import (
	"errors"

	tghelpers "github.com/m3rciful/shopbot/core/telegram/helpers"
	"github.com/m3rciful/shopbot/core/telegram/keyboard"
	"github.com/m3rciful/shopbot/internal/shop"

	tele "gopkg.in/telebot.v4"
)

// Render presents resp through c. A pressed button is always answered so
// the client stops its progress indicator.
func Render(c tele.Context, resp shop.Response) error {
	if resp.Delivery == shop.DeliverNotice {
		return tghelpers.Notice(c, resp.Text)
	}

	markup := keyboard.Column(buttons(resp.Actions)...)
	var err error
	if resp.Delivery == shop.DeliverEdit {
		err = tghelpers.EditHTML(c, resp.Text, markup)
	} else {
		err = tghelpers.SendHTML(c, resp.Text, markup)
	}
	if c.Callback() != nil {
		err = errors.Join(err, c.Respond())
	}
	return err
}

func buttons(actions []shop.Action) []keyboard.Button {
	out := make([]keyboard.Button, 0, len(actions))
	for _, a := range actions {
		out = append(out, keyboard.Button{Text: a.Label, Data: a.Token})
	}
	return out
}
