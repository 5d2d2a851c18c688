package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/m3rciful/shopbot/core/logger"
	"github.com/m3rciful/shopbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by SendHTML. nil restores
// synchronous sends.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func htmlOptions(markup *tele.ReplyMarkup) *tele.SendOptions {
	return &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		ReplyMarkup:           markup,
		DisableWebPagePreview: true,
	}
}

// SendHTML sends a new HTML message to the chat of c. With a dispatcher
// configured the call is queued and retried on transient failures; a full or
// closed queue falls back to a direct send.
func SendHTML(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	run := func() error { return c.Send(text, htmlOptions(markup)) }
	d := globalDispatcher.Load()
	if d == nil {
		return run()
	}
	ctx := BuildContext(c)
	err := d.Enqueue(ctx, "send.html", run)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("op", "send.html"),
			slog.String("err", err.Error()),
		)
		return run()
	}
	return err
}

// EditHTML replaces the text and keyboard of the message that carried the
// pressed button. Without a callback message it sends a new message instead.
func EditHTML(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() == nil || c.Message() == nil {
		return SendHTML(c, text, markup)
	}
	err := c.Edit(text, htmlOptions(markup))
	if errors.Is(err, tele.ErrSameMessageContent) {
		return nil
	}
	return err
}

// Notice shows a transient callback answer, or sends text as a plain
// message when the update is not a callback.
func Notice(c tele.Context, text string) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text})
	}
	return SendHTML(c, text, nil)
}
