package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/m3rciful/shopbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/shopbot/core/telegram/helpers"
	"github.com/m3rciful/shopbot/core/telegram/state"
	"github.com/m3rciful/shopbot/internal/shop"

	tele "gopkg.in/telebot.v4"
)

// Engine handles one shop event.
type Engine interface {
	Handle(ctx context.Context, ev shop.Event) (shop.Response, error)
}

// Handler turns telebot updates into shop events and renders the responses.
type Handler struct {
	engine Engine
}

// NewHandler returns a Handler backed by engine.
func NewHandler(engine Engine) *Handler {
	return &Handler{engine: engine}
}

// Command handles a slash command message.
func (h *Handler) Command(c tele.Context) error {
	return h.dispatch(c, shop.CommandEvent(senderID(c), commandName(c.Text())))
}

// Callback handles an inline button press.
func (h *Handler) Callback(c tele.Context) error {
	return h.dispatch(c, shop.ActionEvent(senderID(c), callbacks.Key(c)))
}

// Text handles a plain text message.
func (h *Handler) Text(c tele.Context) error {
	return h.dispatch(c, shop.TextEvent(senderID(c), c.Text()))
}

// dispatch returns the workflow error joined with any delivery error; the
// user has already been shown the outcome.
func (h *Handler) dispatch(c tele.Context, ev shop.Event) error {
	if ev.UserID == 0 {
		return nil
	}
	resp, err := h.engine.Handle(tghelpers.BuildContext(c), ev)
	return errors.Join(err, Render(c, resp))
}

func senderID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

// commandName extracts "start" from "/start@shop_bot payload".
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	name, _, _ := strings.Cut(strings.TrimPrefix(fields[0], "/"), "@")
	return strings.ToLower(name)
}

// callbackName maps a callback key to the route it resolves to, so ids stay
// out of handler names.
func callbackName(key string) string {
	rt, _ := shop.Resolve(shop.ActionEvent(0, key), state.StateIdle)
	return rt.Kind.String()
}
