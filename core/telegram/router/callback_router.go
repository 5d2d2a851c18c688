package router

import (
	"log/slog"

	"github.com/m3rciful/shopbot/core/logger"
	tg "github.com/m3rciful/shopbot/core/telegram"
	"github.com/m3rciful/shopbot/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions configures CallbackRoute.
type CallbackOptions struct {
	Handler tele.HandlerFunc
	// Name maps a callback key to a handler name for logs. Keys carrying ids
	// should map to a stable name.
	Name func(key string) string
}

// CallbackRoute routes every inline button press to opts.Handler.
func CallbackRoute(opts CallbackOptions) tg.Route {
	name := opts.Name
	if name == nil {
		name = normalizeHandlerName
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler: func(c tele.Context) error {
			if c.Callback() == nil || opts.Handler == nil {
				return nil
			}
			key := callbacks.Key(c)
			return handleWithSummary(c, "callback."+name(key), opts.Handler,
				slog.String("cb_key", logger.SanitizeLimit(key, 64)),
			)
		},
	}
}

// TextRoute routes every plain text message to h.
func TextRoute(h tele.HandlerFunc) tg.Route {
	return tg.Route{
		Endpoint: tele.OnText,
		Handler: func(c tele.Context) error {
			if h == nil {
				return nil
			}
			return handleWithSummary(c, "text", h)
		},
	}
}
