// Package router adapts handlers to telebot routes that write one summary
// line per handled update.
package router

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/m3rciful/shopbot/core/logger"
	tghelpers "github.com/m3rciful/shopbot/core/telegram/helpers"
	"github.com/m3rciful/shopbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// coder is implemented by errors that carry a stable code for logs.
type coder interface{ Code() string }

// handleWithSummary runs fn and logs its outcome. The summary line is the
// error report, so the error is not passed on to telebot.
func handleWithSummary(c tele.Context, name string, fn tele.HandlerFunc, extras ...slog.Attr) error {
	start := time.Now()
	if ts, ok := c.Get("update_start").(time.Time); ok {
		start = ts
	}
	ctx := tghelpers.WithHandler(c, name)
	err := fn(c)
	msgs, kb := middleware.GetCounters(c)

	attrs := []slog.Attr{
		slog.String("status", logger.Status(err)),
		slog.String("outcome", logger.Status(err)),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Duration("duration", logger.Took(start)),
	}
	level := slog.LevelInfo
	if err != nil {
		code := errorCode(err)
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", code),
		)
		if o := outcomeFor(code); o != "" {
			attrs[1] = slog.String("outcome", o)
		}
		if code == "STORAGE_FAILURE" || code == "UNKNOWN_ERROR" {
			level = slog.LevelError
		} else {
			level = slog.LevelWarn
		}
	}
	attrs = append(attrs, extras...)
	logger.LogEvent(ctx, logger.Component("tg"), level, "handler.handled", attrs...)
	return nil
}

func outcomeFor(code string) string {
	switch code {
	case "PERMISSION_DENIED":
		return "denied"
	case "NOT_FOUND":
		return "not_found"
	case "VALIDATION_FAILURE":
		return "invalid"
	}
	return ""
}

func normalizeHandlerName(name string) string {
	name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "/"))
	if name == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// errorCode prefers a Code() anywhere in the chain, then the error type name.
func errorCode(err error) string {
	var c coder
	if errors.As(err, &c) {
		if code := strings.TrimSpace(c.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Name() != "" && t.Name() != "errorString" {
		return strings.ToUpper(t.Name())
	}
	return "UNKNOWN_ERROR"
}
