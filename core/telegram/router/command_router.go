package router

import (
	"context"
	"log/slog"

	"github.com/m3rciful/shopbot/core/logger"
	tg "github.com/m3rciful/shopbot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// CommandRoutes returns one route per registered command name and alias.
func CommandRoutes(reg *tg.Registry) []tg.Route {
	if reg == nil {
		return nil
	}
	endpoints := reg.Endpoints()
	routes := make([]tg.Route, 0, len(endpoints))
	for endpoint, cmd := range endpoints {
		name := "command." + normalizeHandlerName(endpoint)
		h := cmd.Handler
		routes = append(routes, tg.Route{
			Endpoint: endpoint,
			Handler: func(c tele.Context) error {
				return handleWithSummary(c, name, h)
			},
		})
	}
	logger.LogEvent(context.Background(), logger.TWire, slog.LevelInfo, "tg.wire",
		slog.String("status", "ok"),
		slog.Int("count", len(routes)),
	)
	return routes
}
