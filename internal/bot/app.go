// Package bot wires the shop engine to Telegram: configuration, storage
// selection, routes and rendering.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	corebootstrap "github.com/m3rciful/shopbot/core/bootstrap"
	corecmd "github.com/m3rciful/shopbot/core/cmd"
	coreconfig "github.com/m3rciful/shopbot/core/config"
	"github.com/m3rciful/shopbot/core/logger"
	coretelegram "github.com/m3rciful/shopbot/core/telegram"
	"github.com/m3rciful/shopbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/shopbot/core/telegram/helpers"
	"github.com/m3rciful/shopbot/core/telegram/router"
	"github.com/m3rciful/shopbot/core/telegram/state"
	"github.com/m3rciful/shopbot/internal/catalog"
	"github.com/m3rciful/shopbot/internal/orders"
	"github.com/m3rciful/shopbot/internal/shop"

	tele "gopkg.in/telebot.v4"
)

const textRateLimited = "⏳ Too many requests, slow down a little."

// App holds the running shop.
type App struct {
	cfg     *Config
	db      *sqlx.DB
	handler *Handler
}

// Bootstrap initializes logging and storage and builds the engine.
func Bootstrap(ctx context.Context, carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("bot: unexpected config type")
	}
	app, err := bootstrap(ctx, cfg, infra{run: corebootstrap.Run, initLogger: logger.InitLogger})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// infra is the replaceable part of Bootstrap.
type infra struct {
	run        func(context.Context, corebootstrap.Options) (*corebootstrap.Result, error)
	initLogger func(*coreconfig.Config) error
}

func bootstrap(ctx context.Context, cfg *Config, in infra) (*App, error) {
	app := &App{cfg: cfg}
	var (
		products catalog.Store
		ord      orders.Store
	)
	switch cfg.Storage {
	case StorageMemory:
		if err := in.initLogger(&cfg.Config); err != nil {
			return nil, fmt.Errorf("bot: logger: %w", err)
		}
		products, ord = catalog.NewMemoryStore(), orders.NewMemoryStore()
	default:
		res, err := in.run(ctx, corebootstrap.Options{
			Config:     &cfg.Config,
			Database:   cfg.Database,
			LoggerInit: in.initLogger,
		})
		if err != nil {
			return nil, err
		}
		app.db = res.DB
		products, ord = catalog.NewSQLStore(res.DB), orders.NewSQLStore(res.DB)
	}

	engine := shop.NewEngine(shop.Config{AdminID: cfg.Telegram.AdminID}, products, ord, state.NewMemoryStore())
	app.handler = NewHandler(engine)
	logger.Info(ctx, "app", "bootstrap",
		slog.String("status", "ok"),
		slog.String("mode", cfg.Storage),
	)
	return app, nil
}

// Registry returns the slash commands of the shop.
func (a *App) Registry() (*coretelegram.Registry, error) {
	reg := coretelegram.NewRegistry()
	err := reg.RegisterCommand(shop.CommandStart, commands.Command{
		Handler:     a.handler.Command,
		Description: "Open the shop",
	})
	return reg, err
}

// TelegramRunOptions assembles middleware and routes for the runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg, err := a.Registry()
	if err != nil {
		return coretelegram.RunOptions{}, err
	}
	routes := router.CommandRoutes(reg)
	routes = append(routes,
		router.CallbackRoute(router.CallbackOptions{Handler: a.handler.Callback, Name: callbackName}),
		router.TextRoute(a.handler.Text),
	)
	return coretelegram.RunOptions{
		Config:   &a.cfg.Config,
		Registry: reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Config, func(c tele.Context) error {
			return tghelpers.Notice(c, textRateLimited)
		}),
		Routes: routes,
		OnStop: func(ctx context.Context, _ coretelegram.Runtime) error {
			return a.Close()
		},
	}, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
