package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	corebootstrap "github.com/m3rciful/shopbot/core/bootstrap"
	coreconfig "github.com/m3rciful/shopbot/core/config"
	coretelegram "github.com/m3rciful/shopbot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

func testConfig(storage string) *Config {
	cfg := &Config{Storage: storage}
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.AdminID = adminID
	return cfg
}

func noLogger(*coreconfig.Config) error { return nil }

func TestBootstrapMemory(t *testing.T) {
	called := false
	app, err := bootstrap(context.Background(), testConfig(StorageMemory), infra{
		run: func(context.Context, corebootstrap.Options) (*corebootstrap.Result, error) {
			called = true
			return nil, errors.New("unexpected")
		},
		initLogger: noLogger,
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if called {
		t.Fatal("memory storage must not touch the database")
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestBootstrapPostgresClosesPool(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	mock.ExpectClose()

	app, err := bootstrap(context.Background(), testConfig(StoragePostgres), infra{
		run: func(_ context.Context, opts corebootstrap.Options) (*corebootstrap.Result, error) {
			if opts.Config == nil || opts.Config.Telegram.AdminID != adminID {
				t.Fatalf("core config not passed through: %+v", opts.Config)
			}
			return &corebootstrap.Result{DB: sqlx.NewDb(db, "postgres")}, nil
		},
		initLogger: noLogger,
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	opts, err := app.TelegramRunOptions()
	if err != nil {
		t.Fatalf("run options: %v", err)
	}
	if err := opts.OnStop(context.Background(), coretelegram.Runtime{}); err != nil {
		t.Fatalf("on stop: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestBootstrapPropagatesInfraError(t *testing.T) {
	boom := errors.New("db down")
	_, err := bootstrap(context.Background(), testConfig(StoragePostgres), infra{
		run: func(context.Context, corebootstrap.Options) (*corebootstrap.Result, error) {
			return nil, boom
		},
		initLogger: noLogger,
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected infra error, got %v", err)
	}
}

func TestBootstrapRejectsForeignConfig(t *testing.T) {
	if _, err := Bootstrap(context.Background(), &coreCarrier{}); err == nil {
		t.Fatal("expected error for a config that is not *Config")
	}
}

func TestTelegramRunOptionsRoutes(t *testing.T) {
	app, err := bootstrap(context.Background(), testConfig(StorageMemory), infra{initLogger: noLogger})
	if err != nil {
		t.Fatal(err)
	}
	opts, err := app.TelegramRunOptions()
	if err != nil {
		t.Fatalf("run options: %v", err)
	}
	if opts.Config == nil || opts.Registry == nil {
		t.Fatal("config and registry must be set")
	}
	endpoints := map[any]bool{}
	for _, r := range opts.Routes {
		endpoints[r.Endpoint] = true
	}
	for _, want := range []any{"/start", tele.OnCallback, tele.OnText} {
		if !endpoints[want] {
			t.Fatalf("missing route %v in %v", want, endpoints)
		}
	}
	if len(opts.Middlewares) == 0 {
		t.Fatal("expected default middlewares")
	}
	cmds := opts.Registry.ListCommands(true)
	if len(cmds) != 1 || cmds[0].Text != "start" {
		t.Fatalf("bot commands = %+v", cmds)
	}
}

type coreCarrier struct{ cfg coreconfig.Config }

func (c *coreCarrier) CoreConfig() *coreconfig.Config { return &c.cfg }
