package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/shopbot/core/config"
	coredatabase "github.com/m3rciful/shopbot/core/database"
)

func noLogger(*coreconfig.Config) error { return nil }

func mockConnect(t *testing.T) (func(context.Context, coredatabase.Config) (*sqlx.DB, error), sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	return func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
		return sqlx.NewDb(db, "postgres"), nil
	}, mock
}

func TestRunNilConfig(t *testing.T) {
	if _, err := Run(context.Background(), Options{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestRunSuccess(t *testing.T) {
	connect, _ := mockConnect(t)
	var migrated bool
	res, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Connect:    connect,
		Migrate: func(context.Context, coredatabase.Config) error {
			migrated = true
			return nil
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.DB == nil || !migrated {
		t.Fatal("expected db and migrations")
	}
}

func TestRunMigrationFailureClosesDB(t *testing.T) {
	connect, mock := mockConnect(t)
	mock.ExpectClose()
	boom := errors.New("dirty schema")
	_, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Connect:    connect,
		Migrate:    func(context.Context, coredatabase.Config) error { return boom },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped migration error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("db was not closed: %v", err)
	}
}

func TestRunConnectFailure(t *testing.T) {
	boom := errors.New("refused")
	_, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Connect: func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
			return nil, boom
		},
		Migrate: func(context.Context, coredatabase.Config) error {
			t.Fatal("migrate must not run after a failed connect")
			return nil
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected connect error, got %v", err)
	}
}
