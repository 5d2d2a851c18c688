package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/m3rciful/shopbot/core/logger"
)

const (
	readyTimeout = 30 * time.Second
	readyEvery   = 2 * time.Second
)

type pinger interface {
	PingContext(ctx context.Context) error
}

// Connect opens the pool, waits for the server to accept connections and
// sizes the pool from cfg.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	attrs := []slog.Attr{
		slog.String("host", cfg.Host),
		slog.String("port", cfg.Port),
		slog.String("db", cfg.Name),
	}
	start := time.Now()
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err == nil {
		err = waitReady(ctx, db, readyTimeout, readyEvery)
		if err != nil {
			_ = db.Close()
		}
	}
	if err != nil {
		logger.LogEvent(ctx, logger.DB, slog.LevelError, "db.connect",
			append(attrs,
				slog.String("status", "fail"),
				slog.Duration("duration", logger.Took(start)),
				slog.String("err", err.Error()),
			)...)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)
	db.SetConnMaxIdleTime(5 * time.Minute)

	logger.LogEvent(ctx, logger.DB, slog.LevelInfo, "db.connect",
		append(attrs,
			slog.String("status", "ok"),
			slog.Int("pool_open", cfg.MaxConnections),
			slog.Duration("duration", logger.Took(start)),
		)...)
	return db, nil
}

// waitReady pings until the server answers, timeout elapses or ctx ends.
func waitReady(ctx context.Context, db pinger, timeout, every time.Duration) error {
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		pctx, cancel := context.WithTimeout(ctx, every)
		err := db.PingContext(pctx)
		cancel()
		if err == nil {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("database not ready after %d attempts: %w", attempt, err)
		}
		logger.LogEvent(ctx, logger.DB, slog.LevelDebug, "db.wait",
			slog.String("status", "retry"),
			slog.Int("attempts", attempt),
			slog.String("err", err.Error()),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(every):
		}
	}
}
