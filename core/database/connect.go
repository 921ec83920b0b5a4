package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/m3rciful/profilebot/core/logger"
	"log/slog"
)

// Connect opens the database, configures the pool, and verifies
// connectivity. With a startup timeout configured it first waits for the
// server to accept connections, which covers container orchestration
// bringing the database up alongside the bot.
func Connect(cfg Config) (*sqlx.DB, error) {
	dsn := cfg.DSN()

	if cfg.StartupTimeoutSeconds > 0 {
		wait := time.Duration(cfg.StartupTimeoutSeconds) * time.Second
		if err := WaitReady(dsn, wait); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	took := logger.RoundMS(time.Since(start))
	if err != nil {
		logger.DB.Error("db connect failed",
			slog.String("event", "db.connect"),
			slog.String("host", cfg.Host),
			slog.String("db", cfg.Name),
			slog.Duration("duration", took),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
		db.SetMaxIdleConns(cfg.MaxConnections)
	}

	logger.DB.Info("db connected",
		slog.String("event", "db.connect"),
		slog.String("host", cfg.Host),
		slog.String("db", cfg.Name),
		slog.Int("pool_open", cfg.MaxConnections),
		slog.Duration("duration", took),
	)

	return db, nil
}

// WaitReady pings the database until it answers or the timeout elapses.
func WaitReady(dsn string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			err = db.Ping()
			_ = db.Close()
			if err == nil {
				return nil
			}
		}
		lastErr = err
		if time.Now().After(deadline) {
			return fmt.Errorf("database not ready after %s: %w", timeout, lastErr)
		}
		time.Sleep(2 * time.Second)
	}
}
