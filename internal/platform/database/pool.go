// Package database owns the Postgres connection pool of the record store and
// its goose migrations.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Config holds database connection configuration.
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// ConnectAttempts is how many pings Open tries before giving up, so the
	// server can start alongside a database that is still booting.
	ConnectAttempts int
	RetryDelay      time.Duration
	PingTimeout     time.Duration
}

// DefaultConfig returns the pool settings used by the server.
func DefaultConfig(url string) Config {
	return Config{
		URL:             url,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnectAttempts: 5,
		RetryDelay:      time.Second,
		PingTimeout:     5 * time.Second,
	}
}

// Pool wraps the record store's *sql.DB.
type Pool struct {
	db *sql.DB
}

// Open connects to Postgres through the pgx stdlib driver and waits until it
// answers a ping.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Pool, error) {
	if cfg.URL == "" {
		return nil, errors.New("database url not configured")
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := waitForPing(ctx, db, cfg, logger); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, err
	}
	return &Pool{db: db}, nil
}

func waitForPing(ctx context.Context, db *sql.DB, cfg Config, logger *slog.Logger) error {
	attempts := max(cfg.ConnectAttempts, 1)
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		logger.WarnContext(ctx, "database not reachable yet",
			"attempt", attempt,
			"of", attempts,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("ping database: %w", ctx.Err())
		case <-time.After(cfg.RetryDelay):
		}
	}
	return fmt.Errorf("ping database after %d attempts: %w", attempts, err)
}

// DB returns the underlying *sql.DB for the stores.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// RegisterMetrics exports the pool's connection statistics on reg.
func (p *Pool) RegisterMetrics(reg prometheus.Registerer) error {
	return reg.Register(collectors.NewDBStatsCollector(p.db, "records"))
}

// Health checks if the database is reachable.
func (p *Pool) Health(ctx context.Context) error {
	if p == nil || p.db == nil {
		return errors.New("database not configured")
	}
	return p.db.PingContext(ctx)
}

// Close closes the database connection pool.
func (p *Pool) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
