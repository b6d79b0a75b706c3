package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Options tunes the connection pool.
type Options struct {
	URL       string
	MaxConns  int32
	PingTO    time.Duration
	IdleTO    time.Duration
	HealthGap time.Duration
}

// Open connects a pool and pings it once so a bad URL fails at startup.
func Open(ctx context.Context, opt Options) (*pgxpool.Pool, error) {
	if opt.URL == "" {
		return nil, fmt.Errorf("database url is required")
	}
	cfg, err := pgxpool.ParseConfig(opt.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opt.MaxConns > 0 {
		cfg.MaxConns = opt.MaxConns
	}
	if opt.IdleTO == 0 {
		opt.IdleTO = 5 * time.Minute
	}
	if opt.HealthGap == 0 {
		opt.HealthGap = 30 * time.Second
	}
	if opt.PingTO == 0 {
		opt.PingTO = 3 * time.Second
	}
	cfg.MaxConnIdleTime = opt.IdleTO
	cfg.HealthCheckPeriod = opt.HealthGap

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, opt.PingTO)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return pool, nil
}
