package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationName = "media-gateway"

// Pool is the gateway's handle on Postgres. Publishes from concurrent uploads
// share it.
type Pool struct {
	*pgxpool.Pool
}

// Connect opens a pool sized by cfg.MaxConns and pings it, so a bad DSN fails
// at startup rather than on the first upload.
func Connect(ctx context.Context, cfg Config) (*Pool, error) {
	conf, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	conf.MaxConns = max(cfg.MaxConns, 1)
	conf.MaxConnLifetime = 55 * time.Minute
	conf.MaxConnIdleTime = 10 * time.Minute
	conf.HealthCheckPeriod = 30 * time.Second
	if _, ok := conf.ConnConfig.RuntimeParams["application_name"]; !ok {
		conf.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	p, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, err
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping %s:%d: %w", conf.ConnConfig.Host, conf.ConnConfig.Port, err)
	}
	return &Pool{Pool: p}, nil
}

// Close is safe on a nil or unopened pool.
func (p *Pool) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
