package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yourorg/media-gateway/internal/config"
	"github.com/yourorg/media-gateway/internal/db"
)

// New connects the publisher selected by cfg.EventBackend.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (Publisher, error) {
	switch cfg.EventBackend {
	case config.BackendTemporal:
		p, err := DialTemporal(cfg.TemporalAddress, cfg.TemporalNamespace, cfg.EventQueue, cfg.TemporalWorkflow)
		if err != nil {
			return nil, err
		}
		logger.Info("event publisher ready", zap.String("backend", cfg.EventBackend),
			zap.String("taskQueue", cfg.EventQueue), zap.String("workflow", cfg.TemporalWorkflow))
		return p, nil
	case config.BackendRedis:
		p, err := DialRedis(ctx, RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB, Stream: cfg.EventQueue})
		if err != nil {
			return nil, err
		}
		logger.Info("event publisher ready", zap.String("backend", cfg.EventBackend), zap.String("stream", cfg.EventQueue))
		return p, nil
	case config.BackendPostgres:
		p, err := DialPostgres(ctx, db.FromEnv(), cfg.EventQueue)
		if err != nil {
			return nil, err
		}
		logger.Info("event publisher ready", zap.String("backend", cfg.EventBackend), zap.String("queue", cfg.EventQueue))
		return p, nil
	default:
		return nil, fmt.Errorf("unknown event backend %q", cfg.EventBackend)
	}
}
