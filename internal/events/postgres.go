package events

import (
	"context"
	"fmt"

	"github.com/yourorg/media-gateway/internal/db"
)

// PostgresPublisher enqueues events into the artifact_event table.
type PostgresPublisher struct {
	repo  db.QueueRepository
	queue string
	pool  *db.Pool
}

func NewPostgresPublisher(repo db.QueueRepository, queue string) *PostgresPublisher {
	return &PostgresPublisher{repo: repo, queue: queue}
}

// DialPostgres connects, ensures the queue table exists and returns a
// publisher that owns the pool.
func DialPostgres(ctx context.Context, cfg db.Config, queue string) (*PostgresPublisher, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	repo := db.NewQueueRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	p := NewPostgresPublisher(repo, queue)
	p.pool = pool
	return p, nil
}

func (p *PostgresPublisher) Publish(ctx context.Context, e UploadEvent) error {
	payload, err := e.Marshal()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := p.repo.Enqueue(ctx, p.queue, payload); err != nil {
		return fmt.Errorf("enqueue %s: %w", p.queue, err)
	}
	return nil
}

func (p *PostgresPublisher) Close() error {
	p.pool.Close()
	return nil
}
