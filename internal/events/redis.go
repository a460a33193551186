package events

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis Streams publisher.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

// RedisPublisher appends events to a Redis stream; consumer groups on the
// stream give workers at-least-once delivery.
type RedisPublisher struct {
	client redis.UniversalClient
	stream string
}

func NewRedisPublisher(client redis.UniversalClient, stream string) *RedisPublisher {
	return &RedisPublisher{client: client, stream: stream}
}

// DialRedis connects and pings before returning.
func DialRedis(ctx context.Context, cfg RedisConfig) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.Addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		MaxRetries: -1, // publish failures surface immediately
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return NewRedisPublisher(client, cfg.Stream), nil
}

func (p *RedisPublisher) Publish(ctx context.Context, e UploadEvent) error {
	payload, err := e.Marshal()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{"video_fid": e.VideoFID, "event": payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
