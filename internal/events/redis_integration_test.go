package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"
)

func redisAddr() string {
	if addr := os.Getenv("REDIS_TEST_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func TestRedisPublisherAppendsToStream(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stream := "media-gateway-test-" + time.Now().Format("150405.000000")
	p, err := DialRedis(ctx, RedisConfig{Addr: redisAddr(), Stream: stream})
	if err != nil {
		t.Skipf("skipping integration test; cannot connect to redis: %v", err)
	}
	defer p.Close()
	defer p.client.Del(context.Background(), stream)

	if err := p.Publish(ctx, UploadEvent{VideoFID: "fid-r", Username: "ada"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	msgs, err := p.client.XRange(ctx, stream, "-", "+").Result()
	if err != nil {
		t.Fatalf("xrange: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages", len(msgs))
	}
	raw, _ := msgs[0].Values["event"].(string)
	var e UploadEvent
	if err := json.Unmarshal([]byte(raw), &e); err != nil || e.VideoFID != "fid-r" {
		t.Fatalf("event %q err %v", raw, err)
	}
}
