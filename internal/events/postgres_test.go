package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/yourorg/media-gateway/internal/db"
)

type fakeQueue struct {
	enqueued [][]byte
	queue    string
	err      error
}

func (f *fakeQueue) EnsureSchema(context.Context) error { return nil }

func (f *fakeQueue) Enqueue(_ context.Context, queue string, payload []byte) (db.QueuedEvent, error) {
	if f.err != nil {
		return db.QueuedEvent{}, f.err
	}
	f.queue = queue
	f.enqueued = append(f.enqueued, payload)
	return db.QueuedEvent{ID: int64(len(f.enqueued)), Queue: queue, Payload: payload, Status: db.StatusQueued}, nil
}

func (f *fakeQueue) ClaimNext(context.Context, string) (db.QueuedEvent, error) {
	return db.QueuedEvent{}, db.ErrNotFound
}

func (f *fakeQueue) UpdateStatus(context.Context, int64, string, *string) error { return nil }

func TestPostgresPublisherEnqueuesJSON(t *testing.T) {
	q := &fakeQueue{}
	p := NewPostgresPublisher(q, "video")
	if err := p.Publish(context.Background(), UploadEvent{VideoFID: "fid-9", Username: "ada"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if q.queue != "video" || len(q.enqueued) != 1 {
		t.Fatalf("queue=%q n=%d", q.queue, len(q.enqueued))
	}
	var msg map[string]any
	if err := json.Unmarshal(q.enqueued[0], &msg); err != nil || msg["video_fid"] != "fid-9" {
		t.Fatalf("payload %s err %v", q.enqueued[0], err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close without pool: %v", err)
	}
}

func TestPostgresPublisherWrapsErrors(t *testing.T) {
	q := &fakeQueue{err: errors.New("connection refused")}
	p := NewPostgresPublisher(q, "video")
	if err := p.Publish(context.Background(), UploadEvent{VideoFID: "x"}); err == nil {
		t.Fatalf("expected error")
	}
}
