package db

import (
	"context"
	"time"
)

// Event statuses in artifact_event.
const (
	StatusQueued  = "queued"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

const schema = `create table if not exists artifact_event (
    id         bigserial primary key,
    queue      text        not null,
    payload    jsonb       not null,
    status     text        not null default 'queued',
    error      text,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
create index if not exists artifact_event_claim_idx on artifact_event (queue, id) where status = 'queued';`

// QueuedEvent is a row of the artifact_event table.
type QueuedEvent struct {
	ID        int64
	Queue     string
	Payload   []byte
	Status    string
	Error     *string
	CreatedAt time.Time
}

// QueueRepository is a durable point-to-point queue on Postgres. Enqueue is
// used by the gateway; ClaimNext and UpdateStatus by conversion workers.
type QueueRepository interface {
	EnsureSchema(ctx context.Context) error
	Enqueue(ctx context.Context, queue string, payload []byte) (QueuedEvent, error)
	// ClaimNext atomically claims the oldest queued event using SKIP LOCKED; returns ErrNotFound if none.
	ClaimNext(ctx context.Context, queue string) (QueuedEvent, error)
	UpdateStatus(ctx context.Context, id int64, status string, errMsg *string) error
}

func NewQueueRepo(p *Pool) QueueRepository { return &queueRepo{p: p} }

type queueRepo struct{ p *Pool }

func (r *queueRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.p.Exec(ctx, schema)
	return err
}

func (r *queueRepo) Enqueue(ctx context.Context, queue string, payload []byte) (QueuedEvent, error) {
	const q = `insert into artifact_event (queue, payload) values ($1, $2::jsonb)
               returning id, queue, payload, status, error, created_at`
	var e QueuedEvent
	err := r.p.QueryRow(ctx, q, queue, string(payload)).Scan(&e.ID, &e.Queue, &e.Payload, &e.Status, &e.Error, &e.CreatedAt)
	if err != nil {
		return QueuedEvent{}, mapPgErr(err)
	}
	return e, nil
}

func (r *queueRepo) ClaimNext(ctx context.Context, queue string) (QueuedEvent, error) {
	const q = `with cte as (
                  select id from artifact_event where queue = $1 and status = 'queued'
                  order by id asc for update skip locked limit 1
               )
               update artifact_event e set status = 'running', updated_at = now()
               from cte where e.id = cte.id
               returning e.id, e.queue, e.payload, e.status, e.error, e.created_at`
	var e QueuedEvent
	err := r.p.QueryRow(ctx, q, queue).Scan(&e.ID, &e.Queue, &e.Payload, &e.Status, &e.Error, &e.CreatedAt)
	if err != nil {
		return QueuedEvent{}, mapPgErr(err)
	}
	return e, nil
}

func (r *queueRepo) UpdateStatus(ctx context.Context, id int64, status string, errMsg *string) error {
	const q = `update artifact_event set status = $1, error = $2, updated_at = now() where id = $3`
	tag, err := r.p.Exec(ctx, q, status, errMsg, id)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
