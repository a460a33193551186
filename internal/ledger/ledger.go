package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Orphan is an artifact that was stored but whose upload event was never
// published. Nothing consumes it automatically; operators replay or delete.
type Orphan struct {
	ArtifactID string    `json:"artifact_id"`
	Filename   string    `json:"filename,omitempty"`
	Username   string    `json:"username,omitempty"`
	Error      string    `json:"error"`
	At         time.Time `json:"at"`
}

// Ledger records orphaned artifacts.
type Ledger interface {
	Record(ctx context.Context, o Orphan) error
}

// Nop discards records.
type Nop struct{}

func (Nop) Record(context.Context, Orphan) error { return nil }

const (
	keyPrefix     = "orphan/"
	// Fixed width so keys sort lexically in time order.
	keyTimeFormat = "2006-01-02T15:04:05.000000000Z"
)

// BadgerLedger persists orphans in a local badger database.
type BadgerLedger struct {
	db *badger.DB
}

// Open opens (or creates) the ledger at dir. An empty dir opens an in-memory
// ledger.
func Open(dir string) (*BadgerLedger, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open ledger %q: %w", dir, err)
	}
	return &BadgerLedger{db: db}, nil
}

func key(o Orphan) []byte {
	return []byte(keyPrefix + o.At.UTC().Format(keyTimeFormat) + "/" + o.ArtifactID)
}

func (l *BadgerLedger) Record(ctx context.Context, o Orphan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o.At.IsZero() {
		o.At = time.Now()
	}
	o.At = o.At.UTC()
	val, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(o), val)
	})
}

// List returns every recorded orphan, oldest first.
func (l *BadgerLedger) List(ctx context.Context) ([]Orphan, error) {
	var out []Orphan
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var o Orphan
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &o)
			})
			if err != nil {
				return err
			}
			out = append(out, o)
		}
		return nil
	})
	return out, err
}

// Delete removes an orphan once it has been handled.
func (l *BadgerLedger) Delete(o Orphan) error {
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(o))
	})
}

func (l *BadgerLedger) Close() error {
	return l.db.Close()
}
