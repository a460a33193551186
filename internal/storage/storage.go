package storage

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates no artifact exists under the id.
	ErrNotFound = errors.New("artifact not found")
	// ErrInvalidID indicates the id is not in the store's native form.
	ErrInvalidID = errors.New("invalid artifact id")
)

// Object is an artifact opened for reading. The caller must close Body.
type Object struct {
	Body        io.ReadCloser
	Size        int64 // -1 when unknown
	Filename    string
	ContentType string
}

// ArtifactStore is a content store addressed by store-issued ids.
type ArtifactStore interface {
	// Put streams body into the store and returns the new artifact id. On
	// error nothing is addressable under any id.
	Put(ctx context.Context, body io.Reader, filename string) (string, error)
	// Get opens the artifact stored under id.
	Get(ctx context.Context, id string) (*Object, error)
}

// NewID issues a fresh artifact id.
func NewID() string {
	return uuid.NewString()
}

// ParseID validates id and returns its canonical form.
func ParseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidID
	}
	return u.String(), nil
}
