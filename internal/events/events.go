package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yourorg/media-gateway/internal/auth"
)

// UploadEvent announces a stored video to conversion workers.
type UploadEvent struct {
	VideoFID   string     `json:"video_fid"`          // artifact id of the uploaded video
	MP3FID     *string    `json:"mp3_fid"`            // set by the worker once audio exists; always null here
	Username   string     `json:"username"`           // caller identity taken from the claim
	Claim      auth.Claim `json:"claim,omitempty"`    // full claim payload, passed through opaquely
	Filename   string     `json:"filename,omitempty"` // client-supplied filename hint
	UploadedAt time.Time  `json:"uploaded_at"`
}

// NewUploadEvent builds the event for a committed upload.
func NewUploadEvent(videoFID, filename string, claim auth.Claim) UploadEvent {
	return UploadEvent{
		VideoFID:   videoFID,
		Username:   claim.Username(),
		Claim:      claim,
		Filename:   filename,
		UploadedAt: time.Now().UTC(),
	}
}

// Marshal encodes the event as the wire message body.
func (e UploadEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher hands an event to the durable channel. Publish returns once the
// channel has accepted the message; it does not wait for consumers.
type Publisher interface {
	Publish(ctx context.Context, e UploadEvent) error
	Close() error
}
