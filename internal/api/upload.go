package api

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/media-gateway/internal/events"
	"github.com/yourorg/media-gateway/internal/ledger"
	gwmetrics "github.com/yourorg/media-gateway/internal/metrics"
)

const (
	fileField           = "file"
	orphanRecordTimeout = 2 * time.Second
)

const (
	msgNoFilePart     = "No file part"
	msgNoSelectedFile = "No selected file"
)

// Upload authenticates an admin caller, streams the multipart "file" part into
// the video store and announces the new artifact. The event is published only
// after the store write has committed.
func (h *Handler) Upload(c *gin.Context) {
	claim, ok := h.requireAdmin(c)
	if !ok {
		return
	}

	part, reason := filePart(c.Request)
	if part == nil {
		h.fail(c, MissingFile, http.StatusBadRequest, reason, nil)
		return
	}
	defer part.Close()
	filename := part.FileName()

	// A short or aborted body fails the read inside Put, so the store never
	// commits it.
	body := &countingReader{r: part}
	fid, err := h.videos.Put(c.Request.Context(), body, filename)
	if err != nil {
		h.fail(c, StoreWriteError, http.StatusInternalServerError, internalError, err)
		return
	}
	gwmetrics.UploadBytes.Add(float64(body.n))

	// The write is durable now; finish the publish even if the client goes away.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.publishTimeout)
	defer cancel()
	if err := h.publisher.Publish(ctx, events.NewUploadEvent(fid, filename, claim)); err != nil {
		h.recordOrphan(c.Request.Context(), fid, filename, claim.Username(), err)
		h.fail(c, PublishError, http.StatusInternalServerError, internalError, err)
		return
	}

	gwmetrics.Uploads.Inc()
	h.log.Info("upload stored",
		zap.String("fid", fid),
		zap.String("filename", filename),
		zap.String("username", claim.Username()),
		zap.Int64("bytes", body.n),
		zap.String("requestId", requestID(c)),
	)
	c.JSON(http.StatusOK, gin.H{"message": "File uploaded successfully", "fid": fid})
}

// recordOrphan runs on its own deadline; the publish context is usually the
// one that just expired.
func (h *Handler) recordOrphan(reqCtx context.Context, fid, filename, username string, cause error) {
	gwmetrics.OrphanedArtifacts.Inc()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(reqCtx), orphanRecordTimeout)
	defer cancel()
	o := ledger.Orphan{ArtifactID: fid, Filename: filename, Username: username, Error: cause.Error()}
	if err := h.ledger.Record(ctx, o); err != nil {
		h.log.Error("orphan ledger write failed", zap.String("fid", fid), zap.Error(err))
	}
}

// filePart advances the multipart stream to the "file" part without buffering
// earlier parts. When no usable part exists it returns nil and the reason.
func filePart(r *http.Request) (*multipart.Part, string) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, msgNoFilePart
	}
	for {
		part, err := mr.NextPart()
		if err != nil {
			return nil, msgNoFilePart
		}
		if part.FormName() != fileField {
			part.Close()
			continue
		}
		if part.FileName() == "" {
			part.Close()
			return nil, msgNoSelectedFile
		}
		return part, ""
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
