package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	gwmetrics "github.com/yourorg/media-gateway/internal/metrics"
	"github.com/yourorg/media-gateway/internal/storage"
)

const defaultAudioType = "audio/mpeg"

// Download authenticates an admin caller and streams the audio artifact named
// by the fid query parameter.
func (h *Handler) Download(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	fid := strings.TrimSpace(c.Query("fid"))
	if fid == "" {
		h.fail(c, MissingID, http.StatusBadRequest, "fid is required", nil)
		return
	}

	obj, err := h.audio.Get(c.Request.Context(), fid)
	switch {
	case errors.Is(err, storage.ErrInvalidID), errors.Is(err, storage.ErrNotFound):
		h.fail(c, NotFound, http.StatusNotFound, "not found", err)
		return
	case err != nil:
		h.fail(c, StoreReadError, http.StatusInternalServerError, internalError, err)
		return
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if !strings.HasPrefix(contentType, "audio/") {
		contentType = defaultAudioType
	}
	gwmetrics.Downloads.Inc()
	h.log.Debug("download started", zap.String("fid", fid), zap.Int64("size", obj.Size), zap.String("requestId", requestID(c)))
	c.DataFromReader(http.StatusOK, obj.Size, contentType, obj.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s.mp3"`, fid),
	})
}
