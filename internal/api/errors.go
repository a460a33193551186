package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/media-gateway/internal/auth"
	gwmetrics "github.com/yourorg/media-gateway/internal/metrics"
)

// Failure kinds raised by the handlers themselves; authentication kinds come
// from the auth package.
const (
	MissingFile     auth.Kind = "MissingFile"
	MissingID       auth.Kind = "MissingId"
	NotFound        auth.Kind = "NotFound"
	StoreWriteError auth.Kind = "StoreWriteError"
	StoreReadError  auth.Kind = "StoreReadError"
	PublishError    auth.Kind = "PublishError"
)

const internalError = "internal server error"

// fail aborts the request with {"error": msg}. For 5xx responses the cause is
// logged and never echoed to the caller.
func (h *Handler) fail(c *gin.Context, kind auth.Kind, status int, msg string, cause error) {
	gwmetrics.Failures.WithLabelValues(string(kind)).Inc()
	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.Int("status", status),
		zap.String("route", c.FullPath()),
		zap.String("requestId", requestID(c)),
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", fields...)
	} else {
		h.log.Info("request rejected", fields...)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// failAuth maps an auth.Failure onto the response. Upstream rejections keep the
// upstream status and body.
func (h *Handler) failAuth(c *gin.Context, err error) {
	f, ok := auth.AsFailure(err)
	if !ok {
		h.fail(c, auth.AuthUnavailable, http.StatusBadGateway, "authentication service unavailable", err)
		return
	}
	msg := f.Message
	if f.Kind == auth.ConfigurationError {
		// Deployment detail; keep it in the log only.
		msg = internalError
	}
	h.fail(c, f.Kind, f.Status, msg, errors.New(f.Error()))
}
