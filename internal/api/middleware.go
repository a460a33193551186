package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourorg/media-gateway/internal/auth"
	gwmetrics "github.com/yourorg/media-gateway/internal/metrics"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "gateway.requestId"
)

// RequestID propagates X-Request-ID, minting one when absent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// AccessLog writes one structured line per request. Credentials are never logged.
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", routeLabel(c)),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("clientIp", c.ClientIP()),
			zap.String("requestId", requestID(c)),
		}
		if v, ok := c.Get(claimKey); ok {
			if claim, ok := v.(auth.Claim); ok {
				fields = append(fields, zap.String("username", claim.Username()))
			}
		}
		logger.Info("http request", fields...)
	}
}

// Instrument records request counts and latencies per route.
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := routeLabel(c)
		gwmetrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		gwmetrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}
