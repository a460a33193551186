package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/media-gateway/internal/auth"
	"github.com/yourorg/media-gateway/internal/events"
	"github.com/yourorg/media-gateway/internal/ledger"
	"github.com/yourorg/media-gateway/internal/storage"
)

// Authenticator is the delegated authentication service.
type Authenticator interface {
	auth.Validator
	Login(ctx context.Context, username, password string) (string, error)
}

// Options wires a Handler. Every dependency is injected; the handler holds no
// per-request state.
type Options struct {
	Auth      Authenticator
	Videos    storage.ArtifactStore // uploads land here
	Audio     storage.ArtifactStore // downloads are served from here
	Publisher events.Publisher
	Ledger    ledger.Ledger // optional
	Logger    *zap.Logger   // optional
	// PublishTimeout bounds the publish after a committed write. Zero means 10s.
	PublishTimeout time.Duration
}

type Handler struct {
	auth           Authenticator
	videos         storage.ArtifactStore
	audio          storage.ArtifactStore
	publisher      events.Publisher
	ledger         ledger.Ledger
	log            *zap.Logger
	publishTimeout time.Duration
}

func NewHandler(o Options) *Handler {
	h := &Handler{
		auth:           o.Auth,
		videos:         o.Videos,
		audio:          o.Audio,
		publisher:      o.Publisher,
		ledger:         o.Ledger,
		log:            o.Logger,
		publishTimeout: o.PublishTimeout,
	}
	if h.ledger == nil {
		h.ledger = ledger.Nop{}
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.publishTimeout <= 0 {
		h.publishTimeout = 10 * time.Second
	}
	return h
}

// Register mounts the gateway routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/login", h.Login)
	r.POST("/upload", h.Upload)
	r.GET("/download", h.Download)
	r.GET("/healthz", h.Health)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
