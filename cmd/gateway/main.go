package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yourorg/media-gateway/internal/api"
	"github.com/yourorg/media-gateway/internal/auth"
	"github.com/yourorg/media-gateway/internal/config"
	"github.com/yourorg/media-gateway/internal/events"
	"github.com/yourorg/media-gateway/internal/ledger"
	"github.com/yourorg/media-gateway/internal/logging"
	gwmetrics "github.com/yourorg/media-gateway/internal/metrics"
	"github.com/yourorg/media-gateway/internal/storage"
)

func main() {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl := logging.New(cfg.LogLevel)
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("gateway stopped", zap.Error(err))
	}
}

func run(cfg config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gwmetrics.Init()

	s3c, err := storage.NewS3Client(ctx)
	if err != nil {
		return err
	}
	videos := storage.NewS3Store(s3c, cfg.VideosBucket, cfg.VideosPrefix)
	audio := storage.NewS3Store(s3c, cfg.AudioBucket, cfg.AudioPrefix)

	publisher, err := events.New(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer publisher.Close()

	var orphans ledger.Ledger = ledger.Nop{}
	if cfg.OrphanLedgerDir != "" {
		bl, err := ledger.Open(cfg.OrphanLedgerDir)
		if err != nil {
			return err
		}
		defer bl.Close()
		orphans = bl
	}

	if cfg.AuthServiceAddress == "" {
		zl.Warn("AUTH_SERVICE_ADDRESS not set; every authenticated request will fail")
	}
	authClient := auth.NewClient(auth.Config{
		Address: cfg.AuthServiceAddress,
		Timeout: cfg.AuthTimeout,
		Logger:  zl.Named("auth"),
	})

	gin.SetMode(gin.ReleaseMode)
	h := api.NewHandler(api.Options{
		Auth:           authClient,
		Videos:         videos,
		Audio:          audio,
		Publisher:      publisher,
		Ledger:         orphans,
		Logger:         zl,
		PublishTimeout: cfg.PublishTimeout,
	})
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewRouter(h, api.RouterConfig{AllowOrigins: cfg.CORSAllowOrigins, Logger: zl}),
	}
	metricsSrv := gwmetrics.NewServer(cfg.MetricsAddr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("gateway listening", zap.String("addr", srv.Addr), zap.String("eventBackend", cfg.EventBackend))
		return serve(srv)
	})
	g.Go(func() error {
		zl.Info("metrics listening", zap.String("addr", metricsSrv.Addr))
		return serve(metricsSrv)
	})
	g.Go(func() error {
		<-gctx.Done()
		zl.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return errors.Join(srv.Shutdown(sctx), metricsSrv.Shutdown(sctx))
	})
	return g.Wait()
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
