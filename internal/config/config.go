package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Event backends understood by events.New.
const (
	BackendTemporal = "temporal"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds everything the gateway needs at process start.
type Config struct {
	Port             string
	MetricsAddr      string
	LogLevel         string
	ShutdownTimeout  time.Duration
	// CORSAllowOrigins is empty by default, which disables cross-origin access.
	CORSAllowOrigins []string

	// AuthServiceAddress may be empty; the validator reports that per request.
	AuthServiceAddress string
	AuthTimeout        time.Duration

	// PublishTimeout bounds the event publish that follows a committed upload.
	PublishTimeout time.Duration

	VideosBucket string
	VideosPrefix string
	AudioBucket  string
	AudioPrefix  string

	EventBackend string
	EventQueue   string

	TemporalAddress   string
	TemporalNamespace string
	TemporalWorkflow  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// OrphanLedgerDir enables the badger orphan ledger when set.
	OrphanLedgerDir string
}

// FromEnv loads configuration from environment variables.
func FromEnv() Config {
	return Config{
		Port:             getEnv("PORT", "8080"),
		MetricsAddr:      getEnv("METRICS_ADDR", ":9090"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		CORSAllowOrigins: splitList(os.Getenv("CORS_ALLOW_ORIGINS")),

		AuthServiceAddress: strings.TrimSpace(os.Getenv("AUTH_SERVICE_ADDRESS")),
		AuthTimeout:        getEnvDuration("AUTH_TIMEOUT", 5*time.Second),
		PublishTimeout:     getEnvDuration("PUBLISH_TIMEOUT", 10*time.Second),

		VideosBucket: getEnv("VIDEOS_BUCKET", "videos"),
		VideosPrefix: os.Getenv("VIDEOS_PREFIX"),
		AudioBucket:  getEnv("AUDIO_BUCKET", "mp3s"),
		AudioPrefix:  os.Getenv("AUDIO_PREFIX"),

		EventBackend: strings.ToLower(getEnv("EVENT_BACKEND", BackendTemporal)),
		EventQueue:   getEnv("EVENT_QUEUE", "video"),

		// Support both TEMPORAL_TARGET_HOST and TEMPORAL_ADDRESS for compatibility
		TemporalAddress:   getEnv("TEMPORAL_TARGET_HOST", getEnv("TEMPORAL_ADDRESS", "localhost:7233")),
		TemporalNamespace: getEnv("TEMPORAL_NAMESPACE", "default"),
		TemporalWorkflow:  getEnv("TEMPORAL_WORKFLOW", "ConvertVideoWorkflow"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		OrphanLedgerDir: os.Getenv("ORPHAN_LEDGER_DIR"),
	}
}

// Validate rejects configurations the process cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.EventBackend {
	case BackendTemporal, BackendRedis, BackendPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown EVENT_BACKEND %q", c.EventBackend))
	}
	if c.VideosBucket == "" {
		errs = append(errs, errors.New("VIDEOS_BUCKET is required"))
	}
	if c.AudioBucket == "" {
		errs = append(errs, errors.New("AUDIO_BUCKET is required"))
	}
	if c.EventQueue == "" {
		errs = append(errs, errors.New("EVENT_QUEUE is required"))
	}
	if c.AuthTimeout <= 0 {
		errs = append(errs, errors.New("AUTH_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		_, _ = fmt.Sscanf(v, "%d", &n)
		if n != 0 {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
