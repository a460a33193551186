package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "media_gateway",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "media_gateway",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	Uploads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "media_gateway",
		Name:      "uploads_total",
		Help:      "Uploads stored and announced.",
	})
	UploadBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "media_gateway",
		Name:      "upload_bytes_total",
		Help:      "Bytes written to the artifact store by uploads.",
	})
	Downloads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "media_gateway",
		Name:      "downloads_total",
		Help:      "Artifacts streamed to clients.",
	})
	AuthValidateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "media_gateway",
		Name:      "auth_validate_duration_seconds",
		Help:      "Latency of calls to the authentication service.",
		Buckets:   prometheus.DefBuckets,
	})
	Failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "media_gateway",
		Name:      "failures_total",
		Help:      "Request failures by kind.",
	}, []string{"kind"})
	OrphanedArtifacts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "media_gateway",
		Name:      "orphaned_artifacts_total",
		Help:      "Artifacts stored whose upload event could not be published.",
	})
)

var initOnce sync.Once

// Init registers collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(HTTPRequests, HTTPDuration, Uploads, UploadBytes, Downloads,
			AuthValidateDuration, Failures, OrphanedArtifacts)
	})
}

// Handler returns the /metrics handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// NewServer builds the metrics server for addr (e.g., ":9090").
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return &http.Server{Addr: addr, Handler: mux}
}
