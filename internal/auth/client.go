package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	gwmetrics "github.com/yourorg/media-gateway/internal/metrics"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 1 << 20

// Validator turns a raw credential into a serialized claim payload.
type Validator interface {
	Validate(ctx context.Context, credential string) ([]byte, error)
}

// Config configures the authentication service client.
type Config struct {
	// Address is host:port or a full base URL. Empty is allowed and reported
	// on every call as a ConfigurationError.
	Address string
	// Timeout bounds each upstream call. Zero means 5s.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client delegates credential checks to the remote authentication service.
// It keeps no session state and never retries.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	log     *zap.Logger
}

func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL: baseURL(cfg.Address),
		timeout: cfg.Timeout,
		http:    cfg.HTTPClient,
		log:     cfg.Logger,
	}
	if c.timeout <= 0 {
		c.timeout = 5 * time.Second
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

func baseURL(addr string) string {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	if addr == "" {
		return ""
	}
	if strings.Contains(addr, "://") {
		return addr
	}
	return "http://" + addr
}

// Validate forwards credential verbatim to POST /validate. A 200 response body
// is returned as the serialized claim; any other status becomes an
// UpstreamAuthRejected failure carrying that status and body unchanged.
func (c *Client) Validate(ctx context.Context, credential string) ([]byte, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, ErrMissingCredential
	}
	if c.baseURL == "" {
		return nil, ErrNoAuthService
	}
	start := time.Now()
	defer func() { gwmetrics.AuthValidateDuration.Observe(time.Since(start).Seconds()) }()

	return c.post(ctx, "/validate", func(req *http.Request) {
		req.Header.Set("Authorization", credential)
	})
}

// Login exchanges basic-auth credentials for a token at POST /login.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" && password == "" {
		return "", ErrMissingCredential
	}
	if c.baseURL == "" {
		return "", ErrNoAuthService
	}
	body, err := c.post(ctx, "/login", func(req *http.Request) {
		req.SetBasicAuth(username, password)
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) post(ctx context.Context, path string, decorate func(*http.Request)) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return nil, &Failure{Kind: ConfigurationError, Status: http.StatusInternalServerError, Message: "invalid authentication service address"}
	}
	decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("auth service call failed", zap.String("path", path), zap.Error(err))
		return nil, unavailable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.log.Warn("auth service response read failed", zap.String("path", path), zap.Error(err))
		return nil, unavailable(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Failure{Kind: UpstreamAuthRejected, Status: resp.StatusCode, Message: string(body)}
	}
	return body, nil
}

func unavailable(err error) *Failure {
	msg := "authentication service unavailable"
	if errors.Is(err, context.DeadlineExceeded) {
		msg = fmt.Sprintf("%s: timeout", msg)
	}
	return &Failure{Kind: AuthUnavailable, Status: http.StatusBadGateway, Message: msg}
}
