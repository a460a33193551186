package api

import (
	"net"
	"net/url"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/net/idna"
)

// RouterConfig holds the HTTP-surface settings of the gateway.
type RouterConfig struct {
	AllowOrigins []string
	Logger       *zap.Logger
}

// NewRouter builds the gin engine with recovery, request ids, access logging,
// metrics and CORS, and mounts h. CORS is off unless AllowOrigins is set.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(logger), Instrument())

	if c, ok := corsConfig(cfg.AllowOrigins); ok {
		r.Use(cors.New(c))
	}

	h.Register(r)
	return r
}

// corsConfig builds the CORS policy. No origins means same-origin only. A lone
// "*" allows any origin without credentials; an explicit list also allows
// credentials.
func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		c.AllowAllOrigins = true
		return c, true
	}
	c.AllowCredentials = true
	for _, o := range origins {
		c.AllowOrigins = append(c.AllowOrigins, asciiOrigin(o))
	}
	return c, true
}

// asciiOrigin rewrites an internationalised host to the punycode form browsers
// send in the Origin header. Anything unparsable is returned unchanged.
func asciiOrigin(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	host, err := idna.Lookup.ToASCII(u.Hostname())
	if err != nil {
		return origin
	}
	if port := u.Port(); port != "" {
		host = net.JoinHostPort(host, port)
	}
	return u.Scheme + "://" + host
}
