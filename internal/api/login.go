package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourorg/media-gateway/internal/auth"
)

// Login forwards basic-auth credentials to the authentication service and
// returns the issued token.
func (h *Handler) Login(c *gin.Context) {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		h.fail(c, auth.MissingCredential, http.StatusUnauthorized, "missing credentials", nil)
		return
	}
	token, err := h.auth.Login(c.Request.Context(), username, password)
	if err != nil {
		f, ok := auth.AsFailure(err)
		switch {
		case ok && (f.Kind == auth.ConfigurationError || f.Kind == auth.AuthUnavailable):
			h.failAuth(c, err)
		case ok && f.Message != "":
			h.fail(c, f.Kind, http.StatusUnauthorized, f.Message, err)
		default:
			h.fail(c, auth.UpstreamAuthRejected, http.StatusUnauthorized, "invalid credentials", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
