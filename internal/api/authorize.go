package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourorg/media-gateway/internal/auth"
)

// requireAdmin runs credential extraction, delegated validation, claim
// decoding and the admin check, in that order. On failure the response is
// written and ok is false; no storage or queue call has happened yet.
func (h *Handler) requireAdmin(c *gin.Context) (claim auth.Claim, ok bool) {
	if _, present := c.Request.Header["Authorization"]; !present {
		h.fail(c, auth.MissingCredential, http.StatusUnauthorized, "Unauthorized", nil)
		return nil, false
	}
	raw, err := h.auth.Validate(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		h.failAuth(c, err)
		return nil, false
	}
	claim, err = auth.Authorize(raw)
	if err != nil {
		h.failAuth(c, err)
		return nil, false
	}
	c.Set(claimKey, claim)
	return claim, true
}

const claimKey = "gateway.claim"
