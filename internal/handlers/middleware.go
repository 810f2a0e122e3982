package handlers

import (
	"net/http"
	"strings"
	"time"

	"blog_api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserID    = "userId"
	ctxIdentity  = "identity"
	ctxRequestID = "requestId"

	requestIDHeader = "X-Request-ID"
)

// userIdentity resolves the bearer token to a user and stores its identity in the context.
func (h *Handler) userIdentity(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	user, err := h.services.Authenticate(c.Request.Context(), parts[1])
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_token_rejected", "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(ctxUserID, user.ID)
	c.Set(ctxIdentity, models.Identity(user))
	c.Next()
}

// currentIdentity returns the authenticated principal set by userIdentity.
func currentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return nil, false
	}
	id, ok := v.(models.Identity)
	if !ok || !id.IsAuthenticated() {
		return nil, false
	}
	return id, true
}

// mustIdentity aborts with 401 when no identity is present.
func mustIdentity(c *gin.Context) (models.Identity, bool) {
	id, ok := currentIdentity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	}
	return id, ok
}

// requestLogger tags each request with an ID and logs its outcome.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	rid := c.GetHeader(requestIDHeader)
	if rid == "" {
		rid = uuid.NewString()
	}
	c.Set(ctxRequestID, rid)
	c.Header(requestIDHeader, rid)

	c.Next()

	if h.log != nil {
		h.log.Infow("http_request",
			"request_id", rid,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
