package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"equiptrack/internal/metrics"
	"equiptrack/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the cookie browser clients carry the session token in.
// API clients send the same token as a Bearer Authorization header instead.
const SessionCookie = "equiptrack_token"

// identityKey is the gin context key the authenticated identity is stored under.
const identityKey = "identity"

func (h *Handler) identityMiddleware(c *gin.Context) {
	token, err := sessionToken(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": err.Error(),
		})
		return
	}

	ident, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(identityKey, *ident)
	c.Next()
}

// sessionToken extracts the session token from the Authorization header,
// falling back to the cookie set at sign-in. A malformed header is rejected
// outright rather than silently ignored.
func sessionToken(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", errors.New("invalid Authorization header format")
		}
		return parts[1], nil
	}
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token, nil
	}
	return "", errors.New("missing credentials")
}

// identityFrom returns the identity stored by identityMiddleware, aborting
// with 401 when it is absent.
func (h *Handler) identityFrom(c *gin.Context) (service.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return service.Identity{}, false
	}
	ident, ok := v.(service.Identity)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return service.Identity{}, false
	}
	return ident, true
}

// equipmentWriteAccess blocks scheduling-only accounts from mutating routes.
func (h *Handler) equipmentWriteAccess(c *gin.Context) {
	ident, ok := h.identityFrom(c)
	if !ok {
		return
	}
	if !ident.Role.CanManageEquipment() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "scheduling accounts cannot change equipment",
		})
		return
	}
	c.Next()
}

// adminAccess restricts a group to administrator accounts.
func (h *Handler) adminAccess(c *gin.Context) {
	ident, ok := h.identityFrom(c)
	if !ok {
		return
	}
	if !ident.Role.CanManageUsers() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "administrator access required",
		})
		return
	}
	c.Next()
}

// observeRequests records the request duration histogram, labeled by the
// matched route template so path parameters don't explode cardinality.
func (h *Handler) observeRequests(c *gin.Context) {
	start := time.Now()
	c.Next()

	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	metrics.RequestDuration.
		WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
		Observe(time.Since(start).Seconds())
}
