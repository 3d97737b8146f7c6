package middleware

import (
	"net/http"
	"strings"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/metrics"
	"github.com/ErlanBelekov/classroom/internal/result"
	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie carries the signed token for browser clients.
	SessionCookie = "session"

	userKey = "user"

	errUnauthorized = "Unauthorized"
)

var tokenMessages = map[domain.TokenError]string{
	domain.TokenExpired: "Session expired, log in again",
	domain.TokenInvalid: "Token is invalid",
	domain.TokenUnknown: "Token could not be verified",
}

// Authenticator verifies a raw token and returns the user it was issued for.
type Authenticator interface {
	Authenticate(raw string) result.Result[domain.PublicUser, domain.TokenError]
}

// Auth accepts a Bearer token or the session cookie, in that order, and
// stores the token's public user in the gin context.
func Auth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c.GetHeader("Authorization"))
		if raw == "" {
			raw, _ = c.Cookie(SessionCookie)
		}
		if raw == "" {
			metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": errUnauthorized,
				"error":   domain.TokenInvalid.String(),
			})
			return
		}

		r := a.Authenticate(raw)
		if r.IsErr() {
			kind := r.Error()
			metrics.TokenVerificationsTotal.WithLabelValues(kind.String()).Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": tokenMessages[kind],
				"error":   kind.String(),
			})
			return
		}

		metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
		SetUser(c, r.Value())
		c.Next()
	}
}

// SetUser stores the authenticated user for later handlers.
func SetUser(c *gin.Context, u domain.PublicUser) {
	c.Set(userKey, u)
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(c *gin.Context) (domain.PublicUser, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return domain.PublicUser{}, false
	}
	u, ok := v.(domain.PublicUser)
	return u, ok
}

func bearer(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
