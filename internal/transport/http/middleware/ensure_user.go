package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/gin-gonic/gin"
)

// UserGetter reloads a user by ID.
type UserGetter interface {
	GetUser(ctx context.Context, id string) (domain.PublicUser, error)
}

// EnsureUser runs after Auth. It reloads the token's user so a deleted
// account stops working before its token expires, and replaces the token
// snapshot with the stored record.
func EnsureUser(users UserGetter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimed, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": errUnauthorized,
				"error":   domain.TokenInvalid.String(),
			})
			return
		}

		user, err := users.GetUser(c.Request.Context(), claimed.ID)
		if errors.Is(err, domain.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": errUnauthorized,
				"error":   domain.TokenInvalid.String(),
			})
			return
		}
		if err != nil {
			logger.ErrorContext(c.Request.Context(), "ensure user", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"message": "Internal server error"})
			return
		}

		SetUser(c, user)
		c.Next()
	}
}
