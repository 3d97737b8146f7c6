package handler

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/metrics"
	"github.com/ErlanBelekov/classroom/internal/result"
	"github.com/ErlanBelekov/classroom/internal/transport/http/middleware"
	"github.com/ErlanBelekov/classroom/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
type authUsecaser interface {
	Login(ctx context.Context, input any) (result.Result[string, domain.FieldErrors], error)
	TokenTTL() time.Duration
}

// CookieConfig controls the session cookie set on login.
type CookieConfig struct {
	Domain string
	Secure bool
}

type AuthHandler struct {
	authUsecase authUsecaser
	bus         ErrorPublisher
	cookie      CookieConfig
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, bus ErrorPublisher, cookie CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		bus:         bus,
		cookie:      cookie,
		logger:      logger.With("component", "auth_handler"),
	}
}

// POST /auth/login
// Returns {"token": "<jwt>"} and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	r, err := h.authUsecase.Login(c.Request.Context(), body(c))
	if retry, ok := usecase.IsRateLimited(err); ok {
		metrics.LoginAttemptsTotal.WithLabelValues("rate_limited").Inc()
		h.logger.WarnContext(c.Request.Context(), "login throttled", "client_ip", c.ClientIP(), "retry_after", retry)
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
		c.JSON(http.StatusTooManyRequests, gin.H{"message": errTooManyLogins})
		return
	}
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		internal(c, h.bus, err)
		return
	}
	if r.IsErr() {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		invalid(c, "login", r.Error())
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("ok").Inc()
	token := r.Value()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.authUsecase.TokenTTL().Seconds()), "/", h.cookie.Domain, h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
	c.Status(http.StatusNoContent)
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": errUnauthorized, "error": domain.TokenInvalid.String()})
		return
	}
	c.JSON(http.StatusOK, user)
}
