package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/classroom/internal/transport/http/handler"
	"github.com/ErlanBelekov/classroom/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Users   *handler.UserHandler
	Classes *handler.ClassHandler
	Reports *handler.ReportHandler
}

type RouterConfig struct {
	Authenticator middleware.Authenticator
	// Users backs EnsureUser; nil skips the per-request account check.
	Users middleware.UserGetter
	HSTS  bool
}

func NewRouter(logger *slog.Logger, h Handlers, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security(cfg.HSTS))
	r.Use(sloggin.NewWithFilters(logger, sloggin.IgnorePath("/ping")))
	r.Use(middleware.Metrics())

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	protected := []gin.HandlerFunc{middleware.Auth(cfg.Authenticator)}
	if cfg.Users != nil {
		protected = append(protected, middleware.EnsureUser(cfg.Users, logger))
	}

	r.POST("/auth/login", h.Auth.Login)
	r.POST("/auth/logout", h.Auth.Logout)
	session := r.Group("/auth", protected...)
	session.GET("/me", h.Auth.Me)

	// Registration is public; reading users is not.
	r.POST("/users", h.Users.Create)
	users := r.Group("/users", protected...)
	users.GET("", h.Users.List)
	users.GET("/:id", h.Users.GetByID)

	classes := r.Group("/classes", protected...)
	classes.POST("", h.Classes.Create)
	classes.GET("", h.Classes.List)
	classes.GET("/:id", h.Classes.GetByID)

	reports := r.Group("/reports", protected...)
	reports.POST("", h.Reports.Grade)

	return r
}
