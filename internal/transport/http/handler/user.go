package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/result"
	"github.com/ErlanBelekov/classroom/internal/usecase"
	"github.com/gin-gonic/gin"
)

type userUsecaser interface {
	AddUser(ctx context.Context, input any) (result.Result[domain.PublicUser, domain.FieldErrors], error)
	GetUser(ctx context.Context, id string) (domain.PublicUser, error)
	ListUsers(ctx context.Context, input any) (result.Result[usecase.UserPage, domain.FieldErrors], error)
}

type UserHandler struct {
	userUsecase userUsecaser
	bus         ErrorPublisher
	logger      *slog.Logger
}

func NewUserHandler(userUsecase userUsecaser, bus ErrorPublisher, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		bus:         bus,
		logger:      logger.With("component", "user_handler"),
	}
}

// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	r, err := h.userUsecase.AddUser(c.Request.Context(), body(c))
	if err != nil {
		internal(c, h.bus, err)
		return
	}
	if r.IsErr() {
		invalid(c, "add_user", r.Error())
		return
	}
	user := r.Value()
	h.logger.InfoContext(c.Request.Context(), "user registered", "user_id", user.ID, "role", user.Role)
	c.JSON(http.StatusCreated, user)
}

// GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.userUsecase.GetUser(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		internal(c, h.bus, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GET /users?page=&per_page=&role=&search=
func (h *UserHandler) List(c *gin.Context) {
	r, err := h.userUsecase.ListUsers(c.Request.Context(), query(c))
	if err != nil {
		internal(c, h.bus, err)
		return
	}
	if r.IsErr() {
		invalid(c, "list_users", r.Error())
		return
	}
	c.JSON(http.StatusOK, r.Value())
}
