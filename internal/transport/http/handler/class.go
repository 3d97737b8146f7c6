package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/result"
	"github.com/ErlanBelekov/classroom/internal/transport/http/middleware"
	"github.com/ErlanBelekov/classroom/internal/usecase"
	"github.com/gin-gonic/gin"
)

type classUsecaser interface {
	AddClass(ctx context.Context, teacher domain.PublicUser, input any) (result.Result[domain.PublicClass, domain.FieldErrors], error)
	GetClass(ctx context.Context, id string) (domain.PublicClass, error)
	ListClasses(ctx context.Context, input any) (result.Result[usecase.ClassPage, domain.FieldErrors], error)
}

type ClassHandler struct {
	classUsecase classUsecaser
	bus          ErrorPublisher
	logger       *slog.Logger
}

func NewClassHandler(classUsecase classUsecaser, bus ErrorPublisher, logger *slog.Logger) *ClassHandler {
	return &ClassHandler{
		classUsecase: classUsecase,
		bus:          bus,
		logger:       logger.With("component", "class_handler"),
	}
}

// POST /classes
func (h *ClassHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": errUnauthorized, "error": domain.TokenInvalid.String()})
		return
	}

	r, err := h.classUsecase.AddClass(c.Request.Context(), user, body(c))
	if err != nil {
		internal(c, h.bus, err)
		return
	}
	if r.IsErr() {
		invalid(c, "add_class", r.Error())
		return
	}
	class := r.Value()
	h.logger.InfoContext(c.Request.Context(), "class created", "class_id", class.ID, "teacher_id", user.ID)
	c.JSON(http.StatusCreated, class)
}

// GET /classes/:id
func (h *ClassHandler) GetByID(c *gin.Context) {
	class, err := h.classUsecase.GetClass(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		internal(c, h.bus, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

// GET /classes?page=&per_page=&teacher_id=
func (h *ClassHandler) List(c *gin.Context) {
	r, err := h.classUsecase.ListClasses(c.Request.Context(), query(c))
	if err != nil {
		internal(c, h.bus, err)
		return
	}
	if r.IsErr() {
		invalid(c, "list_classes", r.Error())
		return
	}
	c.JSON(http.StatusOK, r.Value())
}
