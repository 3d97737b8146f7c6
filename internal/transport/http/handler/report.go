package handler

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/result"
	"github.com/gin-gonic/gin"
)

type reportUsecaser interface {
	Grade(input any) (result.Result[domain.Report, domain.FieldErrors], error)
}

type ReportHandler struct {
	reportUsecase reportUsecaser
	bus           ErrorPublisher
	logger        *slog.Logger
}

func NewReportHandler(reportUsecase reportUsecaser, bus ErrorPublisher, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reportUsecase: reportUsecase,
		bus:           bus,
		logger:        logger.With("component", "report_handler"),
	}
}

// POST /reports
// Grades the submitted answers; open questions come back pending.
func (h *ReportHandler) Grade(c *gin.Context) {
	r, err := h.reportUsecase.Grade(body(c))
	if err != nil {
		internal(c, h.bus, err)
		return
	}
	if r.IsErr() {
		invalid(c, "grade", r.Error())
		return
	}
	rep := r.Value()
	h.logger.DebugContext(c.Request.Context(), "report graded", "score", rep.Score, "max_score", rep.MaxScore, "pending", rep.Pending)
	c.JSON(http.StatusOK, rep)
}
