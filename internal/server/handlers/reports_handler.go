package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autoflex/inventory/internal/service/reporting"
)

// ReportsHandler serves persisted production reports.
type ReportsHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

// NewReportsHandler constructs the HTTP handler adapter.
func NewReportsHandler(svc *reporting.Service, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{svc: svc, logger: logger}
}

// Latest returns the most recent persisted report.
func (h *ReportsHandler) Latest(c *gin.Context) {
	report, err := h.svc.LatestReport(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Generate runs a report on demand, outside the scheduled window.
func (h *ReportsHandler) Generate(c *gin.Context) {
	report, err := h.svc.GenerateDaily(c.Request.Context(), time.Now())
	if err != nil {
		h.logger.Error("on-demand report failed", zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}
