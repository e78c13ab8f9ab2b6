package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/hesabdari_ledger/internal/core/ports/services"
	"github.com/SscSPs/hesabdari_ledger/internal/dto"
	"github.com/SscSPs/hesabdari_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type closingCheckHandler struct {
	closingCheckService portssvc.ClosingCheckSvcFacade
}

func registerClosingCheckRoutes(rg *gin.RouterGroup, closingCheckService portssvc.ClosingCheckSvcFacade) {
	h := &closingCheckHandler{closingCheckService: closingCheckService}

	checks := rg.Group("/closing-checks")
	{
		checks.GET("", h.listClosingChecks)
		checks.POST("", h.runClosingChecks)
	}
}

// listClosingChecks godoc
// @Summary List the closing check catalog
// @Tags closing-checks
// @Produce json
// @Success 200 {array} domain.ClosingCheckDefinition
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /closing-checks [get]
func (h *closingCheckHandler) listClosingChecks(c *gin.Context) {
	c.JSON(http.StatusOK, h.closingCheckService.ListClosingChecks(c.Request.Context()))
}

// runClosingChecks godoc
// @Summary Run the closing checklist
// @Description Evaluates all checks, or the listed subset, against a period without changing it
// @Tags closing-checks
// @Accept json
// @Produce json
// @Param   run body dto.RunClosingChecksRequest true "Period and optional check IDs"
// @Success 200 {object} dto.ClosingChecksRunResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown check ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Accounting period not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to run closing checks"
// @Security BearerAuth
// @Router /closing-checks [post]
func (h *closingCheckHandler) runClosingChecks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RunClosingChecksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	run, err := h.closingCheckService.RunClosingChecks(c.Request.Context(), req.PeriodID, req.CheckIDs)
	if err != nil {
		respondError(c, err, "Failed to run closing checks")
		return
	}

	logger.Info("Closing checks executed",
		slog.String("period_id", req.PeriodID),
		slog.Int("failed", run.Summary.Failed),
		slog.Bool("can_close", run.Summary.CanClose))
	c.JSON(http.StatusOK, dto.ToClosingChecksRunResponse(run))
}
