package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/hesabdari_ledger/internal/core/ports/services"
	"github.com/SscSPs/hesabdari_ledger/internal/dto"
	"github.com/SscSPs/hesabdari_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// periodHandler handles HTTP requests related to accounting periods.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func newPeriodHandler(ps portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: ps}
}

// registerPeriodRoutes registers accounting period routes.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	periods := rg.Group("/accounting-periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:id", h.getPeriod)
		periods.PUT("/:id", h.updatePeriod)
		periods.POST("/:id", h.closePeriod)
		periods.DELETE("/:id", h.deletePeriod)
		periods.GET("/:id/trial-balance", h.getTrialBalance)
	}
}

// createPeriod godoc
// @Summary Open an accounting period
// @Description Creates an OPEN period. Periods may not overlap, boundaries inclusive.
// @Tags accounting-periods
// @Accept  json
// @Produce  json
// @Param   period body dto.CreatePeriodRequest true "Period"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid date range or overlapping period"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to create accounting period"
// @Security BearerAuth
// @Router /accounting-periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to create accounting period")
		return
	}

	logger.Info("Accounting period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List accounting periods
// @Description Lists every period ordered by start date
// @Tags accounting-periods
// @Produce  json
// @Success 200 {array} dto.PeriodResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list accounting periods"
// @Security BearerAuth
// @Router /accounting-periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	periods, err := h.periodService.ListPeriods(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list accounting periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPeriodResponse(periods))
}

// getPeriod godoc
// @Summary Get an accounting period
// @Tags accounting-periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Accounting period not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve accounting period"
// @Security BearerAuth
// @Router /accounting-periods/{id} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	period, err := h.periodService.GetPeriod(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve accounting period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// updatePeriod godoc
// @Summary Update an open accounting period
// @Tags accounting-periods
// @Accept  json
// @Produce  json
// @Param   id path string true "Period ID"
// @Param   period body dto.UpdatePeriodRequest true "Fields to update"
// @Success 200 {object} dto.PeriodResponse
// @Failure 400 {object} dto.ErrorResponse "Period closed, invalid range or overlap"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Accounting period not found"
// @Failure 409 {object} dto.ErrorResponse "Version conflict"
// @Failure 500 {object} dto.ErrorResponse "Failed to update accounting period"
// @Security BearerAuth
// @Router /accounting-periods/{id} [put]
func (h *periodHandler) updatePeriod(c *gin.Context) {
	var req dto.UpdatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	period, err := h.periodService.UpdatePeriod(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to update accounting period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// closePeriod godoc
// @Summary Close an accounting period
// @Description Runs the closing checklist and, when every check passes, closes the period and stores its income totals.
// @Tags accounting-periods
// @Accept  json
// @Produce  json
// @Param   id path string true "Period ID"
// @Param   close body dto.ClosePeriodRequest false "Closing date and note"
// @Success 200 {object} dto.ClosePeriodResponse
// @Failure 400 {object} dto.ErrorResponse "Already closed or closing checks failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Accounting period not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to close accounting period"
// @Security BearerAuth
// @Router /accounting-periods/{id} [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ClosePeriodRequest
	// The body is optional.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	result, err := h.periodService.ClosePeriod(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to close accounting period")
		return
	}

	logger.Info("Accounting period closed",
		slog.String("period_id", result.Period.PeriodID),
		slog.String("net_income", result.Period.NetIncome.String()))
	c.JSON(http.StatusOK, dto.ClosePeriodResponse{
		Period: dto.ToPeriodResponse(result.Period),
		Checks: dto.ToClosingChecksRunResponse(&result.Checks),
	})
}

// deletePeriod godoc
// @Summary Delete an open accounting period
// @Description Removes an OPEN period that no journal entry references
// @Tags accounting-periods
// @Param   id path string true "Period ID"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Period closed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Accounting period not found"
// @Failure 409 {object} dto.ErrorResponse "Period still has journal entries"
// @Failure 500 {object} dto.ErrorResponse "Failed to delete accounting period"
// @Security BearerAuth
// @Router /accounting-periods/{id} [delete]
func (h *periodHandler) deletePeriod(c *gin.Context) {
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.periodService.DeletePeriod(c.Request.Context(), c.Param("id"), actorID); err != nil {
		respondError(c, err, "Failed to delete accounting period")
		return
	}
	c.Status(http.StatusNoContent)
}

// getTrialBalance godoc
// @Summary Trial balance of a period
// @Description Sums debit and credit of posted lines per account
// @Tags accounting-periods
// @Produce json
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Accounting period not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate trial balance"
// @Security BearerAuth
// @Router /accounting-periods/{id}/trial-balance [get]
func (h *periodHandler) getTrialBalance(c *gin.Context) {
	tb, err := h.periodService.GetPeriodTrialBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}
