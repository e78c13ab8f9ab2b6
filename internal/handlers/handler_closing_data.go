package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/hesabdari_ledger/internal/core/ports/services"
	"github.com/SscSPs/hesabdari_ledger/internal/dto"
	"github.com/SscSPs/hesabdari_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type closingDataHandler struct {
	closingDataService portssvc.ClosingDataSvcFacade
}

func registerClosingDataRoutes(rg *gin.RouterGroup, closingDataService portssvc.ClosingDataSvcFacade) {
	h := &closingDataHandler{closingDataService: closingDataService}

	recs := rg.Group("/bank-reconciliations")
	{
		recs.POST("", h.registerBankReconciliation)
		recs.PUT("/:reconciliationID", h.updateBankReconciliationStatus)
	}
	rg.POST("/inventory-valuations", h.recordInventoryValuation)
	checks := rg.Group("/issued-checks")
	{
		checks.POST("", h.registerIssuedCheck)
		checks.PUT("/:checkID", h.updateIssuedCheckStatus)
	}
}

// registerBankReconciliation godoc
// @Summary Register a bank reconciliation
// @Description Status defaults to PENDING. Pending reconciliations block the period close.
// @Tags closing-data
// @Accept json
// @Produce json
// @Param   reconciliation body dto.RegisterBankReconciliationRequest true "Reconciliation"
// @Success 201 {object} domain.BankReconciliation
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Duplicate ID or closed period"
// @Security BearerAuth
// @Router /bank-reconciliations [post]
func (h *closingDataHandler) registerBankReconciliation(c *gin.Context) {
	var req dto.RegisterBankReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	rec, err := h.closingDataService.RegisterBankReconciliation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register bank reconciliation")
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// updateBankReconciliationStatus godoc
// @Summary Change a bank reconciliation status
// @Tags closing-data
// @Accept json
// @Produce json
// @Param   reconciliationID path string true "Reconciliation ID"
// @Param   status body dto.UpdateReconciliationStatusRequest true "New status"
// @Success 200 {object} domain.BankReconciliation
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Reconciliation not found"
// @Failure 409 {object} dto.ErrorResponse "Accounting period is closed"
// @Security BearerAuth
// @Router /bank-reconciliations/{reconciliationID} [put]
func (h *closingDataHandler) updateBankReconciliationStatus(c *gin.Context) {
	var req dto.UpdateReconciliationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	rec, err := h.closingDataService.UpdateBankReconciliationStatus(c.Request.Context(), c.Param("reconciliationID"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update bank reconciliation")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// recordInventoryValuation godoc
// @Summary Record an inventory valuation
// @Description The counted amount is compared with the account book balance at period end.
// @Tags closing-data
// @Accept json
// @Produce json
// @Param   valuation body dto.RecordInventoryValuationRequest true "Valuation"
// @Success 201 {object} domain.InventoryValuation
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Duplicate ID or closed period"
// @Security BearerAuth
// @Router /inventory-valuations [post]
func (h *closingDataHandler) recordInventoryValuation(c *gin.Context) {
	var req dto.RecordInventoryValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	v, err := h.closingDataService.RecordInventoryValuation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to record inventory valuation")
		return
	}
	c.JSON(http.StatusCreated, v)
}

// registerIssuedCheck godoc
// @Summary Register an issued check
// @Tags closing-data
// @Accept json
// @Produce json
// @Param   check body dto.RegisterIssuedCheckRequest true "Check"
// @Success 201 {object} domain.IssuedCheck
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Duplicate ID"
// @Security BearerAuth
// @Router /issued-checks [post]
func (h *closingDataHandler) registerIssuedCheck(c *gin.Context) {
	var req dto.RegisterIssuedCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	check, err := h.closingDataService.RegisterIssuedCheck(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register issued check")
		return
	}
	c.JSON(http.StatusCreated, check)
}

// updateIssuedCheckStatus godoc
// @Summary Change an issued check status
// @Tags closing-data
// @Accept json
// @Produce json
// @Param   checkID path string true "Check ID"
// @Param   status body dto.UpdateIssuedCheckStatusRequest true "New status"
// @Success 200 {object} domain.IssuedCheck
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Check not found"
// @Security BearerAuth
// @Router /issued-checks/{checkID} [put]
func (h *closingDataHandler) updateIssuedCheckStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateIssuedCheckStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	check, err := h.closingDataService.UpdateIssuedCheckStatus(c.Request.Context(), c.Param("checkID"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update issued check")
		return
	}
	if check.Status == domain.CheckBounced {
		logger.Warn("Issued check bounced", slog.String("check_id", check.CheckID), slog.String("check_number", check.CheckNumber))
	}
	c.JSON(http.StatusOK, check)
}
