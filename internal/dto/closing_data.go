package dto

import "github.com/SscSPs/hesabdari_ledger/internal/core/domain"

// RegisterBankReconciliationRequest registers a bank reconciliation against a period.
type RegisterBankReconciliationRequest struct {
	ReconciliationID string                      `json:"reconciliationID"` // Generated when empty
	PeriodID         string                      `json:"periodID" binding:"required"`
	BankAccountID    string                      `json:"bankAccountID" binding:"required"`
	Status           domain.ReconciliationStatus `json:"status" binding:"omitempty,oneof=PENDING RECONCILED"`
}

// UpdateReconciliationStatusRequest moves a reconciliation between PENDING and RECONCILED.
type UpdateReconciliationStatusRequest struct {
	Status domain.ReconciliationStatus `json:"status" binding:"required,oneof=PENDING RECONCILED"`
}

// RecordInventoryValuationRequest records a stock count valuation for an inventory account.
type RecordInventoryValuationRequest struct {
	ValuationID string `json:"valuationID"`
	PeriodID    string `json:"periodID" binding:"required"`
	AccountID   string `json:"accountID" binding:"required"`
	Amount      Amount `json:"amount" binding:"required,amount"`
}

// RegisterIssuedCheckRequest registers a check written by the business.
type RegisterIssuedCheckRequest struct {
	CheckID     string             `json:"checkID"`
	CheckNumber string             `json:"checkNumber" binding:"required"`
	DueDate     *Date              `json:"dueDate" binding:"required"`
	Status      domain.CheckStatus `json:"status" binding:"omitempty,oneof=OUTSTANDING CLEARED BOUNCED"`
}

// UpdateIssuedCheckStatusRequest records that a check cleared or bounced.
type UpdateIssuedCheckStatusRequest struct {
	Status domain.CheckStatus `json:"status" binding:"required,oneof=OUTSTANDING CLEARED BOUNCED"`
}
