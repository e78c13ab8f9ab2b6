package services

import (
	"context"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	"github.com/SscSPs/hesabdari_ledger/internal/dto"
)

// ClosingDataSvcFacade registers the bank reconciliations, inventory valuations
// and issued checks that the closing checklist inspects.
type ClosingDataSvcFacade interface {
	RegisterBankReconciliation(ctx context.Context, req dto.RegisterBankReconciliationRequest) (*domain.BankReconciliation, error)
	UpdateBankReconciliationStatus(ctx context.Context, reconciliationID string, status domain.ReconciliationStatus) (*domain.BankReconciliation, error)
	RecordInventoryValuation(ctx context.Context, req dto.RecordInventoryValuationRequest) (*domain.InventoryValuation, error)
	RegisterIssuedCheck(ctx context.Context, req dto.RegisterIssuedCheckRequest) (*domain.IssuedCheck, error)
	UpdateIssuedCheckStatus(ctx context.Context, checkID string, status domain.CheckStatus) (*domain.IssuedCheck, error)
}
