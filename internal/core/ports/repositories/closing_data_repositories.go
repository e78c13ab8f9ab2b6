package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostedTotals summarises the posted entries of a period.
type PostedTotals struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	// UnbalancedEntries lists posted entries whose cached totals differ.
	UnbalancedEntries []string
}

// ClosingDataReader exposes the read-only ledger data the closing checks inspect.
type ClosingDataReader interface {
	CountDraftEntries(ctx context.Context, periodID string) (int, error)
	PostedTotals(ctx context.Context, periodID string) (PostedTotals, error)
	ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error)
	ListBankReconciliations(ctx context.Context, periodID string) ([]domain.BankReconciliation, error)
	ListInventoryValuations(ctx context.Context, periodID string) ([]domain.InventoryValuation, error)

	// AccountBookBalance is Σdebit − Σcredit of posted lines on the account dated on or before asOf.
	AccountBookBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)

	// ListOutstandingChecksDueBy lists issued checks still OUTSTANDING with a due date on or before dueBy.
	ListOutstandingChecksDueBy(ctx context.Context, dueBy time.Time) ([]domain.IssuedCheck, error)
}

// ClosingDataWriter registers the supporting records the closing checks consult.
type ClosingDataWriter interface {
	// SaveBankReconciliation inserts a reconciliation. An existing id yields apperrors.ErrDuplicate.
	SaveBankReconciliation(ctx context.Context, rec domain.BankReconciliation) error
	FindBankReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error)
	UpdateBankReconciliationStatus(ctx context.Context, reconciliationID string, status domain.ReconciliationStatus) error

	// SaveInventoryValuation inserts a stock count valuation. An existing id yields apperrors.ErrDuplicate.
	SaveInventoryValuation(ctx context.Context, v domain.InventoryValuation) error

	// SaveIssuedCheck inserts an issued check. An existing id yields apperrors.ErrDuplicate.
	SaveIssuedCheck(ctx context.Context, c domain.IssuedCheck) error
	UpdateIssuedCheckStatus(ctx context.Context, checkID string, status domain.CheckStatus) (*domain.IssuedCheck, error)
}

// ClosingDataRepositoryFacade combines the closing data reader and writer.
type ClosingDataRepositoryFacade interface {
	ClosingDataReader
	ClosingDataWriter
}
