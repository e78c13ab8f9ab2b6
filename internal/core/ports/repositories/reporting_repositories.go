package repositories

import (
	"context"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
)

// ReportingReader defines read operations for financial reports.
type ReportingReader interface {
	// TrialBalanceByPeriod sums debit and credit of POSTED lines per account for the period.
	TrialBalanceByPeriod(ctx context.Context, periodID string) ([]domain.TrialBalanceRow, error)
}

// ReportingRepositoryFacade combines all reporting-related repository interfaces
type ReportingRepositoryFacade interface {
	ReportingReader
}
