package repositories

import (
	"context"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
)

// PeriodReader defines read operations for accounting periods.
type PeriodReader interface {
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// ListPeriods returns every period ordered by start date.
	ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for accounting periods.
type PeriodWriter interface {
	// SavePeriod inserts a new open period. Overlap with a stored period yields apperrors.ErrOverlappingPeriod.
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) error

	// UpdateOpenPeriod rewrites name and dates of an open period. Every journal entry of the
	// period must stay inside the new range, else apperrors.ErrEntriesOutsidePeriod.
	// Also returns apperrors.ErrPeriodClosed, apperrors.ErrConflict or apperrors.ErrOverlappingPeriod.
	UpdateOpenPeriod(ctx context.Context, period domain.AccountingPeriod, expectedVersion int64) error

	// ClosePeriod stores the closure under a row lock, recomputing the income aggregates from
	// posted lines inside the same lock, and returns them. A draft entry still present in the
	// period yields apperrors.ErrClosingChecksFailed.
	// Returns apperrors.ErrAlreadyClosed or apperrors.ErrConflict when the guard fails.
	ClosePeriod(ctx context.Context, periodID string, expectedVersion int64, closure domain.PeriodClosure) (domain.PeriodAggregates, error)

	// DeleteOpenPeriod removes an open period that no journal entry references.
	// Returns apperrors.ErrPeriodClosed or apperrors.ErrConflict.
	DeleteOpenPeriod(ctx context.Context, periodID string) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
