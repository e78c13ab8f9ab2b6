package services

import (
	"context"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	"github.com/SscSPs/hesabdari_ledger/internal/dto"
)

// PeriodReaderSvc defines read operations for accounting periods.
type PeriodReaderSvc interface {
	GetPeriod(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)
	ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error)

	// GetPeriodTrialBalance sums posted lines per account for the period.
	GetPeriodTrialBalance(ctx context.Context, periodID string) (*domain.TrialBalance, error)
}

// PeriodWriterSvc defines the lifecycle operations of an accounting period.
type PeriodWriterSvc interface {
	CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, actorID string) (*domain.AccountingPeriod, error)
	UpdatePeriod(ctx context.Context, periodID string, req dto.UpdatePeriodRequest, actorID string) (*domain.AccountingPeriod, error)

	// ClosePeriod runs the checklist and closes the period when it may close.
	// On ErrClosingChecksFailed the returned result still carries every check outcome.
	ClosePeriod(ctx context.Context, periodID string, req dto.ClosePeriodRequest, actorID string) (*domain.PeriodCloseResult, error)

	DeletePeriod(ctx context.Context, periodID string, actorID string) error
}

// PeriodSvcFacade combines all period-related service interfaces
type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodWriterSvc
}
