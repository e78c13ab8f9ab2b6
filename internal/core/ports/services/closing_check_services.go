package services

import (
	"context"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
)

// ClosingCheckSvcFacade runs the period closing checklist.
type ClosingCheckSvcFacade interface {
	// ListClosingChecks returns the static check catalog in execution order.
	ListClosingChecks(ctx context.Context) []domain.ClosingCheckDefinition

	// RunClosingChecks evaluates the selected checks (all when checkIDs is empty) against a period.
	RunClosingChecks(ctx context.Context, periodID string, checkIDs []string) (*domain.ClosingCheckRun, error)
}
