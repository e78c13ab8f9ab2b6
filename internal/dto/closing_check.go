package dto

import "github.com/SscSPs/hesabdari_ledger/internal/core/domain"

// RunClosingChecksRequest selects the period and, optionally, a subset of checks.
type RunClosingChecksRequest struct {
	PeriodID string   `json:"periodID" binding:"required"`
	CheckIDs []string `json:"checkIDs"`
}

// ClosingChecksRunResponse is the outcome of a checklist run.
type ClosingChecksRunResponse struct {
	Results []domain.ClosingCheckResult `json:"results"`
	Summary domain.ClosingCheckSummary  `json:"summary"`
}

// ToClosingChecksRunResponse converts a domain.ClosingCheckRun.
func ToClosingChecksRunResponse(run *domain.ClosingCheckRun) ClosingChecksRunResponse {
	return ClosingChecksRunResponse{Results: run.Results, Summary: run.Summary}
}
