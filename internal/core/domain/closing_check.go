package domain

import "time"

// ClosingCheckCategory groups closing checks by the ledger area they inspect.
type ClosingCheckCategory string

const (
	CategoryJournal        ClosingCheckCategory = "JOURNAL"
	CategoryReconciliation ClosingCheckCategory = "RECONCILIATION"
	CategoryInventory      ClosingCheckCategory = "INVENTORY"
	CategoryChecks         ClosingCheckCategory = "CHECKS"
	CategoryPeriod         ClosingCheckCategory = "PERIOD"
)

// ClosingCheckStatus is the outcome of a single check execution.
type ClosingCheckStatus string

const (
	CheckCompleted ClosingCheckStatus = "COMPLETED"
	CheckFailed    ClosingCheckStatus = "FAILED"
)

// ClosingCheckDefinition is a static catalog entry.
type ClosingCheckDefinition struct {
	CheckID     string               `json:"checkID"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Category    ClosingCheckCategory `json:"category"`
	Required    bool                 `json:"required"`
}

// ClosingCheckResult is produced per run and never persisted.
type ClosingCheckResult struct {
	CheckID      string               `json:"checkID"`
	Name         string               `json:"name"`
	Category     ClosingCheckCategory `json:"category"`
	Required     bool                 `json:"required"`
	Status       ClosingCheckStatus   `json:"status"`
	ErrorMessage string               `json:"errorMessage,omitempty"`
	ExecutedAt   time.Time            `json:"executedAt"`
	PeriodID     string               `json:"periodID"`
}

// ClosingCheckSummary aggregates a checklist run.
type ClosingCheckSummary struct {
	Total          int  `json:"total"`
	Completed      int  `json:"completed"`
	Failed         int  `json:"failed"`
	RequiredFailed int  `json:"requiredFailed"`
	SuccessRate    int  `json:"successRate"`
	CanClose       bool `json:"canClose"`
}

// ClosingCheckRun is the full output of the checklist runner.
type ClosingCheckRun struct {
	PeriodID string               `json:"periodID"`
	Results  []ClosingCheckResult `json:"results"`
	Summary  ClosingCheckSummary  `json:"summary"`
}

// Failed returns the subset of results with status FAILED.
func (r *ClosingCheckRun) Failed() []ClosingCheckResult {
	failed := make([]ClosingCheckResult, 0)
	for _, res := range r.Results {
		if res.Status == CheckFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

// ReconciliationStatus is the state of a bank reconciliation (مغایرت‌گیری بانکی).
type ReconciliationStatus string

const (
	ReconciliationPending    ReconciliationStatus = "PENDING"
	ReconciliationReconciled ReconciliationStatus = "RECONCILED"
)

// BankReconciliation is a bank statement reconciliation registered against a period.
type BankReconciliation struct {
	ReconciliationID string               `json:"reconciliationID"`
	PeriodID         string               `json:"periodID"`
	BankAccountID    string               `json:"bankAccountID"`
	Status           ReconciliationStatus `json:"status"`
}

// InventoryValuation is a physical stock count valuation for an inventory account.
type InventoryValuation struct {
	ValuationID string `json:"valuationID"`
	PeriodID    string `json:"periodID"`
	AccountID   string `json:"accountID"`
	Amount      string `json:"amount"`
}

// CheckStatus is the lifecycle state of an issued check (چک).
type CheckStatus string

const (
	CheckOutstanding CheckStatus = "OUTSTANDING"
	CheckCleared     CheckStatus = "CLEARED"
	CheckBounced     CheckStatus = "BOUNCED"
)

// IssuedCheck is a check written by the business.
type IssuedCheck struct {
	CheckID     string      `json:"checkID"`
	CheckNumber string      `json:"checkNumber"`
	DueDate     time.Time   `json:"dueDate"`
	Status      CheckStatus `json:"status"`
}
