package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountingPeriod is a fiscal period (دوره مالی). OPEN until closed; CLOSED is terminal.
type AccountingPeriod struct {
	PeriodID      string          `json:"periodID"`
	Name          string          `json:"name"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	IsClosed      bool            `json:"isClosed"`
	ClosedAt      *time.Time      `json:"closedAt,omitempty"`
	ClosedBy      string          `json:"closedBy,omitempty"`
	ClosingDate   *time.Time      `json:"closingDate,omitempty"`
	ClosingNote   string          `json:"closingNote,omitempty"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
	Version       int64           `json:"version"`
	AuditFields
}

// Contains reports whether d falls inside the period, both ends inclusive.
func (p *AccountingPeriod) Contains(d time.Time) bool {
	day := TruncateDay(d)
	return !day.Before(TruncateDay(p.StartDate)) && !day.After(TruncateDay(p.EndDate))
}

// Overlaps applies the period overlap rule: the candidate start or end lies
// within [p.StartDate, p.EndDate], or the candidate range fully contains p.
func (p *AccountingPeriod) Overlaps(start, end time.Time) bool {
	if p.Contains(start) || p.Contains(end) {
		return true
	}
	s, e := TruncateDay(start), TruncateDay(end)
	return !s.After(TruncateDay(p.StartDate)) && !e.Before(TruncateDay(p.EndDate))
}

// PeriodAggregates holds the income statement totals stored on close.
type PeriodAggregates struct {
	TotalRevenue  decimal.Decimal
	TotalExpenses decimal.Decimal
	NetIncome     decimal.Decimal
}

// PeriodClosure carries everything written when a period closes.
type PeriodClosure struct {
	ClosedAt    time.Time
	ClosedBy    string
	ClosingDate time.Time
	ClosingNote string
}

// TruncateDay drops the time of day, keeping calendar dates comparable in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PeriodCloseResult is the outcome of a close attempt.
type PeriodCloseResult struct {
	Period       *AccountingPeriod    `json:"period"`
	Checks       ClosingCheckRun      `json:"checks"`
	FailedChecks []ClosingCheckResult `json:"failedChecks"`
}
