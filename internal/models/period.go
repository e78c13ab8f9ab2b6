package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountingPeriod is a row of the accounting_periods table.
type AccountingPeriod struct {
	PeriodID      string          `db:"period_id"`
	Name          string          `db:"name"`
	StartDate     time.Time       `db:"start_date"`
	EndDate       time.Time       `db:"end_date"`
	IsClosed      bool            `db:"is_closed"`
	ClosedAt      *time.Time      `db:"closed_at"`
	ClosedBy      *string         `db:"closed_by"`
	ClosingDate   *time.Time      `db:"closing_date"`
	ClosingNote   *string         `db:"closing_note"`
	TotalRevenue  decimal.Decimal `db:"total_revenue"`
	TotalExpenses decimal.Decimal `db:"total_expenses"`
	NetIncome     decimal.Decimal `db:"net_income"`
	Version       int64           `db:"version"`
	AuditFields
}
