package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus mirrors the journal_entries.status column.
type JournalStatus string

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID     string          `db:"entry_id"`
	Number      string          `db:"number"`
	EntryDate   time.Time       `db:"entry_date"`
	Description string          `db:"description"`
	PeriodID    string          `db:"period_id"`
	Status      JournalStatus   `db:"status"`
	TotalDebit  decimal.Decimal `db:"total_debit"`
	TotalCredit decimal.Decimal `db:"total_credit"`
	PostedAt    *time.Time      `db:"posted_at"`
	PostedBy    *string         `db:"posted_by"`
	CancelledAt *time.Time      `db:"cancelled_at"`
	CancelledBy *string         `db:"cancelled_by"`
	Version     int64           `db:"version"`
	AuditFields
}

// JournalLine is a row of the journal_lines table joined with its account.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	LineNo      int             `db:"line_no"`
	AccountID   string          `db:"account_id"`
	AccountCode string          `db:"account_code"`
	AccountName string          `db:"account_name"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
}
