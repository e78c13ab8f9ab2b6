package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft     JournalStatus = "DRAFT"
	Posted    JournalStatus = "POSTED"
	Cancelled JournalStatus = "CANCELLED"
)

// JournalEntry is a double-entry document (سند حسابداری). Only DRAFT entries are mutable.
type JournalEntry struct {
	EntryID     string          `json:"entryID"`
	Number      string          `json:"number"`
	EntryDate   time.Time       `json:"entryDate"`
	Description string          `json:"description"`
	PeriodID    string          `json:"periodID"`
	Status      JournalStatus   `json:"status"`
	Lines       []JournalLine   `json:"lines"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	PostedAt    *time.Time      `json:"postedAt,omitempty"`
	PostedBy    string          `json:"postedBy,omitempty"`
	CancelledAt *time.Time      `json:"cancelledAt,omitempty"`
	CancelledBy string          `json:"cancelledBy,omitempty"`
	Version     int64           `json:"version"`
	AuditFields
}

// IsDraft reports whether the entry can still be edited, posted, cancelled or deleted.
func (e *JournalEntry) IsDraft() bool {
	return e.Status == Draft
}

// JournalLine is a single debit or credit row of a journal entry.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// LineInput is an unvalidated line as submitted by a caller. Amounts are raw
// strings and may use Persian or Arabic-Indic digits.
type LineInput struct {
	AccountID   string
	Debit       string
	Credit      string
	Description string
}

// ValidatedLines is the output of the journal validator.
type ValidatedLines struct {
	Lines       []JournalLine
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// JournalEntryFilter narrows journal entry listings.
type JournalEntryFilter struct {
	PeriodID string
	Status   JournalStatus
}
