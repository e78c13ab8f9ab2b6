package dto

import (
	"time"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is a single line of a create or update request.
type JournalLineRequest struct {
	AccountID   string `json:"accountID" binding:"required"`
	Debit       Amount `json:"debit" binding:"amount"`
	Credit      Amount `json:"credit" binding:"amount"`
	Description string `json:"description"`
}

// CreateJournalEntryRequest defines the data needed to create a draft journal entry.
// Fewer than two items is reported as TooFewLines by the service, not by binding.
type CreateJournalEntryRequest struct {
	Number      string               `json:"number"` // Optional, auto-assigned when empty
	Date        *Date                `json:"date" binding:"required"`
	Description string               `json:"description"`
	PeriodID    string               `json:"periodID" binding:"required"`
	Items       []JournalLineRequest `json:"items" binding:"dive"`
}

// UpdateJournalEntryRequest is a partial update of a draft entry.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateJournalEntryRequest struct {
	Number      *string              `json:"number"`
	Date        *Date                `json:"date"`
	Description *string              `json:"description"`
	PeriodID    *string              `json:"periodID"`
	Items       []JournalLineRequest `json:"items" binding:"omitempty,dive"`
	Version     *int64               `json:"version"` // Optional optimistic concurrency guard
}

// ListJournalEntriesParams defines the query parameters for listing entries.
type ListJournalEntriesParams struct {
	PeriodID  string `form:"periodID"`
	Status    string `form:"status" binding:"omitempty,oneof=DRAFT POSTED CANCELLED"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID       string                `json:"entryID"`
	Number        string                `json:"number"`
	Date          Date                  `json:"date"`
	Description   string                `json:"description"`
	PeriodID      string                `json:"periodID"`
	Status        domain.JournalStatus  `json:"status"`
	Items         []JournalLineResponse `json:"items"`
	TotalDebit    decimal.Decimal       `json:"totalDebit"`
	TotalCredit   decimal.Decimal       `json:"totalCredit"`
	PostedAt      *time.Time            `json:"postedAt,omitempty"`
	PostedBy      string                `json:"postedBy,omitempty"`
	CancelledAt   *time.Time            `json:"cancelledAt,omitempty"`
	CancelledBy   string                `json:"cancelledBy,omitempty"`
	Version       int64                 `json:"version"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
	LastUpdatedAt time.Time             `json:"updatedAt"`
	LastUpdatedBy string                `json:"updatedBy"`
}

// ListJournalEntriesResponse wraps a page of entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	items := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		items[i] = JournalLineResponse{
			LineID:      l.LineID,
			LineNo:      l.LineNo,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}
	return JournalEntryResponse{
		EntryID:       e.EntryID,
		Number:        e.Number,
		Date:          Date{Time: e.EntryDate},
		Description:   e.Description,
		PeriodID:      e.PeriodID,
		Status:        e.Status,
		Items:         items,
		TotalDebit:    e.TotalDebit,
		TotalCredit:   e.TotalCredit,
		PostedAt:      e.PostedAt,
		PostedBy:      e.PostedBy,
		CancelledAt:   e.CancelledAt,
		CancelledBy:   e.CancelledBy,
		Version:       e.Version,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
		LastUpdatedAt: e.LastUpdatedAt,
		LastUpdatedBy: e.LastUpdatedBy,
	}
}

// ToListJournalEntriesResponse converts a page of entries.
func ToListJournalEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListJournalEntriesResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToJournalEntryResponse(&entries[i])
	}
	return ListJournalEntriesResponse{Entries: res, NextToken: nextToken}
}

// ToLineInputs converts request lines into validator input.
func ToLineInputs(items []JournalLineRequest) []domain.LineInput {
	lines := make([]domain.LineInput, len(items))
	for i, it := range items {
		lines[i] = domain.LineInput{
			AccountID:   it.AccountID,
			Debit:       string(it.Debit),
			Credit:      string(it.Credit),
			Description: it.Description,
		}
	}
	return lines
}
