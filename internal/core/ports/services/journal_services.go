package services

import (
	"context"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	"github.com/SscSPs/hesabdari_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	// GetJournalEntry retrieves a specific entry with its lines.
	GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a cursor-paginated list of entries.
	ListJournalEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines the lifecycle operations of a journal entry.
type JournalWriterSvc interface {
	// CreateJournalEntry validates and stores a new DRAFT entry.
	CreateJournalEntry(ctx context.Context, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error)

	// UpdateJournalEntry applies a partial update to a DRAFT entry and re-validates it.
	UpdateJournalEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, actorID string) (*domain.JournalEntry, error)

	// PostJournalEntry moves a DRAFT entry to POSTED.
	PostJournalEntry(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error)

	// CancelJournalEntry moves a DRAFT entry to CANCELLED.
	CancelJournalEntry(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error)

	// DeleteJournalEntry removes a DRAFT entry.
	DeleteJournalEntry(ctx context.Context, entryID string, actorID string) error
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
