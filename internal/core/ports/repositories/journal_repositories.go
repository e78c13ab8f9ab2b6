package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal entries.
type JournalReader interface {
	// FindJournalEntryByID retrieves an entry together with its lines ordered by line number.
	FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a page of entries (entry date DESC, created at DESC) with their lines.
	// It returns the entries, a token for the next page, and an error.
	ListJournalEntries(ctx context.Context, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// CountJournalEntriesByPeriod counts entries of any status referencing the period.
	CountJournalEntriesByPeriod(ctx context.Context, periodID string) (int, error)
}

// JournalWriter defines write operations for journal entries.
//
// Every state-changing method re-checks the entry's status and version atomically
// with the write: a missing row yields apperrors.ErrNotFound, a non-draft entry
// apperrors.ErrInvalidStateTransition, a stale version apperrors.ErrConflict and
// a closed target period apperrors.ErrPeriodClosed.
type JournalWriter interface {
	// NextJournalNumber reserves the next human readable entry number (JE-000001).
	NextJournalNumber(ctx context.Context) (string, error)

	// SaveJournalEntry inserts a new draft entry and its lines.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateDraftJournalEntry replaces header, lines and totals of a draft entry.
	// entry.Version must already hold the new version; expectedVersion is the one read.
	UpdateDraftJournalEntry(ctx context.Context, entry domain.JournalEntry, expectedVersion int64) error

	// PostJournalEntry moves a draft entry to POSTED.
	PostJournalEntry(ctx context.Context, entryID string, expectedVersion int64, postedBy string, postedAt time.Time) error

	// CancelJournalEntry moves a draft entry to CANCELLED.
	CancelJournalEntry(ctx context.Context, entryID string, expectedVersion int64, cancelledBy string, cancelledAt time.Time) error

	// DeleteDraftJournalEntry removes a draft entry and its lines.
	DeleteDraftJournalEntry(ctx context.Context, entryID string, expectedVersion int64) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
