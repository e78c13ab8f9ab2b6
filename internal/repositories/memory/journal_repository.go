package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	"github.com/SscSPs/hesabdari_ledger/internal/utils/pagination"
)

func (s *Store) FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := cloneEntry(e)
	return &out, nil
}

// ListJournalEntries pages through entries ordered by entry date, creation time and id, newest first.
func (s *Store) ListJournalEntries(ctx context.Context, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		cursorDate, cursorCreated time.Time
		cursorID                  string
	)
	hasCursor := nextToken != nil && *nextToken != ""
	if hasCursor {
		var err error
		cursorDate, cursorCreated, cursorID, err = pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	s.mu.RLock()
	matched := make([]domain.JournalEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if filter.PeriodID != "" && e.PeriodID != filter.PeriodID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if hasCursor && !pastCursor(e, cursorDate, cursorCreated, cursorID) {
			continue
		}
		matched = append(matched, cloneEntry(e))
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].EntryDate.Equal(matched[j].EntryDate) {
			return matched[i].EntryDate.After(matched[j].EntryDate)
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].EntryID > matched[j].EntryID
	})

	if len(matched) <= limit {
		return matched, nil, nil
	}
	last := matched[limit-1]
	token := pagination.EncodeToken(last.EntryDate, last.CreatedAt, last.EntryID)
	return matched[:limit], &token, nil
}

// pastCursor reports whether e sorts strictly after the cursor in the DESC listing.
func pastCursor(e domain.JournalEntry, date, created time.Time, id string) bool {
	if !e.EntryDate.Equal(date) {
		return e.EntryDate.Before(date)
	}
	if !e.CreatedAt.Equal(created) {
		return e.CreatedAt.Before(created)
	}
	return e.EntryID < id
}

func (s *Store) CountJournalEntriesByPeriod(ctx context.Context, periodID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.entries {
		if e.PeriodID == periodID {
			n++
		}
	}
	return n, nil
}

func (s *Store) NextJournalNumber(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.journalSeq++
	return fmt.Sprintf("JE-%06d", s.journalSeq), nil
}

func (s *Store) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[entry.EntryID]; ok {
		return apperrors.ErrDuplicate
	}
	if s.numberTaken(entry.Number, entry.EntryID) {
		return apperrors.ErrDuplicate
	}
	if err := s.requireOpenPeriodLocked(entry.PeriodID); err != nil {
		return err
	}
	s.entries[entry.EntryID] = cloneEntry(entry)
	return nil
}

func (s *Store) UpdateDraftJournalEntry(ctx context.Context, entry domain.JournalEntry, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.guardDraftLocked(entry.EntryID, expectedVersion)
	if err != nil {
		return err
	}
	if s.numberTaken(entry.Number, entry.EntryID) {
		return apperrors.ErrDuplicate
	}
	if err := s.requireOpenPeriodLocked(entry.PeriodID); err != nil {
		return err
	}

	entry.Status = current.Status
	entry.CreatedAt, entry.CreatedBy = current.CreatedAt, current.CreatedBy
	s.entries[entry.EntryID] = cloneEntry(entry)
	return nil
}

func (s *Store) PostJournalEntry(ctx context.Context, entryID string, expectedVersion int64, postedBy string, postedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.guardDraftLocked(entryID, expectedVersion)
	if err != nil {
		return err
	}
	if err := s.requireOpenPeriodLocked(current.PeriodID); err != nil {
		return err
	}

	current.Status = domain.Posted
	current.PostedAt = &postedAt
	current.PostedBy = postedBy
	current.Version++
	current.Touch(postedBy, postedAt)
	s.entries[entryID] = current
	return nil
}

func (s *Store) CancelJournalEntry(ctx context.Context, entryID string, expectedVersion int64, cancelledBy string, cancelledAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.guardDraftLocked(entryID, expectedVersion)
	if err != nil {
		return err
	}

	current.Status = domain.Cancelled
	current.CancelledAt = &cancelledAt
	current.CancelledBy = cancelledBy
	current.Version++
	current.Touch(cancelledBy, cancelledAt)
	s.entries[entryID] = current
	return nil
}

func (s *Store) DeleteDraftJournalEntry(ctx context.Context, entryID string, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.guardDraftLocked(entryID, expectedVersion); err != nil {
		return err
	}
	delete(s.entries, entryID)
	return nil
}

// guardDraftLocked applies the writer guard: the entry exists, is a draft and has the expected version.
func (s *Store) guardDraftLocked(entryID string, expectedVersion int64) (domain.JournalEntry, error) {
	current, ok := s.entries[entryID]
	if !ok {
		return domain.JournalEntry{}, apperrors.ErrNotFound
	}
	if current.Status != domain.Draft {
		return domain.JournalEntry{}, apperrors.ErrInvalidStateTransition
	}
	if current.Version != expectedVersion {
		return domain.JournalEntry{}, apperrors.ErrConflict
	}
	return cloneEntry(current), nil
}

func (s *Store) requireOpenPeriodLocked(periodID string) error {
	p, ok := s.periods[periodID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if p.IsClosed {
		return apperrors.ErrPeriodClosed
	}
	return nil
}

func (s *Store) numberTaken(number, exceptID string) bool {
	for id, e := range s.entries {
		if id != exceptID && e.Number == number {
			return true
		}
	}
	return false
}
