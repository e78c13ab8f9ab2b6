package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
)

func (s *Store) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.periods[periodID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := clonePeriod(p)
	return &out, nil
}

func (s *Store) ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AccountingPeriod, 0, len(s.periods))
	for _, p := range s.periods {
		out = append(out, clonePeriod(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *Store) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.periods[period.PeriodID]; ok {
		return apperrors.ErrDuplicate
	}
	if s.overlapsLocked(period) {
		return apperrors.ErrOverlappingPeriod
	}
	s.periods[period.PeriodID] = clonePeriod(period)
	return nil
}

func (s *Store) UpdateOpenPeriod(ctx context.Context, period domain.AccountingPeriod, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.periods[period.PeriodID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if current.IsClosed {
		return apperrors.ErrPeriodClosed
	}
	if current.Version != expectedVersion {
		return apperrors.ErrConflict
	}
	if s.overlapsLocked(period) {
		return apperrors.ErrOverlappingPeriod
	}
	for _, e := range s.entries {
		if e.PeriodID == period.PeriodID && !period.Contains(e.EntryDate) {
			return fmt.Errorf("%w: entry %s dated %s", apperrors.ErrEntriesOutsidePeriod, e.Number, e.EntryDate.Format("2006-01-02"))
		}
	}

	current.Name = period.Name
	current.StartDate = period.StartDate
	current.EndDate = period.EndDate
	current.Version = period.Version
	current.LastUpdatedAt, current.LastUpdatedBy = period.LastUpdatedAt, period.LastUpdatedBy
	s.periods[period.PeriodID] = current
	return nil
}

func (s *Store) ClosePeriod(ctx context.Context, periodID string, expectedVersion int64, closure domain.PeriodClosure) (domain.PeriodAggregates, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.periods[periodID]
	if !ok {
		return domain.PeriodAggregates{}, apperrors.ErrNotFound
	}
	if current.IsClosed {
		return domain.PeriodAggregates{}, apperrors.ErrAlreadyClosed
	}
	if current.Version != expectedVersion {
		return domain.PeriodAggregates{}, apperrors.ErrConflict
	}
	if drafts := s.countDraftsLocked(periodID); drafts > 0 {
		return domain.PeriodAggregates{}, fmt.Errorf("%w: %d draft entries appeared in period %s", apperrors.ErrClosingChecksFailed, drafts, periodID)
	}

	tb := domain.TrialBalance{PeriodID: periodID, Rows: s.trialBalanceLocked(periodID)}
	aggregates := tb.Aggregates()

	closedAt, closingDate := closure.ClosedAt, closure.ClosingDate
	current.IsClosed = true
	current.ClosedAt = &closedAt
	current.ClosedBy = closure.ClosedBy
	current.ClosingDate = &closingDate
	current.ClosingNote = closure.ClosingNote
	current.TotalRevenue = aggregates.TotalRevenue
	current.TotalExpenses = aggregates.TotalExpenses
	current.NetIncome = aggregates.NetIncome
	current.Version++
	current.Touch(closure.ClosedBy, closure.ClosedAt)
	s.periods[periodID] = current
	return aggregates, nil
}

func (s *Store) DeleteOpenPeriod(ctx context.Context, periodID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.periods[periodID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if current.IsClosed {
		return apperrors.ErrPeriodClosed
	}
	for _, e := range s.entries {
		if e.PeriodID == periodID {
			return apperrors.ErrConflict
		}
	}
	delete(s.periods, periodID)
	return nil
}

func (s *Store) overlapsLocked(candidate domain.AccountingPeriod) bool {
	for id, p := range s.periods {
		if id == candidate.PeriodID {
			continue
		}
		if p.Overlaps(candidate.StartDate, candidate.EndDate) {
			return true
		}
	}
	return false
}
