package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hesabdari_ledger/internal/core/ports/repositories"
)

func (s *Store) CountDraftEntries(ctx context.Context, periodID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countDraftsLocked(periodID), nil
}

func (s *Store) countDraftsLocked(periodID string) int {
	n := 0
	for _, e := range s.entries {
		if e.PeriodID == periodID && e.Status == domain.Draft {
			n++
		}
	}
	return n
}

func (s *Store) PostedTotals(ctx context.Context, periodID string) (portsrepo.PostedTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := portsrepo.PostedTotals{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, e := range s.entries {
		if e.PeriodID != periodID || e.Status != domain.Posted {
			continue
		}
		debit, credit := decimal.Zero, decimal.Zero
		for _, l := range e.Lines {
			debit = debit.Add(l.Debit)
			credit = credit.Add(l.Credit)
		}
		totals.TotalDebit = totals.TotalDebit.Add(debit)
		totals.TotalCredit = totals.TotalCredit.Add(credit)
		if !debit.Equal(e.TotalDebit) || !credit.Equal(e.TotalCredit) {
			totals.UnbalancedEntries = append(totals.UnbalancedEntries, e.Number)
		}
	}
	return totals, nil
}

func (s *Store) ListBankReconciliations(ctx context.Context, periodID string) ([]domain.BankReconciliation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.BankReconciliation
	for _, r := range s.reconciliations {
		if r.PeriodID == periodID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) ListInventoryValuations(ctx context.Context, periodID string) ([]domain.InventoryValuation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.InventoryValuation
	for _, v := range s.valuations {
		if v.PeriodID == periodID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Store) AccountBookBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := domain.TruncateDay(asOf)
	balance := decimal.Zero
	for _, e := range s.entries {
		if e.Status != domain.Posted || domain.TruncateDay(e.EntryDate).After(cutoff) {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID == accountID {
				balance = balance.Add(l.Debit).Sub(l.Credit)
			}
		}
	}
	return balance, nil
}

func (s *Store) ListOutstandingChecksDueBy(ctx context.Context, dueBy time.Time) ([]domain.IssuedCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := domain.TruncateDay(dueBy)
	var out []domain.IssuedCheck
	for _, c := range s.issuedChecks {
		if c.Status == domain.CheckOutstanding && !domain.TruncateDay(c.DueDate).After(cutoff) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) SaveBankReconciliation(ctx context.Context, rec domain.BankReconciliation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reconciliations {
		if r.ReconciliationID == rec.ReconciliationID {
			return apperrors.ErrDuplicate
		}
	}
	s.reconciliations = append(s.reconciliations, rec)
	return nil
}

func (s *Store) FindBankReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reconciliations {
		if r.ReconciliationID == reconciliationID {
			out := r
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) UpdateBankReconciliationStatus(ctx context.Context, reconciliationID string, status domain.ReconciliationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reconciliations {
		if s.reconciliations[i].ReconciliationID == reconciliationID {
			s.reconciliations[i].Status = status
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (s *Store) SaveInventoryValuation(ctx context.Context, v domain.InventoryValuation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.valuations {
		if existing.ValuationID == v.ValuationID {
			return apperrors.ErrDuplicate
		}
	}
	s.valuations = append(s.valuations, v)
	return nil
}

func (s *Store) SaveIssuedCheck(ctx context.Context, c domain.IssuedCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.issuedChecks {
		if existing.CheckID == c.CheckID {
			return apperrors.ErrDuplicate
		}
	}
	s.issuedChecks = append(s.issuedChecks, c)
	return nil
}

func (s *Store) UpdateIssuedCheckStatus(ctx context.Context, checkID string, status domain.CheckStatus) (*domain.IssuedCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.issuedChecks {
		if s.issuedChecks[i].CheckID == checkID {
			s.issuedChecks[i].Status = status
			out := s.issuedChecks[i]
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}
