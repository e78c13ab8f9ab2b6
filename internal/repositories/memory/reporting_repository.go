package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
)

func (s *Store) TrialBalanceByPeriod(ctx context.Context, periodID string) ([]domain.TrialBalanceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trialBalanceLocked(periodID), nil
}

func (s *Store) trialBalanceLocked(periodID string) []domain.TrialBalanceRow {
	rows := make(map[string]*domain.TrialBalanceRow)
	for _, e := range s.entries {
		if e.PeriodID != periodID || e.Status != domain.Posted {
			continue
		}
		for _, l := range e.Lines {
			row, ok := rows[l.AccountID]
			if !ok {
				acc := s.accounts[l.AccountID]
				row = &domain.TrialBalanceRow{
					AccountID:   l.AccountID,
					AccountCode: acc.Code,
					AccountName: acc.Name,
					AccountType: acc.AccountType,
				}
				rows[l.AccountID] = row
			}
			row.Debit = row.Debit.Add(l.Debit)
			row.Credit = row.Credit.Add(l.Credit)
		}
	}

	out := make([]domain.TrialBalanceRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out
}
