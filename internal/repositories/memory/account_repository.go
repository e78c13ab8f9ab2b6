package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
)

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := s.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.accounts {
		if acc.AccountID == account.AccountID || acc.Code == account.Code {
			return apperrors.ErrDuplicate
		}
	}
	if account.NormalBalance == "" {
		account.NormalBalance = domain.NormalBalanceFor(account.AccountType)
	}
	s.accounts[account.AccountID] = account
	return nil
}

// SeedDefaultAccounts loads the standard chart of accounts, skipping codes already present.
func (s *Store) SeedDefaultAccounts(ctx context.Context, actorID string, at time.Time) error {
	for _, acc := range domain.DefaultChartOfAccounts() {
		acc.AuditFields = domain.AuditFields{CreatedAt: at, CreatedBy: actorID, LastUpdatedAt: at, LastUpdatedBy: actorID}
		if err := s.SaveAccount(ctx, acc); err != nil && !errors.Is(err, apperrors.ErrDuplicate) {
			return err
		}
	}
	return nil
}
