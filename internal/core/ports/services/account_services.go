package services

import (
	"context"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
)

// AccountReaderSvc exposes the read-only account reference.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts returns the chart of accounts.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ResolveAccounts returns the accounts for the given IDs; unknown IDs are omitted.
	ResolveAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
}
