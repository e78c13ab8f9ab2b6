package services

import (
	"context"
	"time"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
)

// AuthSvcFacade authenticates operators and issues access tokens.
type AuthSvcFacade interface {
	// Login verifies the credentials and returns the user with a signed access token.
	Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error)

	// EnsureAdminUser creates or refreshes the bootstrap administrator.
	EnsureAdminUser(ctx context.Context, username, password string) (*domain.User, error)
}
