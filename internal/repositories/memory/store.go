// Package memory is a process-local implementation of every repository port.
// It honours the same guard contract as the PostgreSQL repositories, so the
// services behave identically on either storage driver.
package memory

import (
	"sync"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hesabdari_ledger/internal/core/ports/repositories"
)

// Store holds all ledger state behind a single mutex.
type Store struct {
	mu sync.RWMutex

	accounts        map[string]domain.Account
	entries         map[string]domain.JournalEntry
	periods         map[string]domain.AccountingPeriod
	users           map[string]domain.User
	reconciliations []domain.BankReconciliation
	valuations      []domain.InventoryValuation
	issuedChecks    []domain.IssuedCheck
	journalSeq      int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]domain.Account),
		entries:  make(map[string]domain.JournalEntry),
		periods:  make(map[string]domain.AccountingPeriod),
		users:    make(map[string]domain.User),
	}
}

// NewRepositoryProvider exposes the store through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     s,
		JournalRepo:     s,
		PeriodRepo:      s,
		ClosingDataRepo: s,
		ReportingRepo:   s,
		UserRepo:        s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade   = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade   = (*Store)(nil)
	_ portsrepo.PeriodRepositoryFacade    = (*Store)(nil)
	_ portsrepo.ClosingDataRepositoryFacade = (*Store)(nil)
	_ portsrepo.ReportingRepositoryFacade = (*Store)(nil)
	_ portsrepo.UserRepositoryFacade      = (*Store)(nil)
)

func cloneEntry(e domain.JournalEntry) domain.JournalEntry {
	out := e
	out.Lines = append([]domain.JournalLine(nil), e.Lines...)
	if e.PostedAt != nil {
		t := *e.PostedAt
		out.PostedAt = &t
	}
	if e.CancelledAt != nil {
		t := *e.CancelledAt
		out.CancelledAt = &t
	}
	return out
}

func clonePeriod(p domain.AccountingPeriod) domain.AccountingPeriod {
	out := p
	if p.ClosedAt != nil {
		t := *p.ClosedAt
		out.ClosedAt = &t
	}
	if p.ClosingDate != nil {
		t := *p.ClosingDate
		out.ClosingDate = &t
	}
	return out
}
