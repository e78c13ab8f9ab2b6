package services

import (
	portsrepo "github.com/SscSPs/hesabdari_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hesabdari_ledger/internal/core/ports/services"
	"github.com/SscSPs/hesabdari_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	tolerance := DefaultBalanceTolerance
	if !cfg.BalanceTolerance.IsZero() {
		tolerance = cfg.BalanceTolerance
	}

	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Journal = NewJournalService(
		repos.JournalRepo,
		repos.PeriodRepo,
		container.Account,
		WithBalanceTolerance(tolerance),
	)
	container.ClosingCheck = NewClosingCheckService(
		repos.PeriodRepo,
		DefaultClosingChecks(repos.ClosingDataRepo, tolerance),
		WithOptionalFailuresAllowed(cfg.ClosingAllowOptionalFailures),
	)
	container.ClosingData = NewClosingDataService(repos.ClosingDataRepo, repos.PeriodRepo, container.Account)
	container.Period = NewPeriodService(repos.PeriodRepo, repos.ReportingRepo, container.ClosingCheck)
	container.Auth = NewAuthService(cfg, repos.UserRepo)

	return container
}
