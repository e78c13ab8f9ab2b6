package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hesabdari_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hesabdari_ledger/internal/core/ports/services"
	"github.com/SscSPs/hesabdari_ledger/internal/dto"
	"github.com/SscSPs/hesabdari_ledger/internal/utils/money"
)

type closingDataService struct {
	BaseService
	repo       portsrepo.ClosingDataRepositoryFacade
	periodRepo portsrepo.PeriodReader
	accounts   portssvc.AccountReaderSvc
}

// NewClosingDataService creates the service that registers closing checklist inputs.
func NewClosingDataService(repo portsrepo.ClosingDataRepositoryFacade, periodRepo portsrepo.PeriodReader, accounts portssvc.AccountReaderSvc) portssvc.ClosingDataSvcFacade {
	return &closingDataService{repo: repo, periodRepo: periodRepo, accounts: accounts}
}

var _ portssvc.ClosingDataSvcFacade = (*closingDataService)(nil)

func (s *closingDataService) RegisterBankReconciliation(ctx context.Context, req dto.RegisterBankReconciliationRequest) (*domain.BankReconciliation, error) {
	if err := s.requireOpenPeriod(ctx, req.PeriodID); err != nil {
		return nil, err
	}
	if err := s.requireActiveAccount(ctx, req.BankAccountID); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = domain.ReconciliationPending
	}
	if status != domain.ReconciliationPending && status != domain.ReconciliationReconciled {
		return nil, apperrors.Newf(apperrors.KindValidation, "unknown reconciliation status %q", status)
	}

	rec := domain.BankReconciliation{
		ReconciliationID: idOrNew(req.ReconciliationID),
		PeriodID:         req.PeriodID,
		BankAccountID:    req.BankAccountID,
		Status:           status,
	}
	if err := s.repo.SaveBankReconciliation(ctx, rec); err != nil {
		return nil, s.translate(ctx, err, "bank reconciliation", rec.ReconciliationID)
	}
	s.LogInfo(ctx, "Bank reconciliation registered",
		slog.String("reconciliation_id", rec.ReconciliationID),
		slog.String("period_id", rec.PeriodID),
		slog.String("status", string(rec.Status)))
	return &rec, nil
}

func (s *closingDataService) UpdateBankReconciliationStatus(ctx context.Context, reconciliationID string, status domain.ReconciliationStatus) (*domain.BankReconciliation, error) {
	if status != domain.ReconciliationPending && status != domain.ReconciliationReconciled {
		return nil, apperrors.Newf(apperrors.KindValidation, "unknown reconciliation status %q", status)
	}
	rec, err := s.repo.FindBankReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, s.translate(ctx, err, "bank reconciliation", reconciliationID)
	}
	if err := s.requireOpenPeriod(ctx, rec.PeriodID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateBankReconciliationStatus(ctx, reconciliationID, status); err != nil {
		return nil, s.translate(ctx, err, "bank reconciliation", reconciliationID)
	}
	rec.Status = status
	s.LogInfo(ctx, "Bank reconciliation updated", slog.String("reconciliation_id", reconciliationID), slog.String("status", string(status)))
	return rec, nil
}

func (s *closingDataService) RecordInventoryValuation(ctx context.Context, req dto.RecordInventoryValuationRequest) (*domain.InventoryValuation, error) {
	if err := s.requireOpenPeriod(ctx, req.PeriodID); err != nil {
		return nil, err
	}
	if err := s.requireActiveAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}
	amount, err := money.ParseAmount(string(req.Amount))
	if err != nil {
		return nil, apperrors.Newf(apperrors.KindValidation, "invalid valuation amount %q", string(req.Amount))
	}
	if amount.IsNegative() {
		return nil, apperrors.Newf(apperrors.KindValidation, "valuation amount must not be negative")
	}

	v := domain.InventoryValuation{
		ValuationID: idOrNew(req.ValuationID),
		PeriodID:    req.PeriodID,
		AccountID:   req.AccountID,
		Amount:      amount.String(),
	}
	if err := s.repo.SaveInventoryValuation(ctx, v); err != nil {
		return nil, s.translate(ctx, err, "inventory valuation", v.ValuationID)
	}
	s.LogInfo(ctx, "Inventory valuation recorded",
		slog.String("valuation_id", v.ValuationID),
		slog.String("account_id", v.AccountID),
		slog.String("amount", v.Amount))
	return &v, nil
}

func (s *closingDataService) RegisterIssuedCheck(ctx context.Context, req dto.RegisterIssuedCheckRequest) (*domain.IssuedCheck, error) {
	number := strings.TrimSpace(req.CheckNumber)
	if number == "" {
		return nil, apperrors.Newf(apperrors.KindValidation, "checkNumber is required")
	}
	if req.DueDate == nil {
		return nil, apperrors.Newf(apperrors.KindValidation, "dueDate is required")
	}
	status := req.Status
	if status == "" {
		status = domain.CheckOutstanding
	}
	if !validCheckStatus(status) {
		return nil, apperrors.Newf(apperrors.KindValidation, "unknown check status %q", status)
	}

	c := domain.IssuedCheck{
		CheckID:     idOrNew(req.CheckID),
		CheckNumber: number,
		DueDate:     domain.TruncateDay(req.DueDate.Time),
		Status:      status,
	}
	if err := s.repo.SaveIssuedCheck(ctx, c); err != nil {
		return nil, s.translate(ctx, err, "issued check", c.CheckID)
	}
	s.LogInfo(ctx, "Issued check registered", slog.String("check_id", c.CheckID), slog.String("check_number", c.CheckNumber))
	return &c, nil
}

func (s *closingDataService) UpdateIssuedCheckStatus(ctx context.Context, checkID string, status domain.CheckStatus) (*domain.IssuedCheck, error) {
	if !validCheckStatus(status) {
		return nil, apperrors.Newf(apperrors.KindValidation, "unknown check status %q", status)
	}
	c, err := s.repo.UpdateIssuedCheckStatus(ctx, checkID, status)
	if err != nil {
		return nil, s.translate(ctx, err, "issued check", checkID)
	}
	s.LogInfo(ctx, "Issued check updated", slog.String("check_id", checkID), slog.String("status", string(status)))
	return c, nil
}

// requireOpenPeriod rejects records for unknown or closed periods.
func (s *closingDataService) requireOpenPeriod(ctx context.Context, periodID string) error {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Newf(apperrors.KindValidation, "accounting period %s does not exist", periodID)
		}
		s.LogError(ctx, err, "Failed to load accounting period", slog.String("period_id", periodID))
		return fmt.Errorf("failed to load accounting period %s: %w", periodID, err)
	}
	if period.IsClosed {
		return apperrors.Newf(apperrors.KindPeriodClosed, "accounting period %s is closed", period.Name)
	}
	return nil
}

func (s *closingDataService) requireActiveAccount(ctx context.Context, accountID string) error {
	acc, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Newf(apperrors.KindValidation, "account %s does not exist", accountID)
		}
		return err
	}
	if !acc.IsActive {
		return apperrors.Newf(apperrors.KindValidation, "account %s (%s) is inactive", acc.Code, acc.Name)
	}
	return nil
}

func (s *closingDataService) translate(ctx context.Context, err error, what, id string) error {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.Newf(apperrors.KindNotFound, "%s %s not found", what, id)
	case errors.Is(err, apperrors.ErrDuplicate):
		return apperrors.Newf(apperrors.KindDuplicate, "%s %s already exists", what, id)
	case errors.Is(err, apperrors.ErrValidation):
		return apperrors.Newf(apperrors.KindValidation, "%s %s references a missing record", what, id)
	}
	s.LogError(ctx, err, "Closing data repository failure", slog.String("record", what), slog.String("id", id))
	return fmt.Errorf("failed to store %s %s: %w", what, id, err)
}

func validCheckStatus(status domain.CheckStatus) bool {
	switch status {
	case domain.CheckOutstanding, domain.CheckCleared, domain.CheckBounced:
		return true
	}
	return false
}

func idOrNew(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}
