package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hesabdari_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hesabdari_ledger/internal/core/ports/services"
	"github.com/SscSPs/hesabdari_ledger/internal/dto"
)

// periodCatalogKey serializes creates and date changes, which are checked against all periods.
const periodCatalogKey = "accounting-periods"

// periodService owns the OPEN → CLOSED lifecycle of accounting periods.
type periodService struct {
	BaseService
	periodRepo    portsrepo.PeriodRepositoryFacade
	reportingRepo portsrepo.ReportingReader
	closingChecks portssvc.ClosingCheckSvcFacade
	locks         *entityLocker
	now           func() time.Time
}

// NewPeriodService creates a new PeriodService.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade, reportingRepo portsrepo.ReportingReader, closingChecks portssvc.ClosingCheckSvcFacade) portssvc.PeriodSvcFacade {
	return &periodService{
		periodRepo:    periodRepo,
		reportingRepo: reportingRepo,
		closingChecks: closingChecks,
		locks:         newEntityLocker(),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

func (s *periodService) CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, actorID string) (*domain.AccountingPeriod, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Newf(apperrors.KindValidation, "name is required")
	}
	if req.StartDate == nil || req.EndDate == nil {
		return nil, apperrors.Newf(apperrors.KindValidation, "startDate and endDate are required")
	}
	start, end := domain.TruncateDay(req.StartDate.Time), domain.TruncateDay(req.EndDate.Time)
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(periodCatalogKey)
	defer unlock()

	if err := s.ensureNoOverlap(ctx, "", start, end); err != nil {
		return nil, err
	}

	now := s.now()
	period := domain.AccountingPeriod{
		PeriodID:      uuid.NewString(),
		Name:          name,
		StartDate:     start,
		EndDate:       end,
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
		NetIncome:     decimal.Zero,
		Version:       1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		return nil, s.translate(ctx, err, period.PeriodID, "save")
	}

	s.LogInfo(ctx, "Accounting period created",
		slog.String("period_id", period.PeriodID),
		slog.String("name", period.Name),
		slog.String("start", start.Format(dto.DateLayout)),
		slog.String("end", end.Format(dto.DateLayout)))
	return &period, nil
}

func (s *periodService) GetPeriod(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, s.translate(ctx, err, periodID, "find")
	}
	return period, nil
}

func (s *periodService) ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	periods, err := s.periodRepo.ListPeriods(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounting periods")
		return nil, fmt.Errorf("failed to list accounting periods: %w", err)
	}
	return periods, nil
}

// UpdatePeriod renames an open period or moves its dates.
func (s *periodService) UpdatePeriod(ctx context.Context, periodID string, req dto.UpdatePeriodRequest, actorID string) (*domain.AccountingPeriod, error) {
	unlock := s.locks.Lock(periodCatalogKey)
	defer unlock()

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, s.translate(ctx, err, periodID, "find")
	}
	if period.IsClosed {
		return nil, apperrors.Newf(apperrors.KindPeriodClosed, "accounting period %s is closed and cannot be modified", period.Name)
	}
	if req.Version != nil && *req.Version != period.Version {
		return nil, apperrors.NewLedgerError(apperrors.KindConflict,
			fmt.Sprintf("accounting period %s was modified concurrently", periodID),
			map[string]any{"expectedVersion": *req.Version, "currentVersion": period.Version})
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Newf(apperrors.KindValidation, "name must not be empty")
		}
		period.Name = name
	}
	if req.StartDate != nil {
		period.StartDate = domain.TruncateDay(req.StartDate.Time)
	}
	if req.EndDate != nil {
		period.EndDate = domain.TruncateDay(req.EndDate.Time)
	}
	if err := validateDateRange(period.StartDate, period.EndDate); err != nil {
		return nil, err
	}
	if err := s.ensureNoOverlap(ctx, period.PeriodID, period.StartDate, period.EndDate); err != nil {
		return nil, err
	}

	expected := period.Version
	period.Version++
	period.Touch(actorID, s.now())

	if err := s.periodRepo.UpdateOpenPeriod(ctx, *period, expected); err != nil {
		return nil, s.translate(ctx, err, periodID, "update")
	}

	s.LogInfo(ctx, "Accounting period updated", slog.String("period_id", periodID), slog.Int64("version", period.Version))
	return period, nil
}

// ClosePeriod runs the full checklist and, only when it allows closing, stores
// the closure. The repository recounts drafts and recomputes the income statement
// aggregates under the period lock, so entries written after the checklist ran
// either block the close or are included in the stored totals.
func (s *periodService) ClosePeriod(ctx context.Context, periodID string, req dto.ClosePeriodRequest, actorID string) (*domain.PeriodCloseResult, error) {
	unlock := s.locks.Lock(periodID)
	defer unlock()

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, s.translate(ctx, err, periodID, "find")
	}
	if period.IsClosed {
		return nil, apperrors.Newf(apperrors.KindAlreadyClosed, "accounting period %s is already closed", period.Name)
	}

	run, err := s.closingChecks.RunClosingChecks(ctx, periodID, nil)
	if err != nil {
		return nil, err
	}
	if !run.Summary.CanClose {
		return s.blockedClose(ctx, period, run)
	}

	now := s.now()
	closingDate := period.EndDate
	if req.ClosingDate != nil {
		closingDate = domain.TruncateDay(req.ClosingDate.Time)
	}
	closure := domain.PeriodClosure{
		ClosedAt:    now,
		ClosedBy:    actorID,
		ClosingDate: closingDate,
		ClosingNote: strings.TrimSpace(req.Description),
	}

	aggregates, err := s.periodRepo.ClosePeriod(ctx, periodID, period.Version, closure)
	if errors.Is(err, apperrors.ErrClosingChecksFailed) {
		// A draft arrived between the checklist and the period lock.
		s.LogWarn(ctx, "Period changed while closing", slog.String("period_id", periodID), slog.String("error", err.Error()))
		rerun, rerunErr := s.closingChecks.RunClosingChecks(ctx, periodID, nil)
		if rerunErr != nil {
			return nil, rerunErr
		}
		if !rerun.Summary.CanClose {
			return s.blockedClose(ctx, period, rerun)
		}
		return nil, apperrors.Newf(apperrors.KindClosingChecksFailed,
			"accounting period %s changed while closing, run the close again", period.Name)
	}
	if err != nil {
		return nil, s.translate(ctx, err, periodID, "close")
	}

	period.IsClosed = true
	period.ClosedAt = &closure.ClosedAt
	period.ClosedBy = actorID
	period.ClosingDate = &closure.ClosingDate
	period.ClosingNote = closure.ClosingNote
	period.TotalRevenue = aggregates.TotalRevenue
	period.TotalExpenses = aggregates.TotalExpenses
	period.NetIncome = aggregates.NetIncome
	period.Version++
	period.Touch(actorID, now)

	s.LogInfo(ctx, "Accounting period closed",
		slog.String("period_id", periodID),
		slog.String("closed_by", actorID),
		slog.String("net_income", aggregates.NetIncome.String()))
	return &domain.PeriodCloseResult{Period: period, Checks: *run, FailedChecks: run.Failed()}, nil
}

// blockedClose reports a checklist run that does not allow closing. The period is left unchanged.
func (s *periodService) blockedClose(ctx context.Context, period *domain.AccountingPeriod, run *domain.ClosingCheckRun) (*domain.PeriodCloseResult, error) {
	result := &domain.PeriodCloseResult{
		Period:       period,
		Checks:       *run,
		FailedChecks: run.Failed(),
	}
	s.LogWarn(ctx, "Period close blocked by closing checks",
		slog.String("period_id", period.PeriodID),
		slog.Int("failed", run.Summary.Failed))
	return result, apperrors.NewLedgerError(apperrors.KindClosingChecksFailed,
		fmt.Sprintf("accounting period %s cannot be closed: %d closing checks failed", period.Name, run.Summary.Failed),
		map[string]any{
			"failedChecks": result.FailedChecks,
			"results":      run.Results,
			"summary":      run.Summary,
		})
}

func (s *periodService) DeletePeriod(ctx context.Context, periodID string, actorID string) error {
	unlock := s.locks.Lock(periodID)
	defer unlock()

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return s.translate(ctx, err, periodID, "find")
	}
	if period.IsClosed {
		return apperrors.Newf(apperrors.KindPeriodClosed, "accounting period %s is closed and cannot be deleted", period.Name)
	}

	if err := s.periodRepo.DeleteOpenPeriod(ctx, periodID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.Newf(apperrors.KindConflict, "accounting period %s still has journal entries", period.Name)
		}
		return s.translate(ctx, err, periodID, "delete")
	}

	s.LogInfo(ctx, "Accounting period deleted", slog.String("period_id", periodID), slog.String("deleted_by", actorID))
	return nil
}

func (s *periodService) GetPeriodTrialBalance(ctx context.Context, periodID string) (*domain.TrialBalance, error) {
	if _, err := s.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	rows, err := s.reportingRepo.TrialBalanceByPeriod(ctx, periodID)
	if err != nil {
		s.LogError(ctx, err, "Failed to build trial balance", slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to build trial balance for period %s: %w", periodID, err)
	}
	tb := &domain.TrialBalance{PeriodID: periodID, Rows: rows, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, r := range rows {
		tb.TotalDebit = tb.TotalDebit.Add(r.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(r.Credit)
	}
	return tb, nil
}

func (s *periodService) ensureNoOverlap(ctx context.Context, selfID string, start, end time.Time) error {
	periods, err := s.periodRepo.ListPeriods(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list periods for overlap check")
		return fmt.Errorf("failed to list accounting periods: %w", err)
	}
	for _, p := range periods {
		if p.PeriodID == selfID {
			continue
		}
		if p.Overlaps(start, end) {
			return apperrors.NewLedgerError(apperrors.KindOverlappingPeriod,
				fmt.Sprintf("period %s to %s overlaps accounting period %s (%s to %s)",
					start.Format(dto.DateLayout), end.Format(dto.DateLayout),
					p.Name, p.StartDate.Format(dto.DateLayout), p.EndDate.Format(dto.DateLayout)),
				map[string]any{"conflictingPeriodID": p.PeriodID, "conflictingPeriodName": p.Name})
		}
	}
	return nil
}

func validateDateRange(start, end time.Time) error {
	if !end.After(start) {
		return apperrors.NewLedgerError(apperrors.KindInvalidDateRange,
			fmt.Sprintf("end date %s must be after start date %s", end.Format(dto.DateLayout), start.Format(dto.DateLayout)),
			map[string]any{"startDate": start.Format(dto.DateLayout), "endDate": end.Format(dto.DateLayout)})
	}
	return nil
}

func (s *periodService) translate(ctx context.Context, err error, periodID string, op string) error {
	var le *apperrors.LedgerError
	switch {
	case errors.As(err, &le):
		return err
	case errors.Is(err, apperrors.ErrEntriesOutsidePeriod):
		return apperrors.NewLedgerError(apperrors.KindValidation,
			fmt.Sprintf("accounting period %s has journal entries outside the new date range", periodID),
			map[string]any{"reason": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.Newf(apperrors.KindNotFound, "accounting period %s not found", periodID)
	case errors.Is(err, apperrors.ErrAlreadyClosed):
		return apperrors.Newf(apperrors.KindAlreadyClosed, "accounting period %s is already closed", periodID)
	case errors.Is(err, apperrors.ErrPeriodClosed):
		return apperrors.Newf(apperrors.KindPeriodClosed, "accounting period %s is closed", periodID)
	case errors.Is(err, apperrors.ErrOverlappingPeriod):
		return apperrors.Newf(apperrors.KindOverlappingPeriod, "accounting period overlaps an existing period")
	case errors.Is(err, apperrors.ErrConflict):
		return apperrors.Newf(apperrors.KindConflict, "accounting period %s was modified concurrently", periodID)
	}
	s.LogError(ctx, err, "Period repository failure", slog.String("period_id", periodID), slog.String("op", op))
	return fmt.Errorf("failed to %s accounting period %s: %w", op, periodID, err)
}
