package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hesabdari_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hesabdari_ledger/internal/core/ports/services"
)

// closingCheckService runs the closing checklist. Checks are independent and
// read-only, so a run evaluates them concurrently.
type closingCheckService struct {
	BaseService
	periodRepo            portsrepo.PeriodReader
	checks                []ClosingCheck
	allowOptionalFailures bool
	now                   func() time.Time
}

// ClosingCheckOption configures the closing check service.
type ClosingCheckOption func(*closingCheckService)

// WithOptionalFailuresAllowed lets a period close when only non-required checks fail.
func WithOptionalFailuresAllowed(allow bool) ClosingCheckOption {
	return func(s *closingCheckService) {
		s.allowOptionalFailures = allow
	}
}

// NewClosingCheckService creates a checklist runner over the given checks, kept in catalog order.
func NewClosingCheckService(periodRepo portsrepo.PeriodReader, checks []ClosingCheck, opts ...ClosingCheckOption) portssvc.ClosingCheckSvcFacade {
	s := &closingCheckService{
		periodRepo: periodRepo,
		checks:     checks,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ClosingCheckSvcFacade = (*closingCheckService)(nil)

func (s *closingCheckService) ListClosingChecks(ctx context.Context) []domain.ClosingCheckDefinition {
	defs := make([]domain.ClosingCheckDefinition, len(s.checks))
	for i, c := range s.checks {
		defs[i] = c.Definition()
	}
	return defs
}

func (s *closingCheckService) RunClosingChecks(ctx context.Context, periodID string, checkIDs []string) (*domain.ClosingCheckRun, error) {
	selected, err := s.selectChecks(checkIDs)
	if err != nil {
		return nil, err
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.KindNotFound, "accounting period %s not found", periodID)
		}
		s.LogError(ctx, err, "Failed to load period for closing checks", slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to find accounting period %s: %w", periodID, err)
	}

	results := make([]domain.ClosingCheckResult, len(selected))
	var g errgroup.Group
	for i, check := range selected {
		i, check := i, check
		g.Go(func() error {
			results[i] = s.evaluate(ctx, check, *period)
			return nil
		})
	}
	// Failures are recorded in the results.
	_ = g.Wait()

	run := &domain.ClosingCheckRun{
		PeriodID: periodID,
		Results:  results,
		Summary:  SummarizeClosingChecks(results, s.allowOptionalFailures),
	}

	s.LogInfo(ctx, "Closing checks executed",
		slog.String("period_id", periodID),
		slog.Int("total", run.Summary.Total),
		slog.Int("failed", run.Summary.Failed),
		slog.Bool("can_close", run.Summary.CanClose))
	return run, nil
}

// selectChecks resolves the requested ids against the catalog, preserving catalog order.
func (s *closingCheckService) selectChecks(checkIDs []string) ([]ClosingCheck, error) {
	if len(checkIDs) == 0 {
		return s.checks, nil
	}
	known := make(map[string]struct{}, len(s.checks))
	for _, c := range s.checks {
		known[c.Definition().CheckID] = struct{}{}
	}
	wanted := make(map[string]struct{}, len(checkIDs))
	for _, id := range checkIDs {
		if _, ok := known[id]; !ok {
			return nil, apperrors.NewLedgerError(apperrors.KindValidation,
				fmt.Sprintf("unknown closing check %q", id),
				map[string]any{"checkID": id})
		}
		wanted[id] = struct{}{}
	}
	selected := make([]ClosingCheck, 0, len(wanted))
	for _, c := range s.checks {
		if _, ok := wanted[c.Definition().CheckID]; ok {
			selected = append(selected, c)
		}
	}
	return selected, nil
}

// evaluate runs one check and always yields a COMPLETED or FAILED result, panics included.
func (s *closingCheckService) evaluate(ctx context.Context, check ClosingCheck, period domain.AccountingPeriod) (res domain.ClosingCheckResult) {
	def := check.Definition()
	res = domain.ClosingCheckResult{
		CheckID:  def.CheckID,
		Name:     def.Name,
		Category: def.Category,
		Required: def.Required,
		PeriodID: period.PeriodID,
	}

	defer func() {
		if r := recover(); r != nil {
			s.LogError(ctx, fmt.Errorf("%v", r), "Closing check panicked", slog.String("check_id", def.CheckID))
			res.Status = domain.CheckFailed
			res.ErrorMessage = fmt.Sprintf("check aborted: %v", r)
			res.ExecutedAt = s.now()
		}
	}()

	err := check.Evaluate(ctx, period)
	res.ExecutedAt = s.now()
	if err != nil {
		res.Status = domain.CheckFailed
		res.ErrorMessage = err.Error()
		return res
	}
	res.Status = domain.CheckCompleted
	return res
}

// SummarizeClosingChecks aggregates results. By default any failure blocks
// closing; with allowOptionalFailures only required failures do.
func SummarizeClosingChecks(results []domain.ClosingCheckResult, allowOptionalFailures bool) domain.ClosingCheckSummary {
	sum := domain.ClosingCheckSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case domain.CheckCompleted:
			sum.Completed++
		default:
			sum.Failed++
			if r.Required {
				sum.RequiredFailed++
			}
		}
	}
	if sum.Total > 0 {
		sum.SuccessRate = int(math.Round(float64(sum.Completed) * 100 / float64(sum.Total)))
	}
	if allowOptionalFailures {
		sum.CanClose = sum.RequiredFailed == 0
	} else {
		sum.CanClose = sum.Failed == 0
	}
	return sum
}
