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

const defaultJournalPageSize = 20

// journalService owns the DRAFT → POSTED / CANCELLED lifecycle of journal entries.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	periodRepo  portsrepo.PeriodReader
	accountSvc  portssvc.AccountSvcFacade
	tolerance   decimal.Decimal
	locks       *entityLocker
	now         func() time.Time
}

// JournalServiceOption configures the journal service.
type JournalServiceOption func(*journalService)

// WithBalanceTolerance overrides DefaultBalanceTolerance.
func WithBalanceTolerance(tolerance decimal.Decimal) JournalServiceOption {
	return func(s *journalService) {
		s.tolerance = tolerance
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, periodRepo portsrepo.PeriodReader, accountSvc portssvc.AccountSvcFacade, opts ...JournalServiceOption) portssvc.JournalSvcFacade {
	s := &journalService{
		journalRepo: journalRepo,
		periodRepo:  periodRepo,
		accountSvc:  accountSvc,
		tolerance:   DefaultBalanceTolerance,
		locks:       newEntityLocker(),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateJournalEntry validates the submission and stores it as a DRAFT entry.
func (s *journalService) CreateJournalEntry(ctx context.Context, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	if req.Date == nil {
		return nil, apperrors.Newf(apperrors.KindValidation, "date is required")
	}
	if strings.TrimSpace(req.PeriodID) == "" {
		return nil, apperrors.Newf(apperrors.KindValidation, "periodID is required")
	}
	entryDate := domain.TruncateDay(req.Date.Time)

	if _, err := s.requireOpenPeriod(ctx, req.PeriodID, entryDate); err != nil {
		return nil, err
	}

	validated, err := s.validateLines(ctx, dto.ToLineInputs(req.Items))
	if err != nil {
		return nil, err
	}

	number := strings.TrimSpace(req.Number)
	if number == "" {
		number, err = s.journalRepo.NextJournalNumber(ctx)
		if err != nil {
			s.LogError(ctx, err, "Failed to reserve journal number")
			return nil, fmt.Errorf("failed to reserve journal number: %w", err)
		}
	}

	now := s.now()
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		Number:      number,
		EntryDate:   entryDate,
		Description: strings.TrimSpace(req.Description),
		PeriodID:    req.PeriodID,
		Status:      domain.Draft,
		TotalDebit:  validated.TotalDebit,
		TotalCredit: validated.TotalCredit,
		Version:     1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	entry.Lines = attachLines(entry.EntryID, validated.Lines)

	if err := s.journalRepo.SaveJournalEntry(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.Newf(apperrors.KindDuplicate, "journal entry number %s already exists", number)
		}
		return nil, s.translate(ctx, err, entry.EntryID, "save")
	}

	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("number", entry.Number),
		slog.String("period_id", entry.PeriodID),
		slog.String("total", entry.TotalDebit.String()))
	return &entry, nil
}

// GetJournalEntry retrieves an entry with its lines.
func (s *journalService) GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, entryID)
	if err != nil {
		return nil, s.translate(ctx, err, entryID, "find")
	}
	return entry, nil
}

// ListJournalEntries retrieves a page of entries, newest first.
func (s *journalService) ListJournalEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultJournalPageSize
	}
	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}
	filter := domain.JournalEntryFilter{
		PeriodID: params.PeriodID,
		Status:   domain.JournalStatus(params.Status),
	}

	entries, next, err := s.journalRepo.ListJournalEntries(ctx, filter, limit, nextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return nil, apperrors.Newf(apperrors.KindValidation, "invalid nextToken")
		}
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	resp := dto.ToListJournalEntriesResponse(entries, next)
	s.LogDebug(ctx, "Journal entries listed", slog.Int("count", len(entries)))
	return &resp, nil
}

// UpdateJournalEntry applies a partial update to a DRAFT entry. Lines, when
// supplied, replace the existing ones after passing the validator again.
func (s *journalService) UpdateJournalEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	unlock := s.locks.Lock(entryID)
	defer unlock()

	entry, err := s.loadDraft(ctx, entryID, "edited")
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != entry.Version {
		return nil, apperrors.NewLedgerError(apperrors.KindConflict,
			fmt.Sprintf("journal entry %s was modified concurrently", entryID),
			map[string]any{"expectedVersion": *req.Version, "currentVersion": entry.Version})
	}

	if req.Number != nil {
		number := strings.TrimSpace(*req.Number)
		if number == "" {
			return nil, apperrors.Newf(apperrors.KindValidation, "number must not be empty")
		}
		entry.Number = number
	}
	if req.Date != nil {
		entry.EntryDate = domain.TruncateDay(req.Date.Time)
	}
	if req.Description != nil {
		entry.Description = strings.TrimSpace(*req.Description)
	}
	if req.PeriodID != nil {
		entry.PeriodID = *req.PeriodID
	}

	if _, err := s.requireOpenPeriod(ctx, entry.PeriodID, entry.EntryDate); err != nil {
		return nil, err
	}

	if req.Items != nil {
		validated, err := s.validateLines(ctx, dto.ToLineInputs(req.Items))
		if err != nil {
			return nil, err
		}
		entry.Lines = attachLines(entry.EntryID, validated.Lines)
		entry.TotalDebit = validated.TotalDebit
		entry.TotalCredit = validated.TotalCredit
	}

	expected := entry.Version
	entry.Version++
	entry.Touch(actorID, s.now())

	if err := s.journalRepo.UpdateDraftJournalEntry(ctx, *entry, expected); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.Newf(apperrors.KindDuplicate, "journal entry number %s already exists", entry.Number)
		}
		return nil, s.translate(ctx, err, entryID, "update")
	}

	s.LogInfo(ctx, "Journal entry updated", slog.String("entry_id", entryID), slog.Int64("version", entry.Version))
	return entry, nil
}

// PostJournalEntry moves a DRAFT entry to POSTED. Posting is irreversible.
func (s *journalService) PostJournalEntry(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error) {
	unlock := s.locks.Lock(entryID)
	defer unlock()

	entry, err := s.loadDraft(ctx, entryID, "posted")
	if err != nil {
		return nil, err
	}
	if _, err := s.requireOpenPeriod(ctx, entry.PeriodID, entry.EntryDate); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.journalRepo.PostJournalEntry(ctx, entryID, entry.Version, actorID, now); err != nil {
		return nil, s.translate(ctx, err, entryID, "post")
	}

	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = actorID
	entry.Version++
	entry.Touch(actorID, now)

	s.LogInfo(ctx, "Journal entry posted", slog.String("entry_id", entryID), slog.String("number", entry.Number))
	return entry, nil
}

// CancelJournalEntry moves a DRAFT entry to CANCELLED.
func (s *journalService) CancelJournalEntry(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error) {
	unlock := s.locks.Lock(entryID)
	defer unlock()

	entry, err := s.loadDraft(ctx, entryID, "cancelled")
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.journalRepo.CancelJournalEntry(ctx, entryID, entry.Version, actorID, now); err != nil {
		return nil, s.translate(ctx, err, entryID, "cancel")
	}

	entry.Status = domain.Cancelled
	entry.CancelledAt = &now
	entry.CancelledBy = actorID
	entry.Version++
	entry.Touch(actorID, now)

	s.LogInfo(ctx, "Journal entry cancelled", slog.String("entry_id", entryID))
	return entry, nil
}

// DeleteJournalEntry removes a DRAFT entry and its lines.
func (s *journalService) DeleteJournalEntry(ctx context.Context, entryID string, actorID string) error {
	unlock := s.locks.Lock(entryID)
	defer unlock()

	entry, err := s.loadDraft(ctx, entryID, "deleted")
	if err != nil {
		return err
	}

	if err := s.journalRepo.DeleteDraftJournalEntry(ctx, entryID, entry.Version); err != nil {
		return s.translate(ctx, err, entryID, "delete")
	}

	s.LogInfo(ctx, "Journal entry deleted", slog.String("entry_id", entryID), slog.String("deleted_by", actorID))
	return nil
}

// loadDraft fetches the entry and rejects it unless it is still a DRAFT.
func (s *journalService) loadDraft(ctx context.Context, entryID string, action string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, entryID)
	if err != nil {
		return nil, s.translate(ctx, err, entryID, "find")
	}
	if !entry.IsDraft() {
		return nil, apperrors.NewLedgerError(apperrors.KindInvalidStateTransition,
			fmt.Sprintf("journal entry %s is %s; only DRAFT entries can be %s", entry.Number, entry.Status, action),
			map[string]any{"status": entry.Status})
	}
	return entry, nil
}

// requireOpenPeriod checks that the period exists, is open and contains date.
func (s *journalService) requireOpenPeriod(ctx context.Context, periodID string, date time.Time) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.KindValidation, "accounting period %s does not exist", periodID)
		}
		s.LogError(ctx, err, "Failed to find accounting period", slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to find accounting period %s: %w", periodID, err)
	}
	if period.IsClosed {
		return nil, apperrors.Newf(apperrors.KindPeriodClosed, "accounting period %s is closed", period.Name)
	}
	if !period.Contains(date) {
		return nil, apperrors.Newf(apperrors.KindValidation, "date %s is outside accounting period %s (%s to %s)",
			date.Format(dto.DateLayout), period.Name, period.StartDate.Format(dto.DateLayout), period.EndDate.Format(dto.DateLayout))
	}
	return period, nil
}

func (s *journalService) validateLines(ctx context.Context, lines []domain.LineInput) (*domain.ValidatedLines, error) {
	accountIDs := make([]string, len(lines))
	for i, l := range lines {
		accountIDs[i] = l.AccountID
	}
	accounts, err := s.accountSvc.ResolveAccounts(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	validated, err := ValidateJournalLines(lines, accounts, s.tolerance)
	if err != nil {
		s.LogDebug(ctx, "Journal lines rejected", slog.String("reason", err.Error()))
		return nil, err
	}
	return validated, nil
}

// translate maps repository sentinels onto ledger errors carrying the entry id.
func (s *journalService) translate(ctx context.Context, err error, entryID string, op string) error {
	var le *apperrors.LedgerError
	switch {
	case errors.As(err, &le):
		return err
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.Newf(apperrors.KindNotFound, "journal entry %s not found", entryID)
	case errors.Is(err, apperrors.ErrInvalidStateTransition):
		return apperrors.Newf(apperrors.KindInvalidStateTransition, "journal entry %s is no longer a draft", entryID)
	case errors.Is(err, apperrors.ErrConflict):
		return apperrors.Newf(apperrors.KindConflict, "journal entry %s was modified concurrently", entryID)
	case errors.Is(err, apperrors.ErrPeriodClosed):
		return apperrors.Newf(apperrors.KindPeriodClosed, "accounting period of journal entry %s is closed", entryID)
	}
	s.LogError(ctx, err, "Journal repository failure", slog.String("entry_id", entryID), slog.String("op", op))
	return fmt.Errorf("failed to %s journal entry %s: %w", op, entryID, err)
}

func attachLines(entryID string, lines []domain.JournalLine) []domain.JournalLine {
	out := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		l.LineID = uuid.NewString()
		l.EntryID = entryID
		out[i] = l
	}
	return out
}
