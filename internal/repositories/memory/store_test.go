package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
)

func seededStore(t *testing.T) (*Store, domain.AccountingPeriod) {
	t.Helper()
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.SeedDefaultAccounts(ctx, "system", time.Now()))
	p := domain.AccountingPeriod{
		PeriodID:  "p-1",
		Name:      "دی",
		StartDate: time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC),
		Version:   1,
	}
	require.NoError(t, s.SavePeriod(ctx, p))
	return s, p
}

func draft(id, number, periodID string) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:   id,
		Number:    number,
		EntryDate: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		PeriodID:  periodID,
		Status:    domain.Draft,
		Lines: []domain.JournalLine{
			{LineNo: 1, AccountID: domain.DefaultAccountID("1101"), Debit: decimal.NewFromInt(10), Credit: decimal.Zero},
			{LineNo: 2, AccountID: domain.DefaultAccountID("3101"), Debit: decimal.Zero, Credit: decimal.NewFromInt(10)},
		},
		TotalDebit:  decimal.NewFromInt(10),
		TotalCredit: decimal.NewFromInt(10),
		Version:     1,
	}
}

func TestJournalWriterGuards(t *testing.T) {
	s, p := seededStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.SaveJournalEntry(ctx, draft("e-1", "JE-1", p.PeriodID)))
	assert.ErrorIs(t, s.SaveJournalEntry(ctx, draft("e-2", "JE-1", p.PeriodID)), apperrors.ErrDuplicate)

	assert.ErrorIs(t, s.PostJournalEntry(ctx, "nope", 1, "u", now), apperrors.ErrNotFound)
	assert.ErrorIs(t, s.PostJournalEntry(ctx, "e-1", 7, "u", now), apperrors.ErrConflict)
	require.NoError(t, s.PostJournalEntry(ctx, "e-1", 1, "u", now))
	assert.ErrorIs(t, s.PostJournalEntry(ctx, "e-1", 2, "u", now), apperrors.ErrInvalidStateTransition)
	assert.ErrorIs(t, s.DeleteDraftJournalEntry(ctx, "e-1", 2), apperrors.ErrInvalidStateTransition)

	got, err := s.FindJournalEntryByID(ctx, "e-1")
	require.NoError(t, err)
	assert.Equal(t, domain.Posted, got.Status)
	assert.Equal(t, int64(2), got.Version)

	got.Lines[0].Debit = decimal.NewFromInt(999)
	again, err := s.FindJournalEntryByID(ctx, "e-1")
	require.NoError(t, err)
	assert.True(t, again.Lines[0].Debit.Equal(decimal.NewFromInt(10)), "callers must not alias stored lines")
}

func TestClosedPeriodRejectsWrites(t *testing.T) {
	s, p := seededStore(t)
	ctx := context.Background()
	closure := domain.PeriodClosure{ClosedAt: time.Now(), ClosedBy: "u"}

	sale := draft("e-1", "JE-1", p.PeriodID)
	sale.Lines[1].AccountID = domain.DefaultAccountID("4101")
	require.NoError(t, s.SaveJournalEntry(ctx, sale))

	_, err := s.ClosePeriod(ctx, p.PeriodID, 1, closure)
	assert.ErrorIs(t, err, apperrors.ErrClosingChecksFailed, "a draft in the period blocks the close")
	stored, err := s.FindPeriodByID(ctx, p.PeriodID)
	require.NoError(t, err)
	assert.False(t, stored.IsClosed)
	assert.Equal(t, int64(1), stored.Version)

	require.NoError(t, s.PostJournalEntry(ctx, "e-1", 1, "u", time.Now()))
	aggregates, err := s.ClosePeriod(ctx, p.PeriodID, 1, closure)
	require.NoError(t, err)
	assert.True(t, aggregates.TotalRevenue.Equal(decimal.NewFromInt(10)))
	assert.True(t, aggregates.NetIncome.Equal(decimal.NewFromInt(10)))

	closed, err := s.FindPeriodByID(ctx, p.PeriodID)
	require.NoError(t, err)
	assert.True(t, closed.IsClosed)
	assert.True(t, closed.TotalRevenue.Equal(decimal.NewFromInt(10)))

	_, err = s.ClosePeriod(ctx, p.PeriodID, 2, domain.PeriodClosure{})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyClosed)
	assert.ErrorIs(t, s.SaveJournalEntry(ctx, draft("e-2", "JE-2", p.PeriodID)), apperrors.ErrPeriodClosed)
	assert.ErrorIs(t, s.DeleteOpenPeriod(ctx, p.PeriodID), apperrors.ErrPeriodClosed)
	assert.ErrorIs(t, s.UpdateOpenPeriod(ctx, p, 2), apperrors.ErrPeriodClosed)
}

func TestUpdateOpenPeriodKeepsEntriesInside(t *testing.T) {
	s, p := seededStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveJournalEntry(ctx, draft("e-1", "JE-1", p.PeriodID)))

	moved := p
	moved.StartDate = time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	moved.Version = 2
	assert.ErrorIs(t, s.UpdateOpenPeriod(ctx, moved, 1), apperrors.ErrEntriesOutsidePeriod)
	assert.ErrorIs(t, s.UpdateOpenPeriod(ctx, moved, 1), apperrors.ErrValidation)

	stored, err := s.FindPeriodByID(ctx, p.PeriodID)
	require.NoError(t, err)
	assert.True(t, stored.StartDate.Equal(p.StartDate))
	assert.Equal(t, int64(1), stored.Version)

	moved.StartDate = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpdateOpenPeriod(ctx, moved, 1), "an entry on the new start date stays inside")
}

func TestPeriodOverlapBackstop(t *testing.T) {
	s, p := seededStore(t)
	ctx := context.Background()

	overlapping := domain.AccountingPeriod{
		PeriodID:  "p-2",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	assert.ErrorIs(t, s.SavePeriod(ctx, overlapping), apperrors.ErrOverlappingPeriod)

	moved := p
	moved.EndDate = time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	moved.Version = 2
	require.NoError(t, s.UpdateOpenPeriod(ctx, moved, 1))
	assert.ErrorIs(t, s.UpdateOpenPeriod(ctx, moved, 1), apperrors.ErrConflict)
}

func TestListJournalEntriesPagesThroughTies(t *testing.T) {
	s, p := seededStore(t)
	ctx := context.Background()
	created := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	for _, id := range []string{"e-1", "e-2", "e-3"} {
		e := draft(id, "JE-"+id, p.PeriodID)
		e.CreatedAt = created
		require.NoError(t, s.SaveJournalEntry(ctx, e))
	}

	var seen []string
	var token *string
	for page := 0; page < 5; page++ {
		entries, next, err := s.ListJournalEntries(ctx, domain.JournalEntryFilter{PeriodID: p.PeriodID}, 1, token)
		require.NoError(t, err)
		for _, e := range entries {
			seen = append(seen, e.EntryID)
		}
		if next == nil {
			break
		}
		token = next
	}
	assert.Equal(t, []string{"e-3", "e-2", "e-1"}, seen)

	bad := "bm90LWEtdG9rZW4="
	_, _, err := s.ListJournalEntries(ctx, domain.JournalEntryFilter{}, 1, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNextJournalNumber(t *testing.T) {
	s := NewStore()
	first, err := s.NextJournalNumber(context.Background())
	require.NoError(t, err)
	second, err := s.NextJournalNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "JE-000001", first)
	assert.Equal(t, "JE-000002", second)
}

func TestClosingDataQueries(t *testing.T) {
	s, p := seededStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveJournalEntry(ctx, draft("e-1", "JE-1", p.PeriodID)))
	require.NoError(t, s.SaveJournalEntry(ctx, draft("e-2", "JE-2", p.PeriodID)))
	require.NoError(t, s.PostJournalEntry(ctx, "e-1", 1, "u", time.Now()))

	drafts, err := s.CountDraftEntries(ctx, p.PeriodID)
	require.NoError(t, err)
	assert.Equal(t, 1, drafts)

	totals, err := s.PostedTotals(ctx, p.PeriodID)
	require.NoError(t, err)
	assert.True(t, totals.TotalDebit.Equal(decimal.NewFromInt(10)))
	assert.Empty(t, totals.UnbalancedEntries)

	balance, err := s.AccountBookBalance(ctx, domain.DefaultAccountID("1101"), p.EndDate)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(10)))

	early, err := s.AccountBookBalance(ctx, domain.DefaultAccountID("1101"), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, early.IsZero())

	rows, err := s.TrialBalanceByPeriod(ctx, p.PeriodID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.Equity, rows[1].AccountType)

	require.NoError(t, s.SaveIssuedCheck(ctx, domain.IssuedCheck{CheckID: "c-1", CheckNumber: "1", DueDate: p.EndDate, Status: domain.CheckOutstanding}))
	require.NoError(t, s.SaveIssuedCheck(ctx, domain.IssuedCheck{CheckID: "c-2", CheckNumber: "2", DueDate: p.EndDate, Status: domain.CheckCleared}))
	require.NoError(t, s.SaveIssuedCheck(ctx, domain.IssuedCheck{CheckID: "c-3", CheckNumber: "3", DueDate: p.EndDate.AddDate(0, 0, 1), Status: domain.CheckOutstanding}))
	due, err := s.ListOutstandingChecksDueBy(ctx, p.EndDate)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "c-1", due[0].CheckID)
}
