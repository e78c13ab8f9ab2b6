package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hesabdari_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/hesabdari_ledger/internal/dto"
	"github.com/SscSPs/hesabdari_ledger/internal/utils/money"
)

// Closing check identifiers, in catalog order.
const (
	CheckDraftEntries       = "draft-entries"
	CheckTrialBalance       = "trial-balance"
	CheckPriorPeriodsClosed = "prior-periods-closed"
	CheckBankReconciliation = "bank-reconciliation"
	CheckInventoryBookMatch = "inventory-book-match"
	CheckOutstandingChecks  = "outstanding-checks"
)

// ClosingCheck is a single read-only predicate evaluated before a period may close.
// Evaluate returns nil when the check passes; the error message is reported as the
// failure reason otherwise.
type ClosingCheck interface {
	Definition() domain.ClosingCheckDefinition
	Evaluate(ctx context.Context, period domain.AccountingPeriod) error
}

// DefaultClosingChecks builds the standard closing checklist over data.
func DefaultClosingChecks(data portsrepo.ClosingDataReader, tolerance decimal.Decimal) []ClosingCheck {
	return []ClosingCheck{
		&draftEntriesCheck{data: data},
		&trialBalanceCheck{data: data, tolerance: tolerance},
		&priorPeriodsClosedCheck{data: data},
		&bankReconciliationCheck{data: data},
		&inventoryBookMatchCheck{data: data, tolerance: tolerance},
		&outstandingChecksCheck{data: data},
	}
}

type draftEntriesCheck struct {
	data portsrepo.ClosingDataReader
}

func (c *draftEntriesCheck) Definition() domain.ClosingCheckDefinition {
	return domain.ClosingCheckDefinition{
		CheckID:     CheckDraftEntries,
		Name:        "اسناد پیش‌نویس",
		Description: "No draft journal entries remain in the period",
		Category:    domain.CategoryJournal,
		Required:    true,
	}
}

func (c *draftEntriesCheck) Evaluate(ctx context.Context, period domain.AccountingPeriod) error {
	n, err := c.data.CountDraftEntries(ctx, period.PeriodID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%d draft journal entries remain in the period", n)
	}
	return nil
}

type trialBalanceCheck struct {
	data      portsrepo.ClosingDataReader
	tolerance decimal.Decimal
}

func (c *trialBalanceCheck) Definition() domain.ClosingCheckDefinition {
	return domain.ClosingCheckDefinition{
		CheckID:     CheckTrialBalance,
		Name:        "تراز آزمایشی",
		Description: "Posted debits equal posted credits and every posted entry balances",
		Category:    domain.CategoryJournal,
		Required:    true,
	}
}

func (c *trialBalanceCheck) Evaluate(ctx context.Context, period domain.AccountingPeriod) error {
	totals, err := c.data.PostedTotals(ctx, period.PeriodID)
	if err != nil {
		return err
	}
	if !money.WithinTolerance(totals.TotalDebit, totals.TotalCredit, c.tolerance) {
		return fmt.Errorf("posted debits %s and credits %s differ by %s",
			totals.TotalDebit, totals.TotalCredit, totals.TotalDebit.Sub(totals.TotalCredit).Abs())
	}
	if len(totals.UnbalancedEntries) > 0 {
		return fmt.Errorf("posted entries with unbalanced totals: %s", strings.Join(totals.UnbalancedEntries, ", "))
	}
	return nil
}

type priorPeriodsClosedCheck struct {
	data portsrepo.ClosingDataReader
}

func (c *priorPeriodsClosedCheck) Definition() domain.ClosingCheckDefinition {
	return domain.ClosingCheckDefinition{
		CheckID:     CheckPriorPeriodsClosed,
		Name:        "بستن دوره‌های قبلی",
		Description: "Every period ending before this one is closed",
		Category:    domain.CategoryPeriod,
		Required:    true,
	}
}

func (c *priorPeriodsClosedCheck) Evaluate(ctx context.Context, period domain.AccountingPeriod) error {
	periods, err := c.data.ListPeriods(ctx)
	if err != nil {
		return err
	}
	var open []string
	for _, p := range periods {
		if p.PeriodID == period.PeriodID || p.IsClosed {
			continue
		}
		if domain.TruncateDay(p.EndDate).Before(domain.TruncateDay(period.StartDate)) {
			open = append(open, p.Name)
		}
	}
	if len(open) > 0 {
		return fmt.Errorf("prior periods are still open: %s", strings.Join(open, ", "))
	}
	return nil
}

type bankReconciliationCheck struct {
	data portsrepo.ClosingDataReader
}

func (c *bankReconciliationCheck) Definition() domain.ClosingCheckDefinition {
	return domain.ClosingCheckDefinition{
		CheckID:     CheckBankReconciliation,
		Name:        "مغایرت‌گیری بانکی",
		Description: "Every bank reconciliation of the period is reconciled",
		Category:    domain.CategoryReconciliation,
		Required:    true,
	}
}

func (c *bankReconciliationCheck) Evaluate(ctx context.Context, period domain.AccountingPeriod) error {
	recs, err := c.data.ListBankReconciliations(ctx, period.PeriodID)
	if err != nil {
		return err
	}
	var pending []string
	for _, r := range recs {
		if r.Status != domain.ReconciliationReconciled {
			pending = append(pending, r.BankAccountID)
		}
	}
	if len(pending) > 0 {
		return fmt.Errorf("bank accounts not reconciled: %s", strings.Join(pending, ", "))
	}
	return nil
}

type inventoryBookMatchCheck struct {
	data      portsrepo.ClosingDataReader
	tolerance decimal.Decimal
}

func (c *inventoryBookMatchCheck) Definition() domain.ClosingCheckDefinition {
	return domain.ClosingCheckDefinition{
		CheckID:     CheckInventoryBookMatch,
		Name:        "تطبیق موجودی کالا",
		Description: "Inventory valuations match the book balance of their accounts",
		Category:    domain.CategoryInventory,
		Required:    true,
	}
}

func (c *inventoryBookMatchCheck) Evaluate(ctx context.Context, period domain.AccountingPeriod) error {
	valuations, err := c.data.ListInventoryValuations(ctx, period.PeriodID)
	if err != nil {
		return err
	}
	var mismatches []string
	for _, v := range valuations {
		counted, err := money.ParseAmount(v.Amount)
		if err != nil {
			return fmt.Errorf("inventory valuation %s: %w", v.ValuationID, err)
		}
		book, err := c.data.AccountBookBalance(ctx, v.AccountID, period.EndDate)
		if err != nil {
			return err
		}
		if !money.WithinTolerance(book, counted, c.tolerance) {
			mismatches = append(mismatches, fmt.Sprintf("%s (book %s, counted %s)", v.AccountID, book, counted))
		}
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("inventory does not match the books: %s", strings.Join(mismatches, "; "))
	}
	return nil
}

type outstandingChecksCheck struct {
	data portsrepo.ClosingDataReader
}

func (c *outstandingChecksCheck) Definition() domain.ClosingCheckDefinition {
	return domain.ClosingCheckDefinition{
		CheckID:     CheckOutstandingChecks,
		Name:        "چک‌های سررسید شده",
		Description: "No issued checks due by the period end are still outstanding",
		Category:    domain.CategoryChecks,
		Required:    false,
	}
}

func (c *outstandingChecksCheck) Evaluate(ctx context.Context, period domain.AccountingPeriod) error {
	checks, err := c.data.ListOutstandingChecksDueBy(ctx, period.EndDate)
	if err != nil {
		return err
	}
	if len(checks) > 0 {
		numbers := make([]string, len(checks))
		for i, ch := range checks {
			numbers[i] = ch.CheckNumber
		}
		return fmt.Errorf("%d issued checks due by %s are still outstanding: %s",
			len(checks), period.EndDate.Format(dto.DateLayout), strings.Join(numbers, ", "))
	}
	return nil
}
