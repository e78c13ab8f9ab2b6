package services

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	"github.com/SscSPs/hesabdari_ledger/internal/utils/money"
	"github.com/shopspring/decimal"
)

// DefaultBalanceTolerance is the largest debit/credit difference still treated as balanced.
var DefaultBalanceTolerance = decimal.New(1, -2)

// ValidateJournalLines enforces the double-entry rules on a candidate set of lines:
// at least two lines, non-negative parseable amounts on known active accounts,
// debits equal to credits within tolerance, and both sides represented.
// It has no side effects; on success lines are numbered from 1 and carry the
// resolved account code and name.
func ValidateJournalLines(lines []domain.LineInput, accounts map[string]domain.Account, tolerance decimal.Decimal) (*domain.ValidatedLines, error) {
	if len(lines) < 2 {
		return nil, apperrors.NewLedgerError(apperrors.KindTooFewLines,
			fmt.Sprintf("journal entry must have at least two lines, got %d", len(lines)),
			map[string]any{"lineCount": len(lines)})
	}

	out := &domain.ValidatedLines{
		Lines:       make([]domain.JournalLine, 0, len(lines)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	hasDebit, hasCredit := false, false

	for i, in := range lines {
		lineNo := i + 1
		debit, err := parseLineAmount(in.Debit, lineNo, "debit")
		if err != nil {
			return nil, err
		}
		credit, err := parseLineAmount(in.Credit, lineNo, "credit")
		if err != nil {
			return nil, err
		}

		acc, ok := accounts[in.AccountID]
		if !ok {
			return nil, apperrors.Newf(apperrors.KindValidation, "line %d: account %q does not exist", lineNo, in.AccountID)
		}
		if !acc.IsActive {
			return nil, apperrors.Newf(apperrors.KindValidation, "line %d: account %s (%s) is inactive", lineNo, acc.Code, acc.Name)
		}

		hasDebit = hasDebit || debit.IsPositive()
		hasCredit = hasCredit || credit.IsPositive()
		out.TotalDebit = out.TotalDebit.Add(debit)
		out.TotalCredit = out.TotalCredit.Add(credit)
		out.Lines = append(out.Lines, domain.JournalLine{
			LineNo:      lineNo,
			AccountID:   acc.AccountID,
			AccountCode: acc.Code,
			AccountName: acc.Name,
			Debit:       debit,
			Credit:      credit,
			Description: in.Description,
		})
	}

	difference := out.TotalDebit.Sub(out.TotalCredit).Abs()
	if difference.GreaterThan(tolerance) {
		return nil, apperrors.NewLedgerError(apperrors.KindImbalancedEntry,
			fmt.Sprintf("journal entry is not balanced: total debit %s, total credit %s, difference %s",
				out.TotalDebit, out.TotalCredit, difference),
			map[string]any{
				"totalDebit":  json.Number(out.TotalDebit.String()),
				"totalCredit": json.Number(out.TotalCredit.String()),
				"difference":  json.Number(difference.String()),
			})
	}

	if !hasDebit || !hasCredit {
		return nil, apperrors.NewLedgerError(apperrors.KindMissingSide,
			"journal entry must contain at least one debit line and one credit line",
			map[string]any{"hasDebit": hasDebit, "hasCredit": hasCredit})
	}

	return out, nil
}

func parseLineAmount(raw string, lineNo int, side string) (decimal.Decimal, error) {
	amount, err := money.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, apperrors.Newf(apperrors.KindValidation, "line %d: %s amount %q is not a number", lineNo, side, raw)
	}
	if amount.IsNegative() {
		return decimal.Zero, apperrors.Newf(apperrors.KindValidation, "line %d: %s amount must not be negative", lineNo, side)
	}
	return amount, nil
}
