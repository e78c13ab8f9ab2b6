package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	"github.com/SscSPs/hesabdari_ledger/internal/core/services"
)

func validatorAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		"cash":     {AccountID: "cash", Code: "1101", Name: "صندوق", AccountType: domain.Asset, IsActive: true},
		"capital":  {AccountID: "capital", Code: "3101", Name: "سرمایه", AccountType: domain.Equity, IsActive: true},
		"dormant":  {AccountID: "dormant", Code: "1199", Name: "حساب راکد", AccountType: domain.Asset, IsActive: false},
		"salaries": {AccountID: "salaries", Code: "5102", Name: "هزینه حقوق", AccountType: domain.Expense, IsActive: true},
	}
}

func TestValidateJournalLines_Balanced(t *testing.T) {
	lines := []domain.LineInput{
		{AccountID: "cash", Debit: "35000000", Credit: "0", Description: "واریز سرمایه"},
		{AccountID: "capital", Debit: "0", Credit: "35000000"},
	}

	got, err := services.ValidateJournalLines(lines, validatorAccounts(), services.DefaultBalanceTolerance)
	require.NoError(t, err)

	assert.True(t, got.TotalDebit.Equal(decimal.NewFromInt(35000000)))
	assert.True(t, got.TotalCredit.Equal(decimal.NewFromInt(35000000)))
	require.Len(t, got.Lines, 2)
	assert.Equal(t, 1, got.Lines[0].LineNo)
	assert.Equal(t, "1101", got.Lines[0].AccountCode)
	assert.Equal(t, "صندوق", got.Lines[0].AccountName)
	assert.Equal(t, 2, got.Lines[1].LineNo)
	assert.Equal(t, "سرمایه", got.Lines[1].AccountName)
}

func TestValidateJournalLines_Imbalanced(t *testing.T) {
	lines := []domain.LineInput{
		{AccountID: "cash", Debit: "100", Credit: "0"},
		{AccountID: "capital", Debit: "0", Credit: "90"},
	}

	_, err := services.ValidateJournalLines(lines, validatorAccounts(), services.DefaultBalanceTolerance)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrImbalancedEntry)

	var le *apperrors.LedgerError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, apperrors.KindImbalancedEntry, le.Kind)
	assert.EqualValues(t, "10", le.Details["difference"])
	assert.EqualValues(t, "100", le.Details["totalDebit"])
	assert.EqualValues(t, "90", le.Details["totalCredit"])
}

func TestValidateJournalLines_WithinTolerance(t *testing.T) {
	lines := []domain.LineInput{
		{AccountID: "cash", Debit: "100.005", Credit: "0"},
		{AccountID: "capital", Debit: "0", Credit: "100"},
	}

	_, err := services.ValidateJournalLines(lines, validatorAccounts(), services.DefaultBalanceTolerance)
	assert.NoError(t, err)
}

func TestValidateJournalLines_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		lines    []domain.LineInput
		expected error
		contains string
	}{
		{
			name:     "no lines",
			lines:    nil,
			expected: apperrors.ErrTooFewLines,
		},
		{
			name:     "single line",
			lines:    []domain.LineInput{{AccountID: "cash", Debit: "10"}},
			expected: apperrors.ErrTooFewLines,
		},
		{
			name: "all zero",
			lines: []domain.LineInput{
				{AccountID: "cash", Debit: "0", Credit: "0"},
				{AccountID: "capital", Debit: "0", Credit: "0"},
			},
			expected: apperrors.ErrMissingSide,
		},
		{
			name: "debit and credit on the same line only",
			lines: []domain.LineInput{
				{AccountID: "cash", Debit: "50", Credit: "50"},
				{AccountID: "capital"},
			},
			expected: nil,
		},
		{
			name: "negative amount",
			lines: []domain.LineInput{
				{AccountID: "cash", Debit: "-10"},
				{AccountID: "capital", Credit: "-10"},
			},
			expected: apperrors.ErrValidation,
			contains: "line 1",
		},
		{
			name: "not a number",
			lines: []domain.LineInput{
				{AccountID: "cash", Debit: "10"},
				{AccountID: "capital", Credit: "ten"},
			},
			expected: apperrors.ErrValidation,
			contains: "line 2",
		},
		{
			name: "unknown account",
			lines: []domain.LineInput{
				{AccountID: "cash", Debit: "10"},
				{AccountID: "missing", Credit: "10"},
			},
			expected: apperrors.ErrValidation,
			contains: `account "missing" does not exist`,
		},
		{
			name: "inactive account",
			lines: []domain.LineInput{
				{AccountID: "dormant", Debit: "10"},
				{AccountID: "capital", Credit: "10"},
			},
			expected: apperrors.ErrValidation,
			contains: "inactive",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := services.ValidateJournalLines(tc.lines, validatorAccounts(), services.DefaultBalanceTolerance)
			if tc.expected == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expected)
			if tc.contains != "" {
				assert.Contains(t, err.Error(), tc.contains)
			}
		})
	}
}

func TestValidateJournalLines_PersianDigits(t *testing.T) {
	lines := []domain.LineInput{
		{AccountID: "salaries", Debit: "۱۲٬۵۰۰٬۰۰۰", Credit: ""},
		{AccountID: "cash", Debit: "", Credit: "12,500,000"},
	}

	got, err := services.ValidateJournalLines(lines, validatorAccounts(), services.DefaultBalanceTolerance)
	require.NoError(t, err)
	assert.True(t, got.TotalDebit.Equal(decimal.NewFromInt(12500000)))
	assert.True(t, got.Lines[0].Debit.Equal(decimal.NewFromInt(12500000)))
	assert.True(t, got.Lines[0].Credit.IsZero())
}

func TestValidateJournalLines_Idempotent(t *testing.T) {
	lines := []domain.LineInput{
		{AccountID: "cash", Debit: "250.50"},
		{AccountID: "capital", Credit: "250.50"},
	}

	first, err := services.ValidateJournalLines(lines, validatorAccounts(), services.DefaultBalanceTolerance)
	require.NoError(t, err)
	second, err := services.ValidateJournalLines(lines, validatorAccounts(), services.DefaultBalanceTolerance)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
