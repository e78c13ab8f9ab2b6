package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance is the per-account debit/credit summary of posted lines in a period.
type TrialBalance struct {
	PeriodID    string            `json:"periodID"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// Aggregates computes income statement totals from the trial balance rows:
// revenue is credit minus debit on REVENUE accounts, expenses debit minus credit on EXPENSE accounts.
func (tb *TrialBalance) Aggregates() PeriodAggregates {
	revenue, expenses := decimal.Zero, decimal.Zero
	for _, row := range tb.Rows {
		switch row.AccountType {
		case Revenue:
			revenue = revenue.Add(row.Credit.Sub(row.Debit))
		case Expense:
			expenses = expenses.Add(row.Debit.Sub(row.Credit))
		}
	}
	return PeriodAggregates{
		TotalRevenue:  revenue,
		TotalExpenses: expenses,
		NetIncome:     revenue.Sub(expenses),
	}
}
