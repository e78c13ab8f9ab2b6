package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account's balance normally grows.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// Account is an entry of the chart of accounts (حساب). It is master data:
// the ledger engine reads it but never changes it.
type Account struct {
	AccountID     string        `json:"accountID"`
	Code          string        `json:"code"` // e.g. 1101
	Name          string        `json:"name"`
	AccountType   AccountType   `json:"accountType"`
	NormalBalance NormalBalance `json:"normalBalance"`
	IsActive      bool          `json:"isActive"`
	AuditFields
}

// NormalBalanceFor returns the conventional normal balance of an account type.
func NormalBalanceFor(t AccountType) NormalBalance {
	switch t {
	case Asset, Expense:
		return NormalDebit
	default:
		return NormalCredit
	}
}

// DefaultChartOfAccounts is the standard chart seeded into a fresh ledger.
// Account IDs are fixed so every storage driver seeds the same rows.
func DefaultChartOfAccounts() []Account {
	chart := []struct {
		code, name string
		typ        AccountType
		active     bool
	}{
		{"1101", "صندوق", Asset, true},
		{"1102", "بانک", Asset, true},
		{"1103", "حساب‌های دریافتنی", Asset, true},
		{"1104", "موجودی کالا", Asset, true},
		{"1199", "حساب راکد", Asset, false},
		{"1201", "دارایی‌های ثابت", Asset, true},
		{"2101", "حساب‌های پرداختنی", Liability, true},
		{"2102", "اسناد پرداختنی", Liability, true},
		{"2103", "مالیات بر ارزش افزوده پرداختنی", Liability, true},
		{"3101", "سرمایه", Equity, true},
		{"3102", "سود و زیان انباشته", Equity, true},
		{"4101", "فروش کالا", Revenue, true},
		{"4102", "درآمد خدمات", Revenue, true},
		{"5101", "بهای تمام شده کالای فروش رفته", Expense, true},
		{"5102", "هزینه حقوق و دستمزد", Expense, true},
		{"5103", "هزینه اجاره", Expense, true},
		{"5104", "هزینه‌های عمومی و اداری", Expense, true},
	}
	out := make([]Account, len(chart))
	for i, c := range chart {
		out[i] = Account{
			AccountID:     DefaultAccountID(c.code),
			Code:          c.code,
			Name:          c.name,
			AccountType:   c.typ,
			NormalBalance: NormalBalanceFor(c.typ),
			IsActive:      c.active,
		}
	}
	return out
}

// DefaultAccountID is the fixed ID of a seeded account.
func DefaultAccountID(code string) string {
	return "a0000000-0000-4000-8000-00000000" + code
}
