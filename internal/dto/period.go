package dto

import (
	"time"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePeriodRequest defines the data needed to open a new accounting period.
type CreatePeriodRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate *Date  `json:"startDate" binding:"required"`
	EndDate   *Date  `json:"endDate" binding:"required"`
}

// UpdatePeriodRequest is a partial update of an open period.
type UpdatePeriodRequest struct {
	Name      *string `json:"name"`
	StartDate *Date   `json:"startDate"`
	EndDate   *Date   `json:"endDate"`
	Version   *int64  `json:"version"`
}

// ClosePeriodRequest is the body of the close action.
type ClosePeriodRequest struct {
	ClosingDate *Date  `json:"closingDate"` // Defaults to the period end date
	Description string `json:"description"`
}

// PeriodResponse defines the data returned for an accounting period.
type PeriodResponse struct {
	PeriodID      string          `json:"periodID"`
	Name          string          `json:"name"`
	StartDate     Date            `json:"startDate"`
	EndDate       Date            `json:"endDate"`
	IsClosed      bool            `json:"isClosed"`
	ClosedAt      *time.Time      `json:"closedAt,omitempty"`
	ClosedBy      string          `json:"closedBy,omitempty"`
	ClosingDate   *Date           `json:"closingDate,omitempty"`
	ClosingNote   string          `json:"closingNote,omitempty"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"updatedAt"`
	LastUpdatedBy string          `json:"updatedBy"`
}

// ClosePeriodResponse is returned by a successful close.
type ClosePeriodResponse struct {
	Period PeriodResponse           `json:"period"`
	Checks ClosingChecksRunResponse `json:"checks"`
}

// TrialBalanceResponse is the per-account summary of posted lines in a period.
type TrialBalanceResponse struct {
	PeriodID    string                   `json:"periodID"`
	Rows        []domain.TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal          `json:"totalDebit"`
	TotalCredit decimal.Decimal          `json:"totalCredit"`
}

// ToPeriodResponse converts a domain.AccountingPeriod to PeriodResponse DTO.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	res := PeriodResponse{
		PeriodID:      p.PeriodID,
		Name:          p.Name,
		StartDate:     Date{Time: p.StartDate},
		EndDate:       Date{Time: p.EndDate},
		IsClosed:      p.IsClosed,
		ClosedAt:      p.ClosedAt,
		ClosedBy:      p.ClosedBy,
		ClosingNote:   p.ClosingNote,
		TotalRevenue:  p.TotalRevenue,
		TotalExpenses: p.TotalExpenses,
		NetIncome:     p.NetIncome,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
	if p.ClosingDate != nil {
		res.ClosingDate = NewDate(*p.ClosingDate)
	}
	return res
}

// ToListPeriodResponse converts a slice of periods.
func ToListPeriodResponse(periods []domain.AccountingPeriod) []PeriodResponse {
	res := make([]PeriodResponse, len(periods))
	for i := range periods {
		res[i] = ToPeriodResponse(&periods[i])
	}
	return res
}

// ToTrialBalanceResponse converts a domain.TrialBalance.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	return TrialBalanceResponse{
		PeriodID:    tb.PeriodID,
		Rows:        tb.Rows,
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
	}
}
