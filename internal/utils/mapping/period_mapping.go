package mapping

import (
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	"github.com/SscSPs/hesabdari_ledger/internal/models"
)

// ToModelPeriod converts a domain AccountingPeriod to a model AccountingPeriod
func ToModelPeriod(d domain.AccountingPeriod) models.AccountingPeriod {
	return models.AccountingPeriod{
		PeriodID:      d.PeriodID,
		Name:          d.Name,
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
		IsClosed:      d.IsClosed,
		ClosedAt:      d.ClosedAt,
		ClosedBy:      nilIfEmpty(d.ClosedBy),
		ClosingDate:   d.ClosingDate,
		ClosingNote:   nilIfEmpty(d.ClosingNote),
		TotalRevenue:  d.TotalRevenue,
		TotalExpenses: d.TotalExpenses,
		NetIncome:     d.NetIncome,
		Version:       d.Version,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPeriod converts a model AccountingPeriod to a domain AccountingPeriod
func ToDomainPeriod(m models.AccountingPeriod) domain.AccountingPeriod {
	return domain.AccountingPeriod{
		PeriodID:      m.PeriodID,
		Name:          m.Name,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		IsClosed:      m.IsClosed,
		ClosedAt:      m.ClosedAt,
		ClosedBy:      strOrEmpty(m.ClosedBy),
		ClosingDate:   m.ClosingDate,
		ClosingNote:   strOrEmpty(m.ClosingNote),
		TotalRevenue:  m.TotalRevenue,
		TotalExpenses: m.TotalExpenses,
		NetIncome:     m.NetIncome,
		Version:       m.Version,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
