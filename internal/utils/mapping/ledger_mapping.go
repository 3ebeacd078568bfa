package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToDomainAccountTotals converts aggregation rows to domain totals
func ToDomainAccountTotals(ms []models.AccountTotals) []domain.AccountTotals {
	ds := make([]domain.AccountTotals, len(ms))
	for i, m := range ms {
		ds[i] = domain.AccountTotals{
			AccountID:   m.AccountID,
			Code:        m.Code,
			Name:        m.Name,
			AccountType: domain.AccountType(m.AccountType),
			Currency:    m.CurrencyCode,
			Debit:       m.Debit,
			Credit:      m.Credit,
		}
	}
	return ds
}

// ToDomainOpenItem converts an invoice row to a domain OpenItem
func ToDomainOpenItem(m models.OpenItem) domain.OpenItem {
	return domain.OpenItem{
		ItemID:           m.InvoiceID,
		Kind:             domain.OpenItemKind(m.Kind),
		CounterpartyID:   m.CounterpartyID,
		CounterpartyName: m.CounterpartyName,
		DocumentNumber:   m.DocumentNumber,
		IssueDate:        m.IssueDate,
		DueDate:          m.DueDate,
		TotalAmount:      m.TotalAmount,
		PaidAmount:       m.PaidAmount,
		Status:           domain.OpenItemStatus(m.Status),
	}
}
