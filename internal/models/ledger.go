package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountTotals is one row of the per-account ledger aggregation.
type AccountTotals struct {
	AccountID    string          `db:"account_id"`
	Code         string          `db:"code"`
	Name         string          `db:"name"`
	AccountType  AccountType     `db:"account_type"`
	CurrencyCode string          `db:"currency_code"`
	Debit        decimal.Decimal `db:"debit"`
	Credit       decimal.Decimal `db:"credit"`
}

// OpenItem is an invoice row owned by the AP/AR modules.
type OpenItem struct {
	InvoiceID        string          `db:"invoice_id"`
	Kind             string          `db:"kind"`
	CounterpartyID   string          `db:"counterparty_id"`
	CounterpartyName string          `db:"counterparty_name"`
	DocumentNumber   string          `db:"document_number"`
	IssueDate        time.Time       `db:"issue_date"`
	DueDate          time.Time       `db:"due_date"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	PaidAmount       decimal.Decimal `db:"paid_amount"`
	Status           string          `db:"status"`
}
