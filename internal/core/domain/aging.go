package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenItemKind distinguishes payables from receivables.
type OpenItemKind string

const (
	Payable    OpenItemKind = "PAYABLE"
	Receivable OpenItemKind = "RECEIVABLE"
)

// OpenItemStatus mirrors the invoice status kept by the AP/AR collaborators.
type OpenItemStatus string

const (
	ItemDraft         OpenItemStatus = "DRAFT"
	ItemApproved      OpenItemStatus = "APPROVED"
	ItemPartiallyPaid OpenItemStatus = "PARTIALLY_PAID"
	ItemOverdue       OpenItemStatus = "OVERDUE"
	ItemPaid          OpenItemStatus = "PAID"
	ItemCancelled     OpenItemStatus = "CANCELLED"
)

// IsAgeable reports whether an invoice in this status still carries an outstanding amount.
func (s OpenItemStatus) IsAgeable() bool {
	return s == ItemApproved || s == ItemPartiallyPaid || s == ItemOverdue
}

// OpenItem is an invoice owned by a collaborator, as the ledger sees it for aging.
type OpenItem struct {
	ItemID           string          `json:"itemID"`
	Kind             OpenItemKind    `json:"kind"`
	CounterpartyID   string          `json:"counterpartyID"`
	CounterpartyName string          `json:"counterpartyName"`
	DocumentNumber   string          `json:"documentNumber"`
	IssueDate        time.Time       `json:"issueDate"`
	DueDate          time.Time       `json:"dueDate"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	Status           OpenItemStatus  `json:"status"`
}

// Outstanding returns total minus paid.
func (i OpenItem) Outstanding() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// AgingBucket is an inclusive day range. A nil MaxDays is open-ended.
type AgingBucket struct {
	Label   string `json:"label"`
	MinDays int    `json:"minDays"`
	MaxDays *int   `json:"maxDays,omitempty"`
}

// Contains reports whether days falls in the bucket.
func (b AgingBucket) Contains(days int) bool {
	if days < b.MinDays {
		return false
	}
	return b.MaxDays == nil || days <= *b.MaxDays
}

// DefaultAgingBuckets returns 0-30, 31-60, 61-90 and 91+.
func DefaultAgingBuckets() []AgingBucket {
	bound := func(n int) *int { return &n }
	return []AgingBucket{
		{Label: "0-30", MinDays: 0, MaxDays: bound(30)},
		{Label: "31-60", MinDays: 31, MaxDays: bound(60)},
		{Label: "61-90", MinDays: 61, MaxDays: bound(90)},
		{Label: "91+", MinDays: 91},
	}
}

// AgingRow holds one counterparty's outstanding amounts per bucket label.
type AgingRow struct {
	CounterpartyID   string                     `json:"counterpartyID"`
	CounterpartyName string                     `json:"counterpartyName"`
	Buckets          map[string]decimal.Decimal `json:"buckets"`
	Total            decimal.Decimal            `json:"total"`
}

// AgingReport buckets outstanding open items as of a date.
type AgingReport struct {
	AsOf         time.Time                  `json:"asOf"`
	Kind         OpenItemKind               `json:"kind"`
	Buckets      []AgingBucket              `json:"buckets"`
	Rows         []AgingRow                 `json:"rows"`
	BucketTotals map[string]decimal.Decimal `json:"bucketTotals"`
	GrandTotal   decimal.Decimal            `json:"grandTotal"`
}
