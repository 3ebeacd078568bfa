package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// IsBalanceVisible reports whether lines of an entry in this status count towards balances.
// A reversed entry stays visible because its counter-entry offsets it.
func (s EntryStatus) IsBalanceVisible() bool {
	return s == Posted || s == Reversed
}

// EntryKind separates ordinary postings from system-generated ones.
type EntryKind string

const (
	KindStandard EntryKind = "STANDARD"
	KindReversal EntryKind = "REVERSAL"
	KindClosing  EntryKind = "CLOSING"
)

// JournalEntry is a dated, balanced set of lines.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`
	EntryNumber string      `json:"entryNumber"`
	EntryDate   time.Time   `json:"entryDate"`
	Description string      `json:"description"`
	Reference   string      `json:"reference,omitempty"`
	Status      EntryStatus `json:"status"`
	Kind        EntryKind   `json:"kind"`
	ReversalOf  *string     `json:"reversalOf,omitempty"` // Set on the counter-entry
	ReversedBy  *string     `json:"reversedBy,omitempty"` // Set on the original once reversed
	PostedAt    *time.Time  `json:"postedAt,omitempty"`
	ReversedAt  *time.Time  `json:"reversedAt,omitempty"`

	Lines []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// JournalEntryLine carries either a debit or a credit against one account.
type JournalEntryLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	LineNumber   int             `json:"lineNumber"`
	AccountID    string          `json:"accountID"`
	Description  string          `json:"description,omitempty"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
}

// IsDebit reports whether the line carries a debit.
func (l JournalEntryLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}

// Net returns debit minus credit.
func (l JournalEntryLine) Net() decimal.Decimal {
	return l.DebitAmount.Sub(l.CreditAmount)
}

// Totals returns the sum of debits and credits over the entry lines.
func (e JournalEntry) Totals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debits = debits.Add(l.DebitAmount)
		credits = credits.Add(l.CreditAmount)
	}
	return debits, credits
}

// IsBalanced reports whether debits equal credits exactly.
func (e JournalEntry) IsBalanced() bool {
	d, c := e.Totals()
	return d.Equal(c)
}

// DraftLine is one requested line of a DraftEntry.
type DraftLine struct {
	AccountID    string
	Description  string
	DebitAmount  decimal.Decimal
	CreditAmount decimal.Decimal
}

// DraftEntry is the single input shape for every call site that creates an entry,
// whether it comes over HTTP, from a collaborator posting, or from year close.
type DraftEntry struct {
	EntryDate   time.Time
	Description string
	Reference   string
	CreatedBy   string
	Lines       []DraftLine
}

// Totals returns the sum of debits and credits over the draft lines.
func (d DraftEntry) Totals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range d.Lines {
		debits = debits.Add(l.DebitAmount)
		credits = credits.Add(l.CreditAmount)
	}
	return debits, credits
}

// AccountIDs returns the distinct accounts referenced, in first-seen order.
func (d DraftEntry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(d.Lines))
	ids := make([]string, 0, len(d.Lines))
	for _, l := range d.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// EntryFilter narrows journal entry listings.
type EntryFilter struct {
	Status   *EntryStatus
	FromDate *time.Time
	ToDate   *time.Time
}
