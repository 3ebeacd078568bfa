package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one requested line. Exactly one of DebitAmount and CreditAmount is set.
type JournalLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
}

// CreateJournalEntryRequest is the body for creating or replacing a draft.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time            `json:"entryDate" binding:"required"`
	Description string               `json:"description" binding:"required"`
	Reference   string               `json:"reference"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
	Post        bool                 `json:"post"` // Create and post in one step
}

// ToDraftEntry converts the request into the typed draft consumed by the journal engine.
func (r CreateJournalEntryRequest) ToDraftEntry(userID string) domain.DraftEntry {
	lines := make([]domain.DraftLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.DraftLine{
			AccountID:    l.AccountID,
			Description:  l.Description,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
		}
	}
	return domain.DraftEntry{
		EntryDate:   r.EntryDate,
		Description: r.Description,
		Reference:   r.Reference,
		CreatedBy:   userID,
		Lines:       lines,
	}
}

// ReverseJournalEntryRequest optionally overrides the reversal date.
type ReverseJournalEntryRequest struct {
	ReversalDate *time.Time `json:"reversalDate"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineNumber   int             `json:"lineNumber"`
	AccountID    string          `json:"accountID"`
	Description  string          `json:"description,omitempty"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID     string                `json:"entryID"`
	EntryNumber string                `json:"entryNumber"`
	EntryDate   string                `json:"entryDate"`
	Description string                `json:"description"`
	Reference   string                `json:"reference,omitempty"`
	Status      domain.EntryStatus    `json:"status"`
	Kind        domain.EntryKind      `json:"kind"`
	ReversalOf  *string               `json:"reversalOf,omitempty"`
	ReversedBy  *string               `json:"reversedBy,omitempty"`
	PostedAt    *time.Time            `json:"postedAt,omitempty"`
	ReversedAt  *time.Time            `json:"reversedAt,omitempty"`
	TotalDebit  decimal.Decimal       `json:"totalDebit"`
	TotalCredit decimal.Decimal       `json:"totalCredit"`
	Lines       []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	CreatedBy   string                `json:"createdBy"`
}

// ListJournalEntriesParams defines query parameters for listing entries.
type ListJournalEntriesParams struct {
	Status    string  `form:"status" binding:"omitempty,oneof=DRAFT POSTED REVERSED"`
	FromDate  string  `form:"fromDate" binding:"omitempty,datetime=2006-01-02"`
	ToDate    string  `form:"toDate" binding:"omitempty,datetime=2006-01-02"`
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ToFilter converts the query parameters to a domain filter. Dates were validated by binding.
func (p ListJournalEntriesParams) ToFilter() domain.EntryFilter {
	var filter domain.EntryFilter
	if p.Status != "" {
		s := domain.EntryStatus(p.Status)
		filter.Status = &s
	}
	if t, err := time.Parse(DateLayout, p.FromDate); err == nil {
		filter.FromDate = &t
	}
	if t, err := time.Parse(DateLayout, p.ToDate); err == nil {
		filter.ToDate = &t
	}
	return filter
}

// ListJournalEntriesResponse wraps a page of entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	debits, credits := e.Totals()
	resp := JournalEntryResponse{
		EntryID:     e.EntryID,
		EntryNumber: e.EntryNumber,
		EntryDate:   e.EntryDate.Format(DateLayout),
		Description: e.Description,
		Reference:   e.Reference,
		Status:      e.Status,
		Kind:        e.Kind,
		ReversalOf:  e.ReversalOf,
		ReversedBy:  e.ReversedBy,
		PostedAt:    e.PostedAt,
		ReversedAt:  e.ReversedAt,
		TotalDebit:  debits,
		TotalCredit: credits,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
	for _, l := range e.Lines {
		resp.Lines = append(resp.Lines, JournalLineResponse{
			LineNumber:   l.LineNumber,
			AccountID:    l.AccountID,
			Description:  l.Description,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
		})
	}
	return resp
}

// ToListJournalEntryResponse converts a page of entries.
func ToListJournalEntryResponse(entries []domain.JournalEntry, nextToken *string) ListJournalEntriesResponse {
	res := ListJournalEntriesResponse{
		Entries:   make([]JournalEntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		res.Entries[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}
