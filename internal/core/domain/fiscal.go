package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FiscalPeriod is an accounting period with inclusive start and end dates.
type FiscalPeriod struct {
	PeriodID   string     `json:"periodID"`
	Name       string     `json:"name"`
	FiscalYear int        `json:"fiscalYear"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    time.Time  `json:"endDate"`
	IsClosed   bool       `json:"isClosed"`
	ClosedAt   *time.Time `json:"closedAt,omitempty"`
	ClosedBy   *string    `json:"closedBy,omitempty"`
	AuditFields
}

// Contains reports whether date falls within [StartDate, EndDate].
func (p FiscalPeriod) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(p.StartDate)) && !d.After(DateOnly(p.EndDate))
}

// Overlaps reports whether [start, end] intersects the period, bounds inclusive.
func (p FiscalPeriod) Overlaps(start, end time.Time) bool {
	return !DateOnly(start).After(DateOnly(p.EndDate)) && !DateOnly(end).Before(DateOnly(p.StartDate))
}

// AccountBalance is the per-period snapshot written when a period closes.
// Balances are signed debit-minus-credit.
type AccountBalance struct {
	AccountID      string          `json:"accountID"`
	PeriodID       string          `json:"periodID"`
	CurrencyCode   string          `json:"currencyCode"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"` // Movement within the period
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// YearCloseResult summarises a fiscal year close.
type YearCloseResult struct {
	FiscalYear         int             `json:"fiscalYear"`
	ClosingEntry       *JournalEntry   `json:"closingEntry"`
	NetIncome          decimal.Decimal `json:"netIncome"`
	CarriedForward     bool            `json:"carriedForward"`
	NextPeriodID       *string         `json:"nextPeriodID,omitempty"`
	CarryForwardCounts int             `json:"carryForwardCount"`
}
