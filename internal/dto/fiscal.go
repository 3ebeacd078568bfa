package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateFiscalPeriodRequest defines the data needed to open a new fiscal period.
type CreateFiscalPeriodRequest struct {
	Name       string    `json:"name" binding:"required"`
	StartDate  time.Time `json:"startDate" binding:"required"`
	EndDate    time.Time `json:"endDate" binding:"required"`
	FiscalYear int       `json:"fiscalYear" binding:"omitempty,min=1900,max=9999"` // Defaults to the start date's year
}

// CreateFiscalYearRequest creates twelve monthly periods for a calendar year.
type CreateFiscalYearRequest struct {
	Year int `json:"year" binding:"required,min=1900,max=9999"`
}

// FiscalPeriodResponse defines the data returned for a fiscal period.
type FiscalPeriodResponse struct {
	PeriodID   string     `json:"periodID"`
	Name       string     `json:"name"`
	FiscalYear int        `json:"fiscalYear"`
	StartDate  string     `json:"startDate"`
	EndDate    string     `json:"endDate"`
	IsClosed   bool       `json:"isClosed"`
	ClosedAt   *time.Time `json:"closedAt,omitempty"`
	ClosedBy   *string    `json:"closedBy,omitempty"`
}

// AccountBalanceResponse is one snapshot row of a closed period.
type AccountBalanceResponse struct {
	AccountID      string          `json:"accountID"`
	CurrencyCode   string          `json:"currencyCode"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// YearCloseResponse summarises a fiscal year close.
type YearCloseResponse struct {
	FiscalYear        int                  `json:"fiscalYear"`
	NetIncome         decimal.Decimal      `json:"netIncome"`
	ClosingEntry      JournalEntryResponse `json:"closingEntry"`
	CarriedForward    bool                 `json:"carriedForward"`
	NextPeriodID      *string              `json:"nextPeriodID,omitempty"`
	CarryForwardCount int                  `json:"carryForwardCount"`
}

// ToFiscalPeriodResponse converts a domain.FiscalPeriod to FiscalPeriodResponse DTO.
func ToFiscalPeriodResponse(p *domain.FiscalPeriod) FiscalPeriodResponse {
	return FiscalPeriodResponse{
		PeriodID:   p.PeriodID,
		Name:       p.Name,
		FiscalYear: p.FiscalYear,
		StartDate:  p.StartDate.Format(DateLayout),
		EndDate:    p.EndDate.Format(DateLayout),
		IsClosed:   p.IsClosed,
		ClosedAt:   p.ClosedAt,
		ClosedBy:   p.ClosedBy,
	}
}

// ToListFiscalPeriodResponse converts a slice of periods.
func ToListFiscalPeriodResponse(periods []domain.FiscalPeriod) []FiscalPeriodResponse {
	res := make([]FiscalPeriodResponse, len(periods))
	for i := range periods {
		res[i] = ToFiscalPeriodResponse(&periods[i])
	}
	return res
}

// ToAccountBalanceResponses converts period snapshot rows.
func ToAccountBalanceResponses(balances []domain.AccountBalance) []AccountBalanceResponse {
	res := make([]AccountBalanceResponse, len(balances))
	for i, b := range balances {
		res[i] = AccountBalanceResponse{
			AccountID:      b.AccountID,
			CurrencyCode:   b.CurrencyCode,
			OpeningBalance: b.OpeningBalance,
			CurrentBalance: b.CurrentBalance,
			ClosingBalance: b.ClosingBalance,
		}
	}
	return res
}

// ToYearCloseResponse converts a domain.YearCloseResult.
func ToYearCloseResponse(r *domain.YearCloseResult) YearCloseResponse {
	resp := YearCloseResponse{
		FiscalYear:        r.FiscalYear,
		NetIncome:         r.NetIncome,
		CarriedForward:    r.CarriedForward,
		NextPeriodID:      r.NextPeriodID,
		CarryForwardCount: r.CarryForwardCounts,
	}
	if r.ClosingEntry != nil {
		resp.ClosingEntry = ToJournalEntryResponse(r.ClosingEntry)
	}
	return resp
}
