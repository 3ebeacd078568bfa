package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FiscalPeriod is a row of the fiscal_periods table.
type FiscalPeriod struct {
	PeriodID   string     `db:"period_id"`
	Name       string     `db:"name"`
	FiscalYear int        `db:"fiscal_year"`
	StartDate  time.Time  `db:"start_date"`
	EndDate    time.Time  `db:"end_date"`
	IsClosed   bool       `db:"is_closed"`
	ClosedAt   *time.Time `db:"closed_at"`
	ClosedBy   *string    `db:"closed_by"`
	AuditFields
}

// AccountBalance is a row of the account_balances snapshot table.
type AccountBalance struct {
	AccountID      string          `db:"account_id"`
	PeriodID       string          `db:"period_id"`
	CurrencyCode   string          `db:"currency_code"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	ClosingBalance decimal.Decimal `db:"closing_balance"`
	UpdatedAt      time.Time       `db:"updated_at"`
}
