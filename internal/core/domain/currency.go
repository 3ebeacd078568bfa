package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a supported currency.
type Currency struct {
	CurrencyCode  string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	DecimalPlaces int32  `json:"decimalPlaces"`
	IsBase        bool   `json:"isBase"`
	IsActive      bool   `json:"isActive"`
	AuditFields
}

// ExchangeRate converts one unit of FromCurrencyCode into ToCurrencyCode.
// It is valid from EffectiveDate until a later rate for the same pair supersedes it.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	EffectiveDate    time.Time       `json:"effectiveDate"`
	AuditFields
}

// RateSource describes how a resolved rate was obtained.
type RateSource string

const (
	RateIdentity     RateSource = "IDENTITY"
	RateDirect       RateSource = "DIRECT"
	RateInverse      RateSource = "INVERSE"
	RateTriangulated RateSource = "TRIANGULATED"
)

// ResolvedRate is the outcome of a point-in-time rate lookup.
type ResolvedRate struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	AsOf   time.Time       `json:"asOf"`
	Rate   decimal.Decimal `json:"rate"`
	Source RateSource      `json:"source"`
}

// Conversion is the result of converting an amount between currencies.
type Conversion struct {
	Amount    decimal.Decimal `json:"amount"`
	Converted decimal.Decimal `json:"converted"`
	RateUsed  ResolvedRate    `json:"rateUsed"`
}
