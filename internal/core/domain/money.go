package domain

import "github.com/shopspring/decimal"

const (
	// MoneyPlaces is the scale of journal line amounts.
	MoneyPlaces int32 = 2
	// RatePlaces is the scale exchange rates are stored with.
	RatePlaces int32 = 6
	// MaxCurrencyPlaces bounds a currency's minor unit scale.
	MaxCurrencyPlaces int32 = 6
	// DivisionPrecision is used when inverting or chaining rates.
	DivisionPrecision int32 = 16
)

// BalanceTolerance is one minor unit of a two-place currency.
var BalanceTolerance = decimal.New(1, -MoneyPlaces)

// RoundMoney rounds half away from zero to MoneyPlaces.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// RoundTo rounds half away from zero to the given number of places.
func RoundTo(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// IsQuantized reports whether d has no digits beyond places.
func IsQuantized(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// WithinTolerance reports whether |a - b| <= tol.
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}
