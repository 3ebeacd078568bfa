package utils

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with the ledger's line precision and the currency symbol, if any.
func FormatMoney(amount decimal.Decimal, symbol string) string {
	s := amount.StringFixed(domain.MoneyPlaces)
	if symbol == "" {
		return s
	}
	if amount.IsNegative() {
		return "-" + symbol + s[1:]
	}
	return symbol + s
}
