package accounting

import (
	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidateLineShape checks the rules that need no store access: at least two lines,
// debit XOR credit, non-negative, non-zero, at most MoneyPlaces decimals, and equal totals.
func ValidateLineShape(lines []domain.DraftLine) error {
	if len(lines) < 2 {
		return apperrors.NewRuleViolation(apperrors.RuleMinLines, "journal entry must have at least two lines, got %d", len(lines))
	}

	debits, credits := decimal.Zero, decimal.Zero
	for i, l := range lines {
		n := i + 1
		if l.AccountID == "" {
			return apperrors.NewRuleViolation(apperrors.RuleLineShape, "line %d: account is required", n)
		}
		if l.DebitAmount.IsNegative() || l.CreditAmount.IsNegative() {
			return apperrors.NewRuleViolation(apperrors.RuleLineShape, "line %d: amounts must not be negative", n)
		}
		hasDebit, hasCredit := l.DebitAmount.IsPositive(), l.CreditAmount.IsPositive()
		if hasDebit == hasCredit {
			return apperrors.NewRuleViolation(apperrors.RuleLineShape, "line %d: exactly one of debit or credit must be non-zero", n)
		}
		if !domain.IsQuantized(l.DebitAmount, domain.MoneyPlaces) || !domain.IsQuantized(l.CreditAmount, domain.MoneyPlaces) {
			return apperrors.NewRuleViolation(apperrors.RuleLineShape, "line %d: amounts allow at most %d decimal places", n, domain.MoneyPlaces)
		}
		debits = debits.Add(l.DebitAmount)
		credits = credits.Add(l.CreditAmount)
	}

	// Amounts are quantized to two places, so the tolerance check reduces to equality.
	if !debits.Equal(credits) {
		return apperrors.NewRuleViolation(apperrors.RuleUnbalanced, "debits %s do not equal credits %s", debits.StringFixed(domain.MoneyPlaces), credits.StringFixed(domain.MoneyPlaces))
	}
	return nil
}
