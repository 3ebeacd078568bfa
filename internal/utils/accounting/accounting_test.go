package accounting

import (
	"regexp"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func debit(acc, amount string) domain.DraftLine {
	return domain.DraftLine{AccountID: acc, DebitAmount: d(amount), CreditAmount: decimal.Zero}
}

func credit(acc, amount string) domain.DraftLine {
	return domain.DraftLine{AccountID: acc, DebitAmount: decimal.Zero, CreditAmount: d(amount)}
}

func TestValidateLineShape(t *testing.T) {
	tests := []struct {
		name  string
		lines []domain.DraftLine
		rule  string
	}{
		{"balanced", []domain.DraftLine{debit("cash", "100.00"), credit("sales", "100.00")}, ""},
		{"single line", []domain.DraftLine{debit("cash", "100.00")}, apperrors.RuleMinLines},
		{"unbalanced by a cent", []domain.DraftLine{debit("cash", "100.00"), credit("sales", "99.99")}, apperrors.RuleUnbalanced},
		{"both sides", []domain.DraftLine{{AccountID: "cash", DebitAmount: d("1"), CreditAmount: d("1")}, credit("sales", "0")}, apperrors.RuleLineShape},
		{"neither side", []domain.DraftLine{{AccountID: "cash", DebitAmount: decimal.Zero, CreditAmount: decimal.Zero}, credit("sales", "1")}, apperrors.RuleLineShape},
		{"negative", []domain.DraftLine{debit("cash", "-5"), credit("sales", "5")}, apperrors.RuleLineShape},
		{"three decimals", []domain.DraftLine{debit("cash", "10.001"), credit("sales", "10.001")}, apperrors.RuleLineShape},
		{"missing account", []domain.DraftLine{debit("", "10"), credit("sales", "10")}, apperrors.RuleLineShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLineShape(tt.lines)
			if tt.rule == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.True(t, apperrors.HasRule(err, tt.rule), "expected rule %s, got %v", tt.rule, err)
		})
	}
}

func TestEntryNumbers(t *testing.T) {
	number := NewEntryNumber(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^JE-20250309-[0-9A-F]{6}$`), number)
	assert.NotEqual(t, number, NewEntryNumber(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, "YE-CLOSE-2025", ClosingEntryNumber(2025))
}
