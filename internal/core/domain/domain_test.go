package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestJournalEntry_IsBalanced(t *testing.T) {
	tests := []struct {
		name  string
		lines []domain.JournalEntryLine
		want  bool
	}{
		{
			name: "balanced two lines",
			lines: []domain.JournalEntryLine{
				{DebitAmount: decimal.RequireFromString("100.00"), CreditAmount: decimal.Zero},
				{DebitAmount: decimal.Zero, CreditAmount: decimal.RequireFromString("100.00")},
			},
			want: true,
		},
		{
			name: "off by one cent",
			lines: []domain.JournalEntryLine{
				{DebitAmount: decimal.RequireFromString("100.00"), CreditAmount: decimal.Zero},
				{DebitAmount: decimal.Zero, CreditAmount: decimal.RequireFromString("99.99")},
			},
			want: false,
		},
		{
			name: "split credit",
			lines: []domain.JournalEntryLine{
				{DebitAmount: decimal.RequireFromString("250.50"), CreditAmount: decimal.Zero},
				{DebitAmount: decimal.Zero, CreditAmount: decimal.RequireFromString("200.25")},
				{DebitAmount: decimal.Zero, CreditAmount: decimal.RequireFromString("50.25")},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := domain.JournalEntry{Lines: tt.lines}
			assert.Equal(t, tt.want, entry.IsBalanced())
		})
	}
}

func TestDraftEntry_AccountIDs(t *testing.T) {
	draft := domain.DraftEntry{Lines: []domain.DraftLine{
		{AccountID: "cash"}, {AccountID: "revenue"}, {AccountID: "cash"},
	}}
	assert.Equal(t, []string{"cash", "revenue"}, draft.AccountIDs())
}

func TestEntryStatus_IsBalanceVisible(t *testing.T) {
	assert.False(t, domain.Draft.IsBalanceVisible())
	assert.True(t, domain.Posted.IsBalanceVisible())
	assert.True(t, domain.Reversed.IsBalanceVisible())
}

func TestFiscalPeriod_ContainsAndOverlaps(t *testing.T) {
	jan := domain.FiscalPeriod{StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 31)}

	assert.True(t, jan.Contains(date(2025, 1, 1)))
	assert.True(t, jan.Contains(time.Date(2025, 1, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, jan.Contains(date(2025, 2, 1)))

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"touching end bound", date(2025, 1, 31), date(2025, 2, 28), true},
		{"touching start bound", date(2024, 12, 1), date(2025, 1, 1), true},
		{"disjoint after", date(2025, 2, 1), date(2025, 2, 28), false},
		{"disjoint before", date(2024, 12, 1), date(2024, 12, 31), false},
		{"enclosing", date(2024, 12, 1), date(2025, 3, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jan.Overlaps(tt.start, tt.end))
		})
	}
}

func TestAgingBuckets(t *testing.T) {
	buckets := domain.DefaultAgingBuckets()
	find := func(days int) string {
		for _, b := range buckets {
			if b.Contains(days) {
				return b.Label
			}
		}
		return ""
	}

	assert.Equal(t, "0-30", find(0))
	assert.Equal(t, "0-30", find(30))
	assert.Equal(t, "31-60", find(31))
	assert.Equal(t, "31-60", find(45))
	assert.Equal(t, "61-90", find(90))
	assert.Equal(t, "91+", find(91))
	assert.Equal(t, "91+", find(4000))
	assert.Equal(t, "", find(-3))
}

func TestMoneyHelpers(t *testing.T) {
	assert.True(t, domain.RoundMoney(decimal.RequireFromString("10.005")).Equal(decimal.RequireFromString("10.01")))
	assert.True(t, domain.RoundMoney(decimal.RequireFromString("-10.005")).Equal(decimal.RequireFromString("-10.01")))
	assert.True(t, domain.IsQuantized(decimal.RequireFromString("10.50"), 2))
	assert.False(t, domain.IsQuantized(decimal.RequireFromString("10.505"), 2))
	assert.True(t, domain.WithinTolerance(decimal.RequireFromString("1000.00"), decimal.RequireFromString("999.99"), domain.BalanceTolerance))
	assert.False(t, domain.WithinTolerance(decimal.RequireFromString("1000.00"), decimal.RequireFromString("999.98"), domain.BalanceTolerance))
}

func TestAccountTotals_NormalBalance(t *testing.T) {
	cash := domain.AccountTotals{AccountType: domain.Asset, Debit: decimal.NewFromInt(150), Credit: decimal.NewFromInt(50)}
	sales := domain.AccountTotals{AccountType: domain.Revenue, Debit: decimal.NewFromInt(10), Credit: decimal.NewFromInt(110)}

	assert.True(t, cash.NormalBalance().Equal(decimal.NewFromInt(100)))
	assert.True(t, sales.NormalBalance().Equal(decimal.NewFromInt(100)))
	assert.True(t, sales.Net().Equal(decimal.NewFromInt(-100)))
}
