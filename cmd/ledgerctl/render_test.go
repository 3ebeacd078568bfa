package main

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	assert.Equal(t, "1250.50", amount(decimal.RequireFromString("1250.5")))
	assert.Equal(t, "(30.00)", amount(decimal.NewFromInt(-30)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Cash", truncate("Cash", 10))
	assert.Equal(t, "Accounts..", truncate("Accounts Receivable", 10))
}

func TestRenderTrialBalance(t *testing.T) {
	tb := &domain.TrialBalance{
		AsOf: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Rows: []domain.TrialBalanceRow{
			{Code: "1100", AccountName: "Cash", Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{Code: "4000", AccountName: "Sales", Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
		TotalDebits:  decimal.NewFromInt(100),
		TotalCredits: decimal.NewFromInt(100),
		Balanced:     true,
	}

	out := renderTrialBalance(tb)
	assert.Contains(t, out, "TRIAL BALANCE")
	assert.Contains(t, out, "2025-12-31")
	assert.Contains(t, out, "1100 Cash")
	assert.Contains(t, out, "100.00")
	assert.Contains(t, out, "[BALANCED]")
}

func TestRenderBalanceSheet_Unbalanced(t *testing.T) {
	bs := &domain.BalanceSheet{
		AsOf: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Assets: []domain.StatementSection{{
			Tag:   domain.SectionCurrentAssets,
			Title: "Current Assets",
			Lines: []domain.StatementLine{{Code: "1100", Name: "Cash", Amount: decimal.NewFromInt(500)}},
			Total: decimal.NewFromInt(500),
		}},
		TotalAssets: decimal.NewFromInt(500),
		TotalEquity: decimal.NewFromInt(450),
	}

	out := renderBalanceSheet(bs)
	assert.Contains(t, out, "Current Assets")
	assert.Contains(t, out, "1100 Cash")
	assert.Contains(t, out, "[UNBALANCED]")
}

func TestParseYear(t *testing.T) {
	y, err := parseYear("2025")
	assert.NoError(t, err)
	assert.Equal(t, 2025, y)

	_, err = parseYear("25x")
	assert.Error(t, err)
	_, err = parseYear("1200")
	assert.Error(t, err)
}
