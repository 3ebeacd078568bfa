package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// StatementService compiles financial statements on demand from posted journal lines.
type StatementService interface {
	// BalanceSheet reports balances as of a date; comparative adds the same figures shifted back.
	BalanceSheet(ctx context.Context, asOf time.Time, comparative bool) (*domain.BalanceSheet, error)

	// IncomeStatement reports revenue and expenses over [from, to]; details adds section groupings.
	IncomeStatement(ctx context.Context, from, to time.Time, comparative, details bool) (*domain.IncomeStatement, error)

	// CashFlowStatement derives operating, investing and financing cash flows over [from, to].
	CashFlowStatement(ctx context.Context, from, to time.Time, comparative bool) (*domain.CashFlowStatement, error)

	// Package compiles the balance sheet as of asOf with the income and cash flow statements over [from, asOf].
	Package(ctx context.Context, asOf, from time.Time, comparative bool) (*domain.StatementPackage, error)

	// TrialBalance lists debit and credit totals per account up to asOf.
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)

	// AgingReport buckets outstanding payables or receivables by days past due.
	AgingReport(ctx context.Context, asOf time.Time, kind domain.OpenItemKind, buckets []domain.AgingBucket) (*domain.AgingReport, error)
}

// PostingService is the contract the AP/AR collaborators call into.
type PostingService interface {
	// PostInvoiceJournalEntry posts an approved invoice against its control account.
	PostInvoiceJournalEntry(ctx context.Context, req dto.InvoicePostingRequest, userID string) (*domain.JournalEntry, error)

	// PostPaymentJournalEntry posts a payment between a bank account and the control account.
	PostPaymentJournalEntry(ctx context.Context, req dto.PaymentPostingRequest, userID string) (*domain.JournalEntry, error)

	// GenerateAgingReport ages open items; nil buckets means the default set.
	GenerateAgingReport(ctx context.Context, asOf time.Time, kind domain.OpenItemKind, buckets []domain.AgingBucket) (*domain.AgingReport, error)

	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)
}
