package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

// postingService turns AP/AR documents into journal entries and serves their reports.
type postingService struct {
	BaseService
	journalSvc   portssvc.JournalSvcFacade
	statementSvc portssvc.StatementService
	accountRepo  portsrepo.AccountReader
	cfg          config.LedgerConfig
}

// NewPostingService creates the collaborator-facing posting service.
func NewPostingService(
	journalSvc portssvc.JournalSvcFacade,
	statementSvc portssvc.StatementService,
	accountRepo portsrepo.AccountReader,
	cfg config.LedgerConfig,
) portssvc.PostingService {
	return &postingService{
		BaseService:  newBaseService(),
		journalSvc:   journalSvc,
		statementSvc: statementSvc,
		accountRepo:  accountRepo,
		cfg:          cfg,
	}
}

var _ portssvc.PostingService = (*postingService)(nil)

// controlAccount resolves the payable or receivable account, preferring an explicit override.
func (s *postingService) controlAccount(ctx context.Context, kind domain.OpenItemKind, override *string) (string, error) {
	if override != nil && *override != "" {
		return *override, nil
	}

	var code string
	switch kind {
	case domain.Payable:
		code = s.cfg.PayableControlCode
	case domain.Receivable:
		code = s.cfg.ReceivableControlCode
	default:
		return "", apperrors.NewRuleViolation(apperrors.RuleInvalidInput, "unknown document kind %q", kind)
	}

	acc, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.NewRuleViolation(apperrors.RuleAccountMissing, "%s control account %s does not exist", kind, code)
		}
		return "", fmt.Errorf("failed to load control account: %w", err)
	}
	return acc.AccountID, nil
}

func debit(accountID, desc string, amount decimal.Decimal) domain.DraftLine {
	return domain.DraftLine{AccountID: accountID, Description: desc, DebitAmount: amount, CreditAmount: decimal.Zero}
}

func credit(accountID, desc string, amount decimal.Decimal) domain.DraftLine {
	return domain.DraftLine{AccountID: accountID, Description: desc, DebitAmount: decimal.Zero, CreditAmount: amount}
}

// PostInvoiceJournalEntry credits the payable control and debits each item for a PAYABLE invoice,
// and the mirror image for a RECEIVABLE one.
func (s *postingService) PostInvoiceJournalEntry(ctx context.Context, req dto.InvoicePostingRequest, userID string) (*domain.JournalEntry, error) {
	if len(req.LineItems) == 0 {
		return nil, apperrors.NewRuleViolation(apperrors.RuleMinLines, "invoice needs at least one line item")
	}
	itemsTotal := decimal.Zero
	for _, item := range req.LineItems {
		itemsTotal = itemsTotal.Add(item.Amount)
	}
	if !itemsTotal.Equal(req.Total) {
		return nil, apperrors.NewRuleViolation(apperrors.RuleUnbalanced, "line items sum to %s but invoice total is %s",
			itemsTotal.StringFixed(domain.MoneyPlaces), req.Total.StringFixed(domain.MoneyPlaces))
	}

	control, err := s.controlAccount(ctx, req.Kind, req.ControlAccountID)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.DraftLine, 0, len(req.LineItems)+1)
	controlDesc := fmt.Sprintf("%s invoice %s", req.Counterparty, req.DocumentNumber)
	switch req.Kind {
	case domain.Payable:
		for _, item := range req.LineItems {
			lines = append(lines, debit(item.AccountID, item.Description, item.Amount))
		}
		lines = append(lines, credit(control, controlDesc, req.Total))
	case domain.Receivable:
		lines = append(lines, debit(control, controlDesc, req.Total))
		for _, item := range req.LineItems {
			lines = append(lines, credit(item.AccountID, item.Description, item.Amount))
		}
	}

	return s.post(ctx, domain.DraftEntry{
		EntryDate:   req.Date,
		Description: fmt.Sprintf("%s invoice from %s", kindLabel(req.Kind), req.Counterparty),
		Reference:   req.DocumentNumber,
		CreatedBy:   userID,
		Lines:       lines,
	}, "invoice", req.DocumentNumber)
}

// PostPaymentJournalEntry settles a control account against a bank account.
func (s *postingService) PostPaymentJournalEntry(ctx context.Context, req dto.PaymentPostingRequest, userID string) (*domain.JournalEntry, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewRuleViolation(apperrors.RuleLineShape, "payment amount must be positive")
	}
	control, err := s.controlAccount(ctx, req.Kind, req.ControlAccountID)
	if err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("Payment %s %s", req.Counterparty, req.DocumentNumber)
	var lines []domain.DraftLine
	switch req.Kind {
	case domain.Payable:
		lines = []domain.DraftLine{debit(control, desc, req.Amount), credit(req.BankAccountID, desc, req.Amount)}
	case domain.Receivable:
		lines = []domain.DraftLine{debit(req.BankAccountID, desc, req.Amount), credit(control, desc, req.Amount)}
	}

	return s.post(ctx, domain.DraftEntry{
		EntryDate:   req.Date,
		Description: fmt.Sprintf("%s payment, %s", kindLabel(req.Kind), req.Counterparty),
		Reference:   req.DocumentNumber,
		CreatedBy:   userID,
		Lines:       lines,
	}, "payment", req.DocumentNumber)
}

func (s *postingService) post(ctx context.Context, draft domain.DraftEntry, docType, docNumber string) (*domain.JournalEntry, error) {
	entry, err := s.journalSvc.CreateAndPost(ctx, draft)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Collaborator document posted",
		slog.String("document_type", docType),
		slog.String("document_number", docNumber),
		slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

func kindLabel(kind domain.OpenItemKind) string {
	if kind == domain.Payable {
		return "Supplier"
	}
	return "Customer"
}

func (s *postingService) GenerateAgingReport(ctx context.Context, asOf time.Time, kind domain.OpenItemKind, buckets []domain.AgingBucket) (*domain.AgingReport, error) {
	return s.statementSvc.AgingReport(ctx, asOf, kind, buckets)
}

func (s *postingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	return s.statementSvc.TrialBalance(ctx, asOf)
}
