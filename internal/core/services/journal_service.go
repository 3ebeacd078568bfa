package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// journalService validates, stores and posts journal entries.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	fiscalRepo  portsrepo.FiscalRepositoryFacade
	txManager   portsrepo.TransactionManager
}

// NewJournalService creates a new JournalService.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	fiscalRepo portsrepo.FiscalRepositoryFacade,
	txManager portsrepo.TransactionManager,
) portssvc.JournalSvcFacade {
	return &journalService{
		BaseService: newBaseService(),
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		fiscalRepo:  fiscalRepo,
		txManager:   txManager,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// Validate runs every posting rule without storing anything.
func (s *journalService) Validate(ctx context.Context, draft domain.DraftEntry) error {
	return s.validateForPosting(ctx, draft, false)
}

// validateForPosting checks shape, accounts and the target period. With lockPeriod the
// period row is read FOR SHARE so a concurrent close waits for this transaction.
func (s *journalService) validateForPosting(ctx context.Context, draft domain.DraftEntry, lockPeriod bool) error {
	if err := accounting.ValidateLineShape(draft.Lines); err != nil {
		return err
	}
	if err := s.checkAccounts(ctx, draft.AccountIDs()); err != nil {
		return err
	}
	_, err := s.openPeriodFor(ctx, draft.EntryDate, lockPeriod)
	return err
}

func (s *journalService) checkAccounts(ctx context.Context, accountIDs []string) error {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	for _, id := range accountIDs {
		acc, ok := accounts[id]
		if !ok {
			return apperrors.NewRuleViolation(apperrors.RuleAccountMissing, "account %s does not exist", id)
		}
		if !acc.IsActive {
			return apperrors.NewRuleViolation(apperrors.RuleAccountInactive, "account %s (%s) is inactive", acc.Code, id)
		}
	}
	return nil
}

// openPeriodFor returns the single open period containing date.
func (s *journalService) openPeriodFor(ctx context.Context, date time.Time, lock bool) (*domain.FiscalPeriod, error) {
	var (
		periods []domain.FiscalPeriod
		err     error
	)
	if lock {
		periods, err = s.fiscalRepo.LockPeriodForShare(ctx, date)
	} else {
		periods, err = s.fiscalRepo.FindPeriodsContaining(ctx, date)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up fiscal period: %w", err)
	}

	switch {
	case len(periods) == 0:
		return nil, apperrors.NewPeriodStateError(apperrors.ReasonNoPeriodDefined, "no fiscal period contains %s", date.Format("2006-01-02"))
	case len(periods) > 1:
		return nil, apperrors.NewPeriodStateError(apperrors.ReasonPeriodOverlap, "%d fiscal periods contain %s", len(periods), date.Format("2006-01-02"))
	case periods[0].IsClosed:
		return nil, apperrors.NewPeriodStateError(apperrors.ReasonPeriodClosed, "fiscal period %s is closed", periods[0].Name)
	}
	return &periods[0], nil
}

// newEntry builds an unsaved entry from a draft, numbering lines from 1.
func (s *journalService) newEntry(draft domain.DraftEntry, status domain.EntryStatus, kind domain.EntryKind) domain.JournalEntry {
	now := s.now()
	entryDate := domain.DateOnly(draft.EntryDate)
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryNumber: accounting.NewEntryNumber(entryDate),
		EntryDate:   entryDate,
		Description: strings.TrimSpace(draft.Description),
		Reference:   draft.Reference,
		Status:      status,
		Kind:        kind,
		AuditFields: domain.NewAuditFields(draft.CreatedBy, now),
	}
	if status == domain.Posted {
		entry.PostedAt = &now
	}
	entry.Lines = buildLines(entry.EntryID, draft.Lines)
	return entry
}

func buildLines(entryID string, lines []domain.DraftLine) []domain.JournalEntryLine {
	out := make([]domain.JournalEntryLine, len(lines))
	for i, l := range lines {
		out[i] = domain.JournalEntryLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			LineNumber:   i + 1,
			AccountID:    l.AccountID,
			Description:  l.Description,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
		}
	}
	return out
}

// draftOf rebuilds the draft view of a stored entry for re-validation.
func draftOf(entry *domain.JournalEntry) domain.DraftEntry {
	lines := make([]domain.DraftLine, len(entry.Lines))
	for i, l := range entry.Lines {
		lines[i] = domain.DraftLine{AccountID: l.AccountID, Description: l.Description, DebitAmount: l.DebitAmount, CreditAmount: l.CreditAmount}
	}
	return domain.DraftEntry{
		EntryDate:   entry.EntryDate,
		Description: entry.Description,
		Reference:   entry.Reference,
		CreatedBy:   entry.CreatedBy,
		Lines:       lines,
	}
}

func notDraftError(entry *domain.JournalEntry, action string) error {
	return fmt.Errorf("%w: cannot %s entry %s in status %s", apperrors.ErrConflict, action, entry.EntryNumber, entry.Status)
}

// CreateDraft stores a shape-valid draft. Period and account checks are deferred to Post.
func (s *journalService) CreateDraft(ctx context.Context, draft domain.DraftEntry) (*domain.JournalEntry, error) {
	if strings.TrimSpace(draft.Description) == "" {
		return nil, apperrors.NewRuleViolation(apperrors.RuleInvalidInput, "description is required")
	}
	if err := accounting.ValidateLineShape(draft.Lines); err != nil {
		return nil, err
	}

	entry := s.newEntry(draft, domain.Draft, domain.KindStandard)
	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save draft entry", slog.String("entry_number", entry.EntryNumber))
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	s.LogInfo(ctx, "Draft entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	return &entry, nil
}

// UpdateDraft replaces header fields and lines of a DRAFT entry. The entry number is kept.
func (s *journalService) UpdateDraft(ctx context.Context, entryID string, draft domain.DraftEntry) (*domain.JournalEntry, error) {
	if strings.TrimSpace(draft.Description) == "" {
		return nil, apperrors.NewRuleViolation(apperrors.RuleInvalidInput, "description is required")
	}
	if err := accounting.ValidateLineShape(draft.Lines); err != nil {
		return nil, err
	}

	var updated *domain.JournalEntry
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		entry, err := s.journalRepo.LockEntryForUpdate(txCtx, entryID)
		if err != nil {
			return err
		}
		if entry.Status != domain.Draft {
			return notDraftError(entry, "update")
		}

		entry.EntryDate = domain.DateOnly(draft.EntryDate)
		entry.Description = strings.TrimSpace(draft.Description)
		entry.Reference = draft.Reference
		entry.Lines = buildLines(entry.EntryID, draft.Lines)
		entry.LastUpdatedAt = s.now()
		entry.LastUpdatedBy = draft.CreatedBy

		if err := s.journalRepo.ReplaceDraft(txCtx, *entry); err != nil {
			return fmt.Errorf("failed to replace draft: %w", err)
		}
		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteDraft removes a DRAFT entry. Posted and reversed entries are never deleted.
func (s *journalService) DeleteDraft(ctx context.Context, entryID string) error {
	return s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		entry, err := s.journalRepo.LockEntryForUpdate(txCtx, entryID)
		if err != nil {
			return err
		}
		if entry.Status != domain.Draft {
			return notDraftError(entry, "delete")
		}
		if err := s.journalRepo.DeleteDraft(txCtx, entryID); err != nil {
			return fmt.Errorf("failed to delete draft: %w", err)
		}
		s.LogInfo(txCtx, "Draft entry deleted", slog.String("entry_id", entryID))
		return nil
	})
}

// Post re-validates a DRAFT in full and moves it to POSTED, keeping its number.
func (s *journalService) Post(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	var posted *domain.JournalEntry
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		entry, err := s.journalRepo.LockEntryForUpdate(txCtx, entryID)
		if err != nil {
			return err
		}
		if entry.Status != domain.Draft {
			return notDraftError(entry, "post")
		}
		if err := s.validateForPosting(txCtx, draftOf(entry), true); err != nil {
			return err
		}

		now := s.now()
		if err := s.journalRepo.MarkPosted(txCtx, entryID, now, userID); err != nil {
			return fmt.Errorf("failed to mark entry posted: %w", err)
		}
		entry.Status = domain.Posted
		entry.PostedAt = &now
		entry.LastUpdatedAt = now
		entry.LastUpdatedBy = userID
		posted = entry
		return nil
	})
	if err != nil {
		s.logPostingFailure(ctx, err, entryID)
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry posted", slog.String("entry_id", entryID), slog.String("entry_number", posted.EntryNumber))
	return posted, nil
}

// CreateAndPost validates, inserts and posts a draft in one transaction.
func (s *journalService) CreateAndPost(ctx context.Context, draft domain.DraftEntry) (*domain.JournalEntry, error) {
	if strings.TrimSpace(draft.Description) == "" {
		return nil, apperrors.NewRuleViolation(apperrors.RuleInvalidInput, "description is required")
	}

	entry := s.newEntry(draft, domain.Posted, domain.KindStandard)
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.validateForPosting(txCtx, draft, true); err != nil {
			return err
		}
		if err := s.journalRepo.SaveEntry(txCtx, entry); err != nil {
			return fmt.Errorf("failed to save entry: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logPostingFailure(ctx, err, entry.EntryNumber)
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry created and posted", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	return &entry, nil
}

// Reverse posts a counter-entry with debits and credits swapped and marks the original REVERSED.
// The original keeps its lines so closed-period history is untouched; the pair nets to zero.
func (s *journalService) Reverse(ctx context.Context, entryID string, userID string, reversalDate *time.Time) (*domain.JournalEntry, error) {
	var counter domain.JournalEntry
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		original, err := s.journalRepo.LockEntryForUpdate(txCtx, entryID)
		if err != nil {
			return err
		}
		if original.Status != domain.Posted {
			return fmt.Errorf("%w: only POSTED entries can be reversed, entry %s is %s", apperrors.ErrConflict, original.EntryNumber, original.Status)
		}
		if original.Kind == domain.KindClosing {
			return fmt.Errorf("%w: closing entry %s belongs to a closed fiscal year and cannot be reversed", apperrors.ErrConflict, original.EntryNumber)
		}

		date := original.EntryDate
		if reversalDate != nil {
			date = *reversalDate
		}
		if _, err := s.openPeriodFor(txCtx, date, true); err != nil {
			return err
		}

		swapped := make([]domain.DraftLine, len(original.Lines))
		for i, l := range original.Lines {
			swapped[i] = domain.DraftLine{
				AccountID:    l.AccountID,
				Description:  l.Description,
				DebitAmount:  l.CreditAmount,
				CreditAmount: l.DebitAmount,
			}
		}
		counter = s.newEntry(domain.DraftEntry{
			EntryDate:   date,
			Description: "Reversal of " + original.EntryNumber + ": " + original.Description,
			Reference:   original.EntryNumber,
			CreatedBy:   userID,
			Lines:       swapped,
		}, domain.Posted, domain.KindReversal)
		counter.ReversalOf = &original.EntryID

		if err := s.journalRepo.SaveEntry(txCtx, counter); err != nil {
			return fmt.Errorf("failed to save reversal entry: %w", err)
		}
		if err := s.journalRepo.MarkReversed(txCtx, original.EntryID, counter.EntryID, s.now(), userID); err != nil {
			return fmt.Errorf("failed to mark entry reversed: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logPostingFailure(ctx, err, entryID)
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed", slog.String("entry_id", entryID), slog.String("reversal_entry_id", counter.EntryID))
	return &counter, nil
}

func (s *journalService) logPostingFailure(ctx context.Context, err error, ref string) {
	if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrPeriodState) ||
		errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrNotFound) {
		s.LogWarn(ctx, "Journal entry rejected", slog.String("ref", ref), slog.String("reason", err.Error()))
		return
	}
	s.LogError(ctx, err, "Journal entry operation failed", slog.String("ref", ref))
}

func (s *journalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get entry %s: %w", entryID, err)
	}
	return entry, nil
}

func (s *journalService) GetEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByNumber(ctx, entryNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get entry %s: %w", entryNumber, err)
	}
	return entry, nil
}

// ListEntries lists entries newest first using token-based pagination.
func (s *journalService) ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	entries, token, err := s.journalRepo.ListEntries(ctx, filter, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, token, nil
}
