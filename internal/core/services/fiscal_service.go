package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// fiscalService manages periods, period close snapshots and year-end close.
type fiscalService struct {
	BaseService
	fiscalRepo  portsrepo.FiscalRepositoryFacade
	journalRepo portsrepo.JournalWriter
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
	txManager   portsrepo.TransactionManager
	cfg         config.LedgerConfig
}

// NewFiscalService creates the fiscal period manager.
func NewFiscalService(
	fiscalRepo portsrepo.FiscalRepositoryFacade,
	journalRepo portsrepo.JournalWriter,
	accountRepo portsrepo.AccountReader,
	ledgerRepo portsrepo.LedgerReader,
	txManager portsrepo.TransactionManager,
	cfg config.LedgerConfig,
) portssvc.FiscalSvcFacade {
	return &fiscalService{
		BaseService: newBaseService(),
		fiscalRepo:  fiscalRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		txManager:   txManager,
		cfg:         cfg,
	}
}

var _ portssvc.FiscalSvcFacade = (*fiscalService)(nil)

// CreatePeriod opens a period after checking it overlaps no existing one, bounds inclusive.
func (s *fiscalService) CreatePeriod(ctx context.Context, req dto.CreateFiscalPeriodRequest, userID string) (*domain.FiscalPeriod, error) {
	start, end := domain.DateOnly(req.StartDate), domain.DateOnly(req.EndDate)
	if !start.Before(end) {
		return nil, apperrors.NewRuleViolation(apperrors.RuleInvalidInput, "period start %s must be before end %s", start.Format(dto.DateLayout), end.Format(dto.DateLayout))
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewRuleViolation(apperrors.RuleInvalidInput, "period name is required")
	}
	year := req.FiscalYear
	if year == 0 {
		year = start.Year()
	}

	period := s.newPeriod(name, year, start, end, userID)
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		return s.savePeriod(txCtx, period)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	return &period, nil
}

// CreateFiscalYear opens twelve calendar-month periods named YYYY-MM, all or nothing.
func (s *fiscalService) CreateFiscalYear(ctx context.Context, year int, userID string) ([]domain.FiscalPeriod, error) {
	if year < 1900 || year > 9999 {
		return nil, apperrors.NewRuleViolation(apperrors.RuleInvalidInput, "invalid fiscal year %d", year)
	}

	periods := make([]domain.FiscalPeriod, 0, 12)
	for m := time.January; m <= time.December; m++ {
		start := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)
		periods = append(periods, s.newPeriod(fmt.Sprintf("%04d-%02d", year, int(m)), year, start, end, userID))
	}

	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, p := range periods {
			if err := s.savePeriod(txCtx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal year created", slog.Int("fiscal_year", year))
	return periods, nil
}

func (s *fiscalService) newPeriod(name string, year int, start, end time.Time, userID string) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		PeriodID:    uuid.NewString(),
		Name:        name,
		FiscalYear:  year,
		StartDate:   start,
		EndDate:     end,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}
}

func (s *fiscalService) savePeriod(ctx context.Context, p domain.FiscalPeriod) error {
	overlapping, err := s.fiscalRepo.FindOverlappingPeriods(ctx, p.StartDate, p.EndDate)
	if err != nil {
		return fmt.Errorf("failed to check period overlap: %w", err)
	}
	if len(overlapping) > 0 {
		return apperrors.NewPeriodStateError(apperrors.ReasonPeriodOverlap, "period %s overlaps existing period %s", p.Name, overlapping[0].Name)
	}
	if err := s.fiscalRepo.SavePeriod(ctx, p); err != nil {
		return fmt.Errorf("failed to save period %s: %w", p.Name, err)
	}
	return nil
}

func (s *fiscalService) GetPeriod(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	return s.fiscalRepo.FindPeriodByID(ctx, periodID)
}

// CurrentPeriod returns the period containing date.
func (s *fiscalService) CurrentPeriod(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	periods, err := s.fiscalRepo.FindPeriodsContaining(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to look up fiscal period: %w", err)
	}
	if len(periods) == 0 {
		return nil, apperrors.NewPeriodStateError(apperrors.ReasonNoPeriodDefined, "no fiscal period contains %s", date.Format(dto.DateLayout))
	}
	return &periods[0], nil
}

func (s *fiscalService) ListPeriods(ctx context.Context, fiscalYear *int) ([]domain.FiscalPeriod, error) {
	periods, err := s.fiscalRepo.ListPeriods(ctx, fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	return periods, nil
}

// PeriodBalances returns snapshot rows ordered by account.
func (s *fiscalService) PeriodBalances(ctx context.Context, periodID string) ([]domain.AccountBalance, error) {
	if _, err := s.fiscalRepo.FindPeriodByID(ctx, periodID); err != nil {
		return nil, err
	}
	byAccount, err := s.fiscalRepo.FindBalancesByPeriod(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load period balances: %w", err)
	}
	balances := make([]domain.AccountBalance, 0, len(byAccount))
	for _, b := range byAccount {
		balances = append(balances, b)
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].AccountID < balances[j].AccountID })
	return balances, nil
}

// ClosePeriod snapshots every account's balance and marks the period closed, atomically.
// Closing balances are cumulative up to the period end; the opening side prefers a
// carry-forward row already written for the period, then the predecessor's closing.
func (s *fiscalService) ClosePeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error) {
	var closed *domain.FiscalPeriod
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		period, err := s.fiscalRepo.LockPeriodForUpdate(txCtx, periodID)
		if err != nil {
			return err
		}
		if period.IsClosed {
			return apperrors.NewPeriodStateError(apperrors.ReasonPeriodClosed, "fiscal period %s is already closed", period.Name)
		}

		drafts, err := s.ledgerRepo.CountDraftEntries(txCtx, period.StartDate, period.EndDate)
		if err != nil {
			return fmt.Errorf("failed to count draft entries: %w", err)
		}
		if drafts > 0 {
			return apperrors.NewPeriodStateError(apperrors.ReasonOpenEntriesExist, "%d draft entries are dated within %s", drafts, period.Name)
		}

		totals, err := s.ledgerRepo.SumByAccount(txCtx, domain.LedgerScan{To: period.EndDate})
		if err != nil {
			return fmt.Errorf("failed to sum ledger: %w", err)
		}

		carried, err := s.fiscalRepo.FindBalancesByPeriod(txCtx, period.PeriodID)
		if err != nil {
			return fmt.Errorf("failed to load carried balances: %w", err)
		}
		previous, err := s.previousClosing(txCtx, period.StartDate)
		if err != nil {
			return err
		}

		now := s.now()
		rows := make([]domain.AccountBalance, 0, len(totals))
		for _, t := range totals {
			closing := t.Net()
			opening := decimal.Zero
			if row, ok := carried[t.AccountID]; ok {
				opening = row.OpeningBalance
			} else if row, ok := previous[t.AccountID]; ok {
				opening = row.ClosingBalance
			}
			rows = append(rows, domain.AccountBalance{
				AccountID:      t.AccountID,
				PeriodID:       period.PeriodID,
				CurrencyCode:   t.Currency,
				OpeningBalance: opening,
				CurrentBalance: closing.Sub(opening),
				ClosingBalance: closing,
				UpdatedAt:      now,
			})
		}

		if err := s.fiscalRepo.UpsertAccountBalances(txCtx, rows); err != nil {
			return fmt.Errorf("failed to write period balances: %w", err)
		}
		if err := s.fiscalRepo.MarkPeriodClosed(txCtx, period.PeriodID, now, userID); err != nil {
			return fmt.Errorf("failed to mark period closed: %w", err)
		}

		period.IsClosed = true
		period.ClosedAt = &now
		period.ClosedBy = &userID
		closed = period
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrPeriodState) {
			s.LogWarn(ctx, "Period close rejected", slog.String("period_id", periodID), slog.String("reason", err.Error()))
		} else {
			s.LogError(ctx, err, "Period close failed", slog.String("period_id", periodID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal period closed", slog.String("period_id", periodID), slog.String("name", closed.Name))
	return closed, nil
}

func (s *fiscalService) previousClosing(ctx context.Context, start time.Time) (map[string]domain.AccountBalance, error) {
	prev, err := s.fiscalRepo.FindPreviousPeriod(ctx, start)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return map[string]domain.AccountBalance{}, nil
		}
		return nil, fmt.Errorf("failed to find previous period: %w", err)
	}
	balances, err := s.fiscalRepo.FindBalancesByPeriod(ctx, prev.PeriodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load previous period balances: %w", err)
	}
	return balances, nil
}

// CloseFiscalYear zeroes revenue and expense accounts into retained earnings with one
// CLOSING entry dated on the year's last day, then carries balances into the next year.
func (s *fiscalService) CloseFiscalYear(ctx context.Context, year int, userID string) (*domain.YearCloseResult, error) {
	result := &domain.YearCloseResult{FiscalYear: year}

	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		periods, err := s.fiscalRepo.ListPeriods(txCtx, &year)
		if err != nil {
			return fmt.Errorf("failed to list periods: %w", err)
		}
		if len(periods) == 0 {
			return apperrors.NewPeriodStateError(apperrors.ReasonNoPeriodDefined, "no fiscal periods defined for %d", year)
		}
		yearEnd := periods[0].EndDate
		for _, p := range periods {
			if !p.IsClosed {
				return apperrors.NewPeriodStateError(apperrors.ReasonPeriodsNotAllClosed, "fiscal period %s is still open", p.Name)
			}
			if p.EndDate.After(yearEnd) {
				yearEnd = p.EndDate
			}
		}

		retained, err := s.retainedEarningsAccount(txCtx)
		if err != nil {
			return err
		}

		totals, err := s.ledgerRepo.SumByAccount(txCtx, domain.LedgerScan{To: yearEnd})
		if err != nil {
			return fmt.Errorf("failed to sum ledger: %w", err)
		}

		lines, netIncome := closingLines(totals, retained.AccountID)
		result.NetIncome = netIncome

		if len(lines) >= 2 {
			entry, err := s.postClosingEntry(txCtx, year, yearEnd, lines, userID)
			if err != nil {
				return err
			}
			result.ClosingEntry = entry
		} else {
			s.LogInfo(txCtx, "No revenue or expense balances to close", slog.Int("fiscal_year", year))
		}

		return s.carryForward(txCtx, year, totals, lines, result)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrPeriodState) || errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, "Year close rejected", slog.Int("fiscal_year", year), slog.String("reason", err.Error()))
		} else {
			s.LogError(ctx, err, "Year close failed", slog.Int("fiscal_year", year))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal year closed",
		slog.Int("fiscal_year", year),
		slog.String("net_income", result.NetIncome.StringFixed(domain.MoneyPlaces)),
		slog.Bool("carried_forward", result.CarriedForward))
	return result, nil
}

func (s *fiscalService) retainedEarningsAccount(ctx context.Context) (*domain.Account, error) {
	acc, err := s.accountRepo.FindAccountByCode(ctx, s.cfg.RetainedEarningsCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewRuleViolation(apperrors.RuleAccountMissing, "retained earnings account %s does not exist", s.cfg.RetainedEarningsCode)
		}
		return nil, fmt.Errorf("failed to load retained earnings account: %w", err)
	}
	if acc.AccountType != domain.Equity {
		return nil, apperrors.NewRuleViolation(apperrors.RuleInvalidInput, "retained earnings account %s must be EQUITY, is %s", acc.Code, acc.AccountType)
	}
	return acc, nil
}

// closingLines debits each revenue account by its credit balance, credits each expense
// account by its debit balance and books the difference to retained earnings.
func closingLines(totals []domain.AccountTotals, retainedID string) ([]domain.DraftLine, decimal.Decimal) {
	lines := make([]domain.DraftLine, 0)
	netIncome := decimal.Zero

	for _, t := range totals {
		if t.AccountType != domain.Revenue && t.AccountType != domain.Expense {
			continue
		}
		balance := t.NormalBalance()
		if balance.IsZero() {
			continue
		}

		line := domain.DraftLine{AccountID: t.AccountID, Description: "Year-end close", DebitAmount: decimal.Zero, CreditAmount: decimal.Zero}
		if t.AccountType == domain.Revenue {
			netIncome = netIncome.Add(balance)
			if balance.IsPositive() {
				line.DebitAmount = balance
			} else {
				line.CreditAmount = balance.Neg()
			}
		} else {
			netIncome = netIncome.Sub(balance)
			if balance.IsPositive() {
				line.CreditAmount = balance
			} else {
				line.DebitAmount = balance.Neg()
			}
		}
		lines = append(lines, line)
	}

	if !netIncome.IsZero() {
		line := domain.DraftLine{AccountID: retainedID, Description: "Net income to retained earnings", DebitAmount: decimal.Zero, CreditAmount: decimal.Zero}
		if netIncome.IsPositive() {
			line.CreditAmount = netIncome
		} else {
			line.DebitAmount = netIncome.Neg()
		}
		lines = append(lines, line)
	}
	return lines, netIncome
}

// postClosingEntry stores the entry as POSTED directly. The period is closed by now, so
// the open-period rule is skipped; the balance rule is not.
func (s *fiscalService) postClosingEntry(ctx context.Context, year int, yearEnd time.Time, lines []domain.DraftLine, userID string) (*domain.JournalEntry, error) {
	if err := accounting.ValidateLineShape(lines); err != nil {
		return nil, fmt.Errorf("closing entry for %d is invalid: %w", year, err)
	}

	now := s.now()
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryNumber: accounting.ClosingEntryNumber(year),
		EntryDate:   domain.DateOnly(yearEnd),
		Description: fmt.Sprintf("Fiscal year %d closing entry", year),
		Status:      domain.Posted,
		Kind:        domain.KindClosing,
		PostedAt:    &now,
		AuditFields: domain.NewAuditFields(userID, now),
	}
	entry.Lines = buildLines(entry.EntryID, lines)

	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("fiscal year %d is already closed: %w", year, err)
		}
		return nil, fmt.Errorf("failed to save closing entry: %w", err)
	}
	return &entry, nil
}

// carryForward writes opening rows into the first period of year+1 when it exists.
// Balance sheet accounts open at their post-closing balance, revenue and expense at zero.
func (s *fiscalService) carryForward(ctx context.Context, year int, totals []domain.AccountTotals, closing []domain.DraftLine, result *domain.YearCloseResult) error {
	nextYear := year + 1
	nextPeriods, err := s.fiscalRepo.ListPeriods(ctx, &nextYear)
	if err != nil {
		return fmt.Errorf("failed to list next year periods: %w", err)
	}
	if len(nextPeriods) == 0 {
		s.LogInfo(ctx, "No next-year period, skipping carry-forward", slog.Int("fiscal_year", year))
		return nil
	}
	first := nextPeriods[0]
	for _, p := range nextPeriods[1:] {
		if p.StartDate.Before(first.StartDate) {
			first = p
		}
	}
	// A closed period's snapshot is final; its opening rows were written when it closed.
	if first.IsClosed {
		s.LogWarn(ctx, "Next-year period already closed, skipping carry-forward",
			slog.Int("fiscal_year", year),
			slog.String("period_id", first.PeriodID))
		return nil
	}

	closingNet := make(map[string]decimal.Decimal, len(closing))
	for _, l := range closing {
		closingNet[l.AccountID] = closingNet[l.AccountID].Add(l.DebitAmount.Sub(l.CreditAmount))
	}

	now := s.now()
	rows := make([]domain.AccountBalance, 0, len(totals))
	for _, t := range totals {
		opening := decimal.Zero
		if t.AccountType.IsBalanceSheet() {
			opening = t.Net().Add(closingNet[t.AccountID])
		}
		rows = append(rows, domain.AccountBalance{
			AccountID:      t.AccountID,
			PeriodID:       first.PeriodID,
			CurrencyCode:   t.Currency,
			OpeningBalance: opening,
			CurrentBalance: decimal.Zero,
			ClosingBalance: opening,
			UpdatedAt:      now,
		})
	}

	if err := s.fiscalRepo.UpsertAccountBalances(ctx, rows); err != nil {
		return fmt.Errorf("failed to carry balances forward: %w", err)
	}
	result.CarriedForward = true
	result.NextPeriodID = &first.PeriodID
	result.CarryForwardCounts = len(rows)
	return nil
}
