package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

const (
	netIncomeLineName        = "Net Income (Current Period)"
	unclosedEarningsLineName = "Unclosed Earnings Adjustment"
	reconciliationLineName   = "Reconciliation adjustment"
)

// statementService compiles statements from balance-visible journal lines. It keeps no state.
type statementService struct {
	BaseService
	ledgerRepo   portsrepo.LedgerReader
	openItemRepo portsrepo.OpenItemReader
	classifier   AccountClassifier
	cfg          config.LedgerConfig
}

// NewStatementService creates the statement compiler. A nil classifier selects the keyword classifier.
func NewStatementService(
	ledgerRepo portsrepo.LedgerReader,
	openItemRepo portsrepo.OpenItemReader,
	classifier AccountClassifier,
	cfg config.LedgerConfig,
) portssvc.StatementService {
	if classifier == nil {
		classifier = NewKeywordClassifier(cfg.RetainedEarningsCode)
	}
	return &statementService{
		BaseService:  newBaseService(),
		ledgerRepo:   ledgerRepo,
		openItemRepo: openItemRepo,
		classifier:   classifier,
		cfg:          cfg,
	}
}

var _ portssvc.StatementService = (*statementService)(nil)

func (s *statementService) classify(t domain.AccountTotals) domain.Classification {
	return s.classifier.Classify(domain.Account{
		AccountID:    t.AccountID,
		Code:         t.Code,
		Name:         t.Name,
		AccountType:  t.AccountType,
		CurrencyCode: t.Currency,
		IsActive:     true,
	})
}

func (s *statementService) tolerance() decimal.Decimal {
	if s.cfg.BalanceTolerance.IsPositive() {
		return s.cfg.BalanceTolerance
	}
	return domain.BalanceTolerance
}

// shiftBack moves d back by the configured comparative offset.
func (s *statementService) shiftBack(d time.Time) time.Time {
	months := s.cfg.ComparativeMonths
	if months <= 0 {
		months = 12
	}
	return d.AddDate(0, -months, 0)
}

func (s *statementService) sum(ctx context.Context, scan domain.LedgerScan) ([]domain.AccountTotals, error) {
	totals, err := s.ledgerRepo.SumByAccount(ctx, scan)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger: %w", err)
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Code < totals[j].Code })
	return totals, nil
}

func statementLine(t domain.AccountTotals, amount decimal.Decimal) domain.StatementLine {
	return domain.StatementLine{AccountID: t.AccountID, Code: t.Code, Name: t.Name, Amount: amount}
}

// sectionBuilder collects lines per section and emits them in presentation order.
type sectionBuilder struct {
	sections map[domain.SectionTag]*domain.StatementSection
}

func newSectionBuilder() *sectionBuilder {
	return &sectionBuilder{sections: make(map[domain.SectionTag]*domain.StatementSection)}
}

func (b *sectionBuilder) add(tag domain.SectionTag, line domain.StatementLine) {
	sec, ok := b.sections[tag]
	if !ok {
		sec = &domain.StatementSection{Tag: tag, Title: domain.SectionTitles[tag], Lines: []domain.StatementLine{}, Total: decimal.Zero}
		b.sections[tag] = sec
	}
	sec.Lines = append(sec.Lines, line)
	sec.Total = sec.Total.Add(line.Amount)
}

// build returns non-empty sections for accountType in order, plus their grand total.
func (b *sectionBuilder) build(accountType domain.AccountType) ([]domain.StatementSection, decimal.Decimal) {
	out := make([]domain.StatementSection, 0, len(domain.SectionOrder[accountType]))
	total := decimal.Zero
	for _, tag := range domain.SectionOrder[accountType] {
		sec, ok := b.sections[tag]
		if !ok {
			continue
		}
		out = append(out, *sec)
		total = total.Add(sec.Total)
	}
	return out, total
}

// sectionFor keeps a classifier answer inside the account type's own sections.
func sectionFor(accountType domain.AccountType, c domain.Classification) domain.SectionTag {
	order := domain.SectionOrder[accountType]
	for _, tag := range order {
		if tag == c.Section {
			return tag
		}
	}
	if len(order) == 0 {
		return c.Section
	}
	return order[0]
}

// BalanceSheet presents cumulative balances as of asOf.
func (s *statementService) BalanceSheet(ctx context.Context, asOf time.Time, comparative bool) (*domain.BalanceSheet, error) {
	sheet, err := s.balanceSheet(ctx, domain.DateOnly(asOf))
	if err != nil {
		return nil, err
	}
	if comparative {
		prev, err := s.balanceSheet(ctx, s.shiftBack(sheet.AsOf))
		if err != nil {
			return nil, err
		}
		sheet.Comparative = prev
	}
	return sheet, nil
}

func (s *statementService) balanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	totals, err := s.sum(ctx, domain.LedgerScan{To: asOf})
	if err != nil {
		return nil, err
	}

	assets, liabilities, equity := newSectionBuilder(), newSectionBuilder(), newSectionBuilder()
	unclosed := decimal.Zero
	for _, t := range totals {
		switch t.AccountType {
		case domain.Revenue:
			unclosed = unclosed.Add(t.NormalBalance())
			continue
		case domain.Expense:
			unclosed = unclosed.Sub(t.NormalBalance())
			continue
		}
		amount := t.NormalBalance()
		if amount.IsZero() {
			continue
		}
		tag := sectionFor(t.AccountType, s.classify(t))
		switch t.AccountType {
		case domain.Asset:
			assets.add(tag, statementLine(t, amount))
		case domain.Liability:
			liabilities.add(tag, statementLine(t, amount))
		case domain.Equity:
			equity.add(tag, statementLine(t, amount))
		}
	}

	yearStart := time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	ytd, err := s.incomeStatement(ctx, yearStart, asOf, false)
	if err != nil {
		return nil, err
	}
	equity.add(domain.SectionRetainedEarnings, domain.StatementLine{Name: netIncomeLineName, Amount: ytd.NetIncome, IsAdjustment: true})
	if adj := unclosed.Sub(ytd.NetIncome); !adj.IsZero() {
		equity.add(domain.SectionRetainedEarnings, domain.StatementLine{Name: unclosedEarningsLineName, Amount: adj, IsAdjustment: true})
	}

	sheet := &domain.BalanceSheet{AsOf: asOf}
	sheet.Assets, sheet.TotalAssets = assets.build(domain.Asset)
	sheet.Liabilities, sheet.TotalLiabilities = liabilities.build(domain.Liability)
	sheet.Equity, sheet.TotalEquity = equity.build(domain.Equity)
	sheet.Balanced = domain.WithinTolerance(sheet.TotalAssets, sheet.TotalLiabilities.Add(sheet.TotalEquity), s.tolerance())

	if !sheet.Balanced {
		s.LogWarn(ctx, "Balance sheet does not balance",
			slog.String("as_of", asOf.Format(time.DateOnly)),
			slog.String("assets", sheet.TotalAssets.String()),
			slog.String("liabilities_and_equity", sheet.TotalLiabilities.Add(sheet.TotalEquity).String()))
	}
	return sheet, nil
}

// IncomeStatement reports over [from, to]; reversed bounds are swapped.
func (s *statementService) IncomeStatement(ctx context.Context, from, to time.Time, comparative, details bool) (*domain.IncomeStatement, error) {
	from, to = orderedRange(from, to)
	stmt, err := s.incomeStatement(ctx, from, to, details)
	if err != nil {
		return nil, err
	}
	if comparative {
		prev, err := s.incomeStatement(ctx, s.shiftBack(from), s.shiftBack(to), details)
		if err != nil {
			return nil, err
		}
		stmt.Comparative = prev
	}
	return stmt, nil
}

func orderedRange(from, to time.Time) (time.Time, time.Time) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if from.After(to) {
		return to, from
	}
	return from, to
}

func (s *statementService) incomeStatement(ctx context.Context, from, to time.Time, details bool) (*domain.IncomeStatement, error) {
	totals, err := s.sum(ctx, domain.LedgerScan{From: &from, To: to, ExcludeKinds: []domain.EntryKind{domain.KindClosing}})
	if err != nil {
		return nil, err
	}
	return s.incomeFromTotals(from, to, totals, details), nil
}

func (s *statementService) incomeFromTotals(from, to time.Time, totals []domain.AccountTotals, details bool) *domain.IncomeStatement {
	stmt := &domain.IncomeStatement{
		FromDate:      from,
		ToDate:        to,
		Revenue:       []domain.StatementLine{},
		Expenses:      []domain.StatementLine{},
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	revenue, expenses := newSectionBuilder(), newSectionBuilder()

	for _, t := range totals {
		if t.AccountType != domain.Revenue && t.AccountType != domain.Expense {
			continue
		}
		amount := t.NormalBalance()
		if amount.IsZero() {
			continue
		}
		line := statementLine(t, amount)
		tag := domain.SectionTag("")
		if details {
			tag = sectionFor(t.AccountType, s.classify(t))
		}
		if t.AccountType == domain.Revenue {
			stmt.Revenue = append(stmt.Revenue, line)
			stmt.TotalRevenue = stmt.TotalRevenue.Add(amount)
			if details {
				revenue.add(tag, line)
			}
		} else {
			stmt.Expenses = append(stmt.Expenses, line)
			stmt.TotalExpenses = stmt.TotalExpenses.Add(amount)
			if details {
				expenses.add(tag, line)
			}
		}
	}

	stmt.NetIncome = stmt.TotalRevenue.Sub(stmt.TotalExpenses)
	if details {
		stmt.RevenueDetail, _ = revenue.build(domain.Revenue)
		stmt.ExpenseDetail, _ = expenses.build(domain.Expense)
	}
	return stmt
}

// Package compiles the balance sheet as of asOf alongside the income and cash flow
// statements from from through asOf. A from after asOf falls back to January 1 of asOf's year.
func (s *statementService) Package(ctx context.Context, asOf, from time.Time, comparative bool) (*domain.StatementPackage, error) {
	asOf, from = domain.DateOnly(asOf), domain.DateOnly(from)
	if from.After(asOf) {
		from = time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	sheet, err := s.BalanceSheet(ctx, asOf, comparative)
	if err != nil {
		return nil, err
	}
	income, err := s.IncomeStatement(ctx, from, asOf, comparative, false)
	if err != nil {
		return nil, err
	}
	cashFlow, err := s.CashFlowStatement(ctx, from, asOf, comparative)
	if err != nil {
		return nil, err
	}

	return &domain.StatementPackage{
		ReportDate:      asOf,
		PeriodStart:     from,
		BalanceSheet:    sheet,
		IncomeStatement: income,
		CashFlow:        cashFlow,
	}, nil
}

// TrialBalance lists every account with activity up to asOf.
func (s *statementService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	asOf = domain.DateOnly(asOf)
	totals, err := s.sum(ctx, domain.LedgerScan{To: asOf})
	if err != nil {
		return nil, err
	}

	tb := &domain.TrialBalance{AsOf: asOf, Rows: []domain.TrialBalanceRow{}, TotalDebits: decimal.Zero, TotalCredits: decimal.Zero}
	for _, t := range totals {
		if t.Debit.IsZero() && t.Credit.IsZero() {
			continue
		}
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountID:   t.AccountID,
			Code:        t.Code,
			AccountName: t.Name,
			AccountType: t.AccountType,
			Debit:       t.Debit,
			Credit:      t.Credit,
			Balance:     t.NormalBalance(),
		})
		tb.TotalDebits = tb.TotalDebits.Add(t.Debit)
		tb.TotalCredits = tb.TotalCredits.Add(t.Credit)
	}
	tb.Balanced = tb.TotalDebits.Equal(tb.TotalCredits)
	if !tb.Balanced {
		s.LogError(ctx, fmt.Errorf("trial balance off by %s", tb.TotalDebits.Sub(tb.TotalCredits)), "Ledger out of balance",
			slog.String("as_of", asOf.Format(time.DateOnly)))
	}
	return tb, nil
}

// AgingReport buckets outstanding open items by days past due.
// Items not yet due count as zero days so they land in the first bucket.
func (s *statementService) AgingReport(ctx context.Context, asOf time.Time, kind domain.OpenItemKind, buckets []domain.AgingBucket) (*domain.AgingReport, error) {
	asOf = domain.DateOnly(asOf)
	if len(buckets) == 0 {
		buckets = domain.DefaultAgingBuckets()
	}

	items, err := s.openItemRepo.ListOpenItems(ctx, kind, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list open items: %w", err)
	}

	report := &domain.AgingReport{
		AsOf:         asOf,
		Kind:         kind,
		Buckets:      buckets,
		Rows:         []domain.AgingRow{},
		BucketTotals: make(map[string]decimal.Decimal, len(buckets)),
		GrandTotal:   decimal.Zero,
	}
	for _, b := range buckets {
		report.BucketTotals[b.Label] = decimal.Zero
	}

	rows := make(map[string]*domain.AgingRow)
	order := make([]string, 0)
	for _, item := range items {
		outstanding := item.Outstanding()
		if !outstanding.IsPositive() {
			continue
		}
		days := daysBetween(domain.DateOnly(item.DueDate), asOf)
		if days < 0 {
			days = 0
		}
		label := bucketLabel(buckets, days)
		if label == "" {
			s.LogWarn(ctx, "Open item fits no aging bucket", slog.String("item_id", item.ItemID), slog.Int("days", days))
			continue
		}

		row, ok := rows[item.CounterpartyID]
		if !ok {
			row = &domain.AgingRow{
				CounterpartyID:   item.CounterpartyID,
				CounterpartyName: item.CounterpartyName,
				Buckets:          make(map[string]decimal.Decimal, len(buckets)),
				Total:            decimal.Zero,
			}
			for _, b := range buckets {
				row.Buckets[b.Label] = decimal.Zero
			}
			rows[item.CounterpartyID] = row
			order = append(order, item.CounterpartyID)
		}
		row.Buckets[label] = row.Buckets[label].Add(outstanding)
		row.Total = row.Total.Add(outstanding)
		report.BucketTotals[label] = report.BucketTotals[label].Add(outstanding)
		report.GrandTotal = report.GrandTotal.Add(outstanding)
	}

	sort.SliceStable(order, func(i, j int) bool { return rows[order[i]].CounterpartyName < rows[order[j]].CounterpartyName })
	for _, id := range order {
		report.Rows = append(report.Rows, *rows[id])
	}
	return report, nil
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func bucketLabel(buckets []domain.AgingBucket, days int) string {
	for _, b := range buckets {
		if b.Contains(days) {
			return b.Label
		}
	}
	return ""
}
