package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

var workingCapitalLabels = map[domain.CashFlowRole]string{
	domain.FlowReceivable: "Decrease (Increase) in Accounts Receivable",
	domain.FlowInventory:  "Decrease (Increase) in Inventory",
	domain.FlowPrepaid:    "Decrease (Increase) in Prepaid Expenses",
	domain.FlowPayable:    "Increase (Decrease) in Accounts Payable",
	domain.FlowAccrued:    "Increase (Decrease) in Accrued Liabilities",
}

var workingCapitalOrder = []domain.CashFlowRole{
	domain.FlowReceivable, domain.FlowInventory, domain.FlowPrepaid, domain.FlowPayable, domain.FlowAccrued,
}

// CashFlowStatement derives cash flows indirectly from net income over [from, to].
func (s *statementService) CashFlowStatement(ctx context.Context, from, to time.Time, comparative bool) (*domain.CashFlowStatement, error) {
	from, to = orderedRange(from, to)
	stmt, err := s.cashFlow(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if comparative {
		prev, err := s.cashFlow(ctx, s.shiftBack(from), s.shiftBack(to))
		if err != nil {
			return nil, err
		}
		stmt.Comparative = prev
	}
	return stmt, nil
}

func newCashFlowSection(title string) domain.CashFlowSection {
	return domain.CashFlowSection{Title: title, Lines: []domain.StatementLine{}, Total: decimal.Zero}
}

func addCashLine(sec *domain.CashFlowSection, line domain.StatementLine) {
	sec.Lines = append(sec.Lines, line)
	sec.Total = sec.Total.Add(line.Amount)
}

func (s *statementService) cashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowStatement, error) {
	// Closing entries never touch cash and would cancel net income.
	movements, err := s.sum(ctx, domain.LedgerScan{From: &from, To: to, ExcludeKinds: []domain.EntryKind{domain.KindClosing}})
	if err != nil {
		return nil, err
	}
	opening, err := s.sum(ctx, domain.LedgerScan{To: from.AddDate(0, 0, -1)})
	if err != nil {
		return nil, err
	}

	income := s.incomeFromTotals(from, to, movements, false)
	stmt := &domain.CashFlowStatement{
		FromDate:  from,
		ToDate:    to,
		NetIncome: income.NetIncome,
		Operating: newCashFlowSection("Cash Flows from Operating Activities"),
		Investing: newCashFlowSection("Cash Flows from Investing Activities"),
		Financing: newCashFlowSection("Cash Flows from Financing Activities"),
	}
	addCashLine(&stmt.Operating, domain.StatementLine{Name: "Net Income", Amount: income.NetIncome})

	nonCash := decimal.Zero
	workingCapital := make(map[domain.CashFlowRole]decimal.Decimal, len(workingCapitalOrder))
	cashChange := decimal.Zero

	for _, t := range movements {
		net := t.Net()
		if net.IsZero() {
			continue
		}
		c := s.classify(t)
		switch {
		case c.Flow == domain.FlowCash && t.AccountType == domain.Asset:
			cashChange = cashChange.Add(net)
		case c.Flow == domain.FlowNonCash && t.AccountType == domain.Expense:
			nonCash = nonCash.Add(net)
		case t.AccountType == domain.Revenue || t.AccountType == domain.Expense:
			// already in net income
		case workingCapitalLabels[c.Flow] != "":
			// A debit movement on any balance sheet account absorbs cash.
			workingCapital[c.Flow] = workingCapital[c.Flow].Sub(net)
		case c.Flow == domain.FlowCapitalAsset || c.Flow == domain.FlowInvestment:
			addCashLine(&stmt.Investing, statementLine(t, net.Neg()))
		case c.Flow == domain.FlowDebt || c.Flow == domain.FlowEquity:
			addCashLine(&stmt.Financing, statementLine(t, net.Neg()))
		}
	}

	if !nonCash.IsZero() {
		addCashLine(&stmt.Operating, domain.StatementLine{Name: "Depreciation and Amortization", Amount: nonCash})
	}
	for _, role := range workingCapitalOrder {
		if amt, ok := workingCapital[role]; ok && !amt.IsZero() {
			addCashLine(&stmt.Operating, domain.StatementLine{Name: workingCapitalLabels[role], Amount: amt})
		}
	}

	for _, t := range opening {
		if t.AccountType == domain.Asset && s.classify(t).Flow == domain.FlowCash {
			stmt.BeginningCash = stmt.BeginningCash.Add(t.Net())
		}
	}
	stmt.EndingCash = stmt.BeginningCash.Add(cashChange)
	stmt.NetChange = stmt.Operating.Total.Add(stmt.Investing.Total).Add(stmt.Financing.Total)

	if diff := cashChange.Sub(stmt.NetChange); diff.Abs().GreaterThan(s.tolerance()) {
		addCashLine(&stmt.Operating, domain.StatementLine{Name: reconciliationLineName, Amount: diff, IsAdjustment: true})
		stmt.NetChange = stmt.NetChange.Add(diff)
		stmt.ReconciliationAdjustment = &diff
		s.LogWarn(ctx, "Cash flow reconciliation adjustment applied",
			slog.String("from", from.Format(time.DateOnly)),
			slog.String("to", to.Format(time.DateOnly)),
			slog.String("adjustment", diff.StringFixed(domain.MoneyPlaces)),
			slog.Bool("unclassified_movement", true))
	}
	return stmt, nil
}
