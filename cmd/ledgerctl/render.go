package main

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const reportWidth = 72

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Width(reportWidth).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	amountStyle = lipgloss.NewStyle().
			Width(16).
			Align(lipgloss.Right)

	totalStyle = lipgloss.NewStyle().
			Bold(true).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// amount renders negatives in parentheses.
func amount(d decimal.Decimal) string {
	if d.IsNegative() {
		return "(" + utils.FormatMoney(d.Neg(), "") + ")"
	}
	return utils.FormatMoney(d, "")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-2] + ".."
}

func row(label string, cols ...string) string {
	cells := []string{lipgloss.NewStyle().Width(reportWidth - 16*len(cols)).Render(label)}
	for _, c := range cols {
		cells = append(cells, amountStyle.Render(c))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func balancedBadge(balanced bool) string {
	if balanced {
		return successStyle.Render("[BALANCED]")
	}
	return errorStyle.Render("[UNBALANCED]")
}

func renderTrialBalance(tb *domain.TrialBalance) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TRIAL BALANCE"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("as of " + tb.AsOf.Format(dto.DateLayout)))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(row("ACCOUNT", "DEBIT", "CREDIT")))
	b.WriteString("\n")

	for _, r := range tb.Rows {
		debit, credit := "", ""
		if !r.Debit.IsZero() {
			debit = amount(r.Debit)
		}
		if !r.Credit.IsZero() {
			credit = amount(r.Credit)
		}
		b.WriteString(row(truncate(r.Code+" "+r.AccountName, reportWidth-34), debit, credit))
		b.WriteString("\n")
	}

	b.WriteString(totalStyle.Render(row("TOTALS", amount(tb.TotalDebits), amount(tb.TotalCredits))))
	b.WriteString("\n")
	b.WriteString(balancedBadge(tb.Balanced))
	return b.String()
}

func renderSections(title string, sections []domain.StatementSection, total decimal.Decimal) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(strings.ToUpper(title)))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("  " + s.Title + "\n")
		for _, l := range s.Lines {
			label := l.Name
			if l.Code != "" {
				label = l.Code + " " + l.Name
			}
			b.WriteString(row("    "+truncate(label, reportWidth-22), amount(l.Amount)))
			b.WriteString("\n")
		}
	}
	b.WriteString(totalStyle.Render(row("Total "+title, amount(total))))
	b.WriteString("\n")
	return b.String()
}

func renderBalanceSheet(bs *domain.BalanceSheet) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("BALANCE SHEET"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("as of " + bs.AsOf.Format(dto.DateLayout)))
	b.WriteString("\n")
	b.WriteString(renderSections("Assets", bs.Assets, bs.TotalAssets))
	b.WriteString(renderSections("Liabilities", bs.Liabilities, bs.TotalLiabilities))
	b.WriteString(renderSections("Equity", bs.Equity, bs.TotalEquity))
	b.WriteString(totalStyle.Render(row("Total Liabilities + Equity", amount(bs.TotalLiabilities.Add(bs.TotalEquity)))))
	b.WriteString("\n")
	b.WriteString(balancedBadge(bs.Balanced))
	return b.String()
}

func renderPeriods(periods []domain.FiscalPeriod) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-38s %-10s %-12s %-12s", "PERIOD", "NAME", "START", "END")))
	b.WriteString("\n")
	for _, p := range periods {
		b.WriteString(fmt.Sprintf("%-38s %-10s %-12s %-12s\n",
			p.PeriodID, p.Name, p.StartDate.Format(dto.DateLayout), p.EndDate.Format(dto.DateLayout)))
	}
	return b.String()
}

func renderYearClose(r *domain.YearCloseResult) string {
	lines := []string{
		successStyle.Render(fmt.Sprintf("Fiscal year %d closed", r.FiscalYear)),
		row("Net income", amount(r.NetIncome)),
	}
	if r.ClosingEntry != nil {
		lines = append(lines, row("Closing entry", r.ClosingEntry.EntryNumber))
	}
	if r.CarriedForward {
		lines = append(lines, row("Balances carried forward", fmt.Sprintf("%d", r.CarryForwardCounts)))
	} else {
		lines = append(lines, dimStyle.Render("No next-year period yet; balances were not carried forward"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
