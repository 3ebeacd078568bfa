package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountTotals is the sum of debits and credits posted to one account over a scan.
type AccountTotals struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Currency    string          `json:"currencyCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// Net returns debit minus credit.
func (t AccountTotals) Net() decimal.Decimal {
	return t.Debit.Sub(t.Credit)
}

// NormalBalance returns the balance signed by the account type's normal side.
func (t AccountTotals) NormalBalance() decimal.Decimal {
	if t.AccountType.IsDebitNormal() {
		return t.Debit.Sub(t.Credit)
	}
	return t.Credit.Sub(t.Debit)
}

// LedgerScan selects balance-visible lines for aggregation.
// From is optional; To is inclusive.
type LedgerScan struct {
	From         *time.Time
	To           time.Time
	ExcludeKinds []EntryKind
}

// SectionTag places an account in a statement section.
type SectionTag string

const (
	SectionCurrentAssets       SectionTag = "CURRENT_ASSETS"
	SectionFixedAssets         SectionTag = "FIXED_ASSETS"
	SectionOtherAssets         SectionTag = "OTHER_ASSETS"
	SectionCurrentLiabilities  SectionTag = "CURRENT_LIABILITIES"
	SectionLongTermLiabilities SectionTag = "LONG_TERM_LIABILITIES"
	SectionShareCapital        SectionTag = "SHARE_CAPITAL"
	SectionRetainedEarnings    SectionTag = "RETAINED_EARNINGS"
	SectionOtherEquity         SectionTag = "OTHER_EQUITY"
	SectionOperatingRevenue    SectionTag = "OPERATING_REVENUE"
	SectionOtherRevenue        SectionTag = "OTHER_REVENUE"
	SectionCostOfGoodsSold     SectionTag = "COST_OF_GOODS_SOLD"
	SectionOperatingExpenses   SectionTag = "OPERATING_EXPENSES"
	SectionFinancialExpenses   SectionTag = "FINANCIAL_EXPENSES"
	SectionTaxExpenses         SectionTag = "TAX_EXPENSES"
)

// SectionTitles holds the presentation title of each section.
var SectionTitles = map[SectionTag]string{
	SectionCurrentAssets:       "Current Assets",
	SectionFixedAssets:         "Fixed Assets",
	SectionOtherAssets:         "Other Assets",
	SectionCurrentLiabilities:  "Current Liabilities",
	SectionLongTermLiabilities: "Long-Term Liabilities",
	SectionShareCapital:        "Share Capital",
	SectionRetainedEarnings:    "Retained Earnings",
	SectionOtherEquity:         "Other Equity",
	SectionOperatingRevenue:    "Operating Revenue",
	SectionOtherRevenue:        "Other Revenue",
	SectionCostOfGoodsSold:     "Cost of Goods Sold",
	SectionOperatingExpenses:   "Operating Expenses",
	SectionFinancialExpenses:   "Financial Expenses",
	SectionTaxExpenses:         "Tax Expenses",
}

// SectionOrder lists sections per account type in presentation order.
var SectionOrder = map[AccountType][]SectionTag{
	Asset:     {SectionCurrentAssets, SectionFixedAssets, SectionOtherAssets},
	Liability: {SectionCurrentLiabilities, SectionLongTermLiabilities},
	Equity:    {SectionShareCapital, SectionRetainedEarnings, SectionOtherEquity},
	Revenue:   {SectionOperatingRevenue, SectionOtherRevenue},
	Expense:   {SectionCostOfGoodsSold, SectionOperatingExpenses, SectionFinancialExpenses, SectionTaxExpenses},
}

// CashFlowRole tells the cash flow statement how movements on an account affect cash.
type CashFlowRole string

const (
	FlowNone         CashFlowRole = "NONE"
	FlowCash         CashFlowRole = "CASH"
	FlowReceivable   CashFlowRole = "RECEIVABLE"
	FlowInventory    CashFlowRole = "INVENTORY"
	FlowPrepaid      CashFlowRole = "PREPAID"
	FlowPayable      CashFlowRole = "PAYABLE"
	FlowAccrued      CashFlowRole = "ACCRUED"
	FlowNonCash      CashFlowRole = "NON_CASH" // depreciation, amortization and their contra accounts
	FlowCapitalAsset CashFlowRole = "CAPITAL_ASSET"
	FlowInvestment   CashFlowRole = "INVESTMENT"
	FlowDebt         CashFlowRole = "DEBT"
	FlowEquity       CashFlowRole = "EQUITY"
)

// Classification is what an AccountClassifier assigns to an account.
type Classification struct {
	Section SectionTag
	Flow    CashFlowRole
}

// StatementLine is one presented amount.
type StatementLine struct {
	AccountID    string          `json:"accountID,omitempty"`
	Code         string          `json:"code,omitempty"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	IsAdjustment bool            `json:"isAdjustment,omitempty"` // Presentational or balancing line, not an account
}

// StatementSection groups lines under a title.
type StatementSection struct {
	Tag   SectionTag      `json:"tag"`
	Title string          `json:"title"`
	Lines []StatementLine `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// BalanceSheet is derived on demand from posted lines up to AsOf.
type BalanceSheet struct {
	AsOf             time.Time          `json:"asOf"`
	Assets           []StatementSection `json:"assets"`
	Liabilities      []StatementSection `json:"liabilities"`
	Equity           []StatementSection `json:"equity"`
	TotalAssets      decimal.Decimal    `json:"totalAssets"`
	TotalLiabilities decimal.Decimal    `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal    `json:"totalEquity"`
	Balanced         bool               `json:"balanced"`
	Comparative      *BalanceSheet      `json:"comparative,omitempty"`
}

// IncomeStatement covers [FromDate, ToDate].
type IncomeStatement struct {
	FromDate      time.Time          `json:"fromDate"`
	ToDate        time.Time          `json:"toDate"`
	Revenue       []StatementLine    `json:"revenue"`
	Expenses      []StatementLine    `json:"expenses"`
	RevenueDetail []StatementSection `json:"revenueSections,omitempty"`
	ExpenseDetail []StatementSection `json:"expenseSections,omitempty"`
	TotalRevenue  decimal.Decimal    `json:"totalRevenue"`
	TotalExpenses decimal.Decimal    `json:"totalExpenses"`
	NetIncome     decimal.Decimal    `json:"netIncome"`
	Comparative   *IncomeStatement   `json:"comparative,omitempty"`
}

// CashFlowSection is one activity group of the cash flow statement.
type CashFlowSection struct {
	Title string          `json:"title"`
	Lines []StatementLine `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// CashFlowStatement derives cash movement for [FromDate, ToDate] indirectly from net income.
type CashFlowStatement struct {
	FromDate                 time.Time          `json:"fromDate"`
	ToDate                   time.Time          `json:"toDate"`
	NetIncome                decimal.Decimal    `json:"netIncome"`
	Operating                CashFlowSection    `json:"operating"`
	Investing                CashFlowSection    `json:"investing"`
	Financing                CashFlowSection    `json:"financing"`
	NetChange                decimal.Decimal    `json:"netChange"`
	BeginningCash            decimal.Decimal    `json:"beginningCash"`
	EndingCash               decimal.Decimal    `json:"endingCash"`
	ReconciliationAdjustment *decimal.Decimal   `json:"reconciliationAdjustment,omitempty"`
	Comparative              *CashFlowStatement `json:"comparative,omitempty"`
}

// TrialBalanceRow is one account's debit and credit totals.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"` // Signed by the account type's normal side
}

// TrialBalance lists every account with activity up to AsOf.
type TrialBalance struct {
	AsOf         time.Time         `json:"asOf"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
	Balanced     bool              `json:"balanced"`
}

// StatementPackage bundles the three primary statements for one reporting date.
// The income and cash flow statements cover [PeriodStart, ReportDate].
type StatementPackage struct {
	ReportDate      time.Time          `json:"reportDate"`
	PeriodStart     time.Time          `json:"periodStart"`
	BalanceSheet    *BalanceSheet      `json:"balanceSheet"`
	IncomeStatement *IncomeStatement   `json:"incomeStatement"`
	CashFlow        *CashFlowStatement `json:"cashFlowStatement"`
}
