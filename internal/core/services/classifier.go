package services

import (
	"strings"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// AccountClassifier places accounts in statement sections and cash flow roles.
// Classification is presentational; it never changes balances.
type AccountClassifier interface {
	Classify(account domain.Account) domain.Classification
}

// ClassifierFunc adapts a plain function to AccountClassifier.
type ClassifierFunc func(account domain.Account) domain.Classification

// Classify calls f(account).
func (f ClassifierFunc) Classify(account domain.Account) domain.Classification {
	return f(account)
}

type keywordRule struct {
	keywords []string
	result   domain.Classification
}

// KeywordClassifier classifies by account name keywords, first match wins.
// Asset codes starting with CashCodePrefix are always cash.
type KeywordClassifier struct {
	RetainedEarningsCode string
	CashCodePrefix       string
}

// NewKeywordClassifier returns the default classifier.
func NewKeywordClassifier(retainedEarningsCode string) *KeywordClassifier {
	return &KeywordClassifier{RetainedEarningsCode: retainedEarningsCode, CashCodePrefix: "110"}
}

var (
	assetRules = []keywordRule{
		{[]string{"accumulated depreciation", "accumulated amortization", "accumulated amortisation"}, domain.Classification{Section: domain.SectionFixedAssets, Flow: domain.FlowNonCash}},
		{[]string{"cash", "bank", "petty"}, domain.Classification{Section: domain.SectionCurrentAssets, Flow: domain.FlowCash}},
		{[]string{"receivable"}, domain.Classification{Section: domain.SectionCurrentAssets, Flow: domain.FlowReceivable}},
		{[]string{"inventory", "stock"}, domain.Classification{Section: domain.SectionCurrentAssets, Flow: domain.FlowInventory}},
		{[]string{"prepaid", "prepayment", "advance"}, domain.Classification{Section: domain.SectionCurrentAssets, Flow: domain.FlowPrepaid}},
		{[]string{"investment", "securities"}, domain.Classification{Section: domain.SectionOtherAssets, Flow: domain.FlowInvestment}},
		{[]string{"equipment", "property", "plant", "building", "vehicle", "furniture", "machinery", "land", "software", "intangible", "fixed asset"}, domain.Classification{Section: domain.SectionFixedAssets, Flow: domain.FlowCapitalAsset}},
	}
	liabilityRules = []keywordRule{
		{[]string{"loan", "mortgage", "bond", "notes payable", "debt", "long-term", "long term", "lease liability"}, domain.Classification{Section: domain.SectionLongTermLiabilities, Flow: domain.FlowDebt}},
		{[]string{"accrued", "accrual", "wages", "salaries", "tax", "vat", "unearned", "deferred"}, domain.Classification{Section: domain.SectionCurrentLiabilities, Flow: domain.FlowAccrued}},
		{[]string{"payable", "supplier", "vendor"}, domain.Classification{Section: domain.SectionCurrentLiabilities, Flow: domain.FlowPayable}},
	}
	equityRules = []keywordRule{
		{[]string{"retained", "accumulated profit", "accumulated earnings"}, domain.Classification{Section: domain.SectionRetainedEarnings, Flow: domain.FlowNone}},
		{[]string{"capital", "share", "stock", "owner", "contribution"}, domain.Classification{Section: domain.SectionShareCapital, Flow: domain.FlowEquity}},
		{[]string{"dividend", "drawing", "distribution"}, domain.Classification{Section: domain.SectionOtherEquity, Flow: domain.FlowEquity}},
	}
	revenueRules = []keywordRule{
		{[]string{"interest", "gain", "other", "dividend", "miscellaneous"}, domain.Classification{Section: domain.SectionOtherRevenue}},
	}
	expenseRules = []keywordRule{
		{[]string{"depreciation", "amortization", "amortisation", "impairment"}, domain.Classification{Section: domain.SectionOperatingExpenses, Flow: domain.FlowNonCash}},
		{[]string{"cost of goods", "cost of sales", "cogs", "purchases"}, domain.Classification{Section: domain.SectionCostOfGoodsSold}},
		{[]string{"interest", "bank charge", "bank fee", "finance", "exchange loss"}, domain.Classification{Section: domain.SectionFinancialExpenses}},
		{[]string{"income tax", "zakat", "tax expense"}, domain.Classification{Section: domain.SectionTaxExpenses}},
	}
)

// Classify implements AccountClassifier.
func (k *KeywordClassifier) Classify(account domain.Account) domain.Classification {
	name := strings.ToLower(account.Name)

	switch account.AccountType {
	case domain.Asset:
		if k.CashCodePrefix != "" && strings.HasPrefix(account.Code, k.CashCodePrefix) {
			return domain.Classification{Section: domain.SectionCurrentAssets, Flow: domain.FlowCash}
		}
		return match(name, assetRules, domain.Classification{Section: domain.SectionCurrentAssets, Flow: domain.FlowNone})
	case domain.Liability:
		return match(name, liabilityRules, domain.Classification{Section: domain.SectionCurrentLiabilities, Flow: domain.FlowAccrued})
	case domain.Equity:
		if account.Code != "" && account.Code == k.RetainedEarningsCode {
			return domain.Classification{Section: domain.SectionRetainedEarnings, Flow: domain.FlowNone}
		}
		return match(name, equityRules, domain.Classification{Section: domain.SectionOtherEquity, Flow: domain.FlowEquity})
	case domain.Revenue:
		return withFlow(match(name, revenueRules, domain.Classification{Section: domain.SectionOperatingRevenue}))
	case domain.Expense:
		return withFlow(match(name, expenseRules, domain.Classification{Section: domain.SectionOperatingExpenses}))
	}
	return domain.Classification{Flow: domain.FlowNone}
}

func match(name string, rules []keywordRule, fallback domain.Classification) domain.Classification {
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(name, kw) {
				return r.result
			}
		}
	}
	return fallback
}

func withFlow(c domain.Classification) domain.Classification {
	if c.Flow == "" {
		c.Flow = domain.FlowNone
	}
	return c
}
