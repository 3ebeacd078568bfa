package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountTypes lists every valid account type in statement order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether the account type carries a debit balance.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// IsBalanceSheet reports whether balances of this type carry over year end.
func (t AccountType) IsBalanceSheet() bool {
	return t == Asset || t == Liability || t == Equity
}

// Account represents a ledger account in the chart of accounts.
type Account struct {
	AccountID       string      `json:"accountID"`
	Code            string      `json:"code"` // Globally unique
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	CurrencyCode    string      `json:"currencyCode"`
	ParentAccountID *string     `json:"parentAccountID,omitempty"` // nil for roots
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"`
	AuditFields
}

// IsRoot reports whether the account has no parent.
func (a Account) IsRoot() bool {
	return a.ParentAccountID == nil || *a.ParentAccountID == ""
}

// AccountNode is an account with its children, used to present the chart as a forest.
type AccountNode struct {
	Account
	Children []*AccountNode `json:"children,omitempty"`
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	AccountType *AccountType
	ActiveOnly  bool
}
