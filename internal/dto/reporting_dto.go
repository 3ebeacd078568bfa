package dto

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of date-only values.
const DateLayout = "2006-01-02"

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	Balanced bool `json:"balanced"`
}

// AgingReportRequest holds optional custom bucket boundaries.
// Each bound is the inclusive upper day count of a bucket; a final open-ended bucket is appended.
type AgingReportRequest struct {
	UpperBounds []int `form:"bucket" binding:"omitempty,dive,min=0"`
}

// ToBuckets builds aging buckets, falling back to the default set.
func (r AgingReportRequest) ToBuckets() []domain.AgingBucket {
	if len(r.UpperBounds) == 0 {
		return domain.DefaultAgingBuckets()
	}
	return BucketsFromBounds(r.UpperBounds)
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf:     tb.AsOf.Format(DateLayout),
		Rows:     make([]TrialBalanceRowResponse, len(tb.Rows)),
		Balanced: tb.Balanced,
	}

	for i, row := range tb.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			Code:        row.Code,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
			Balance:     row.Balance,
		}
	}

	response.Totals.Debit = tb.TotalDebits
	response.Totals.Credit = tb.TotalCredits

	return response
}
