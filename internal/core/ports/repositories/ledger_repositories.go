package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// LedgerReader aggregates journal lines for balance computation and statements.
// Only balance-visible entries (POSTED, REVERSED) are ever summed; drafts are invisible.
type LedgerReader interface {
	// SumByAccount returns debit and credit totals per account for the scan.
	// Every account appears, with zero totals when it has no activity.
	SumByAccount(ctx context.Context, scan domain.LedgerScan) ([]domain.AccountTotals, error)

	// CountDraftEntries counts DRAFT entries dated within [from, to].
	CountDraftEntries(ctx context.Context, from, to time.Time) (int, error)
}
