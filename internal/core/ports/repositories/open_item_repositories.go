package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// OpenItemReader reads invoices owned by the AP/AR collaborators.
type OpenItemReader interface {
	// ListOpenItems returns ageable items of the given kind issued on or before asOf
	// that still carry an outstanding amount.
	ListOpenItems(ctx context.Context, kind domain.OpenItemKind, asOf time.Time) ([]domain.OpenItem, error)
}
