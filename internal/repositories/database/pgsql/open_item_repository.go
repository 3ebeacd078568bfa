package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxOpenItemRepository reads the invoices table shared with the AP/AR modules.
type PgxOpenItemRepository struct {
	BaseRepository
}

func newPgxOpenItemRepository(pool *pgxpool.Pool) *PgxOpenItemRepository {
	return &PgxOpenItemRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OpenItemReader = (*PgxOpenItemRepository)(nil)

var ageableStatuses = []string{
	string(domain.ItemApproved),
	string(domain.ItemPartiallyPaid),
	string(domain.ItemOverdue),
}

func (r *PgxOpenItemRepository) ListOpenItems(ctx context.Context, kind domain.OpenItemKind, asOf time.Time) ([]domain.OpenItem, error) {
	query := `
		SELECT invoice_id, kind, counterparty_id, counterparty_name, document_number,
			issue_date, due_date, total_amount, paid_amount, status
		FROM invoices
		WHERE kind = $1 AND status = ANY($2) AND issue_date <= $3 AND total_amount - paid_amount > 0
		ORDER BY counterparty_name, due_date;
	`
	rows, _ := r.db(ctx).Query(ctx, query, string(kind), ageableStatuses, domain.DateOnly(asOf))
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.OpenItem])
	if err != nil {
		return nil, mapPgError(err, "open items")
	}

	items := make([]domain.OpenItem, len(ms))
	for i, m := range ms {
		items[i] = mapping.ToDomainOpenItem(m)
	}
	return items, nil
}
