package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerRepository aggregates journal lines. Reports read nothing else.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

var balanceVisibleStatuses = []string{string(domain.Posted), string(domain.Reversed)}

// SumByAccount totals debits and credits per account. Accounts without lines in the scan come back as zeros.
func (r *PgxLedgerRepository) SumByAccount(ctx context.Context, scan domain.LedgerScan) ([]domain.AccountTotals, error) {
	excluded := make([]string, len(scan.ExcludeKinds))
	for i, k := range scan.ExcludeKinds {
		excluded[i] = string(k)
	}

	args := []any{balanceVisibleStatuses, domain.DateOnly(scan.To), excluded}
	fromClause := ""
	if scan.From != nil {
		args = append(args, domain.DateOnly(*scan.From))
		fromClause = " AND e.entry_date >= $" + strconv.Itoa(len(args))
	}

	query := `
		WITH visible AS (
			SELECT l.account_id, l.debit_amount, l.credit_amount
			FROM journal_entry_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE e.status = ANY($1) AND e.entry_date <= $2 AND e.kind <> ALL($3)` + fromClause + `
		)
		SELECT a.account_id, a.code, a.name, a.account_type, a.currency_code,
			COALESCE(SUM(v.debit_amount), 0) AS debit,
			COALESCE(SUM(v.credit_amount), 0) AS credit
		FROM accounts a
		LEFT JOIN visible v ON v.account_id = a.account_id
		GROUP BY a.account_id, a.code, a.name, a.account_type, a.currency_code
		ORDER BY a.code;
	`
	rows, _ := r.db(ctx).Query(ctx, query, args...)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AccountTotals])
	if err != nil {
		return nil, mapPgError(err, "ledger totals")
	}
	return mapping.ToDomainAccountTotals(ms), nil
}

// CountDraftEntries counts DRAFT entries dated within [from, to].
func (r *PgxLedgerRepository) CountDraftEntries(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.db(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM journal_entries WHERE status = 'DRAFT' AND entry_date BETWEEN $1 AND $2;`,
		domain.DateOnly(from), domain.DateOnly(to),
	).Scan(&count)
	if err != nil {
		return 0, mapPgError(err, "draft entry count")
	}
	return count, nil
}
