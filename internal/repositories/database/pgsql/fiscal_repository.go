package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const periodColumns = `period_id, name, fiscal_year, start_date, end_date, is_closed, closed_at, closed_by,
	created_at, created_by, last_updated_at, last_updated_by`

const balanceColumns = `account_id, period_id, currency_code, opening_balance, current_balance, closing_balance, updated_at`

type PgxFiscalRepository struct {
	BaseRepository
}

func newPgxFiscalRepository(pool *pgxpool.Pool) *PgxFiscalRepository {
	return &PgxFiscalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalRepositoryFacade = (*PgxFiscalRepository)(nil)

func (r *PgxFiscalRepository) queryPeriods(ctx context.Context, what string, query string, args ...any) ([]domain.FiscalPeriod, error) {
	rows, _ := r.db(ctx).Query(ctx, query, args...)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.FiscalPeriod])
	if err != nil {
		return nil, mapPgError(err, what)
	}
	return mapping.ToDomainFiscalPeriodSlice(ms), nil
}

func (r *PgxFiscalRepository) queryPeriod(ctx context.Context, what string, query string, args ...any) (*domain.FiscalPeriod, error) {
	rows, _ := r.db(ctx).Query(ctx, query, args...)
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.FiscalPeriod])
	if err != nil {
		return nil, mapPgError(err, what)
	}
	p := mapping.ToDomainFiscalPeriod(m)
	return &p, nil
}

// SavePeriod inserts a fiscal period. Overlap checks happen in the service under a transaction.
func (r *PgxFiscalRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelFiscalPeriod(period)
	query := `
		INSERT INTO fiscal_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.PeriodID, m.Name, m.FiscalYear, m.StartDate, m.EndDate, m.IsClosed, m.ClosedAt, m.ClosedBy,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapPgError(err, "fiscal period "+m.Name)
}

func (r *PgxFiscalRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	return r.queryPeriod(ctx, "fiscal period "+periodID,
		`SELECT `+periodColumns+` FROM fiscal_periods WHERE period_id = $1;`, periodID)
}

func (r *PgxFiscalRepository) FindPeriodsContaining(ctx context.Context, date time.Time) ([]domain.FiscalPeriod, error) {
	return r.queryPeriods(ctx, "fiscal periods containing date",
		`SELECT `+periodColumns+` FROM fiscal_periods WHERE start_date <= $1 AND end_date >= $1 ORDER BY start_date;`,
		domain.DateOnly(date))
}

func (r *PgxFiscalRepository) FindOverlappingPeriods(ctx context.Context, start, end time.Time) ([]domain.FiscalPeriod, error) {
	return r.queryPeriods(ctx, "overlapping fiscal periods",
		`SELECT `+periodColumns+` FROM fiscal_periods WHERE start_date <= $2 AND end_date >= $1 ORDER BY start_date;`,
		domain.DateOnly(start), domain.DateOnly(end))
}

func (r *PgxFiscalRepository) FindPreviousPeriod(ctx context.Context, start time.Time) (*domain.FiscalPeriod, error) {
	return r.queryPeriod(ctx, "previous fiscal period",
		`SELECT `+periodColumns+` FROM fiscal_periods WHERE end_date < $1 ORDER BY end_date DESC LIMIT 1;`,
		domain.DateOnly(start))
}

// ListPeriods lists periods by start date, optionally for one fiscal year.
func (r *PgxFiscalRepository) ListPeriods(ctx context.Context, fiscalYear *int) ([]domain.FiscalPeriod, error) {
	if fiscalYear != nil {
		return r.queryPeriods(ctx, "fiscal period list",
			`SELECT `+periodColumns+` FROM fiscal_periods WHERE fiscal_year = $1 ORDER BY start_date;`, *fiscalYear)
	}
	return r.queryPeriods(ctx, "fiscal period list",
		`SELECT `+periodColumns+` FROM fiscal_periods ORDER BY start_date;`)
}

// LockPeriodForUpdate takes an exclusive row lock so concurrent postings into the period wait for the close.
func (r *PgxFiscalRepository) LockPeriodForUpdate(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	return r.queryPeriod(ctx, "fiscal period "+periodID,
		`SELECT `+periodColumns+` FROM fiscal_periods WHERE period_id = $1 FOR UPDATE;`, periodID)
}

// LockPeriodForShare takes shared locks on the periods containing date.
func (r *PgxFiscalRepository) LockPeriodForShare(ctx context.Context, date time.Time) ([]domain.FiscalPeriod, error) {
	return r.queryPeriods(ctx, "fiscal periods containing date",
		`SELECT `+periodColumns+` FROM fiscal_periods WHERE start_date <= $1 AND end_date >= $1 ORDER BY start_date FOR SHARE;`,
		domain.DateOnly(date))
}

func (r *PgxFiscalRepository) MarkPeriodClosed(ctx context.Context, periodID string, closedAt time.Time, userID string) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE fiscal_periods
		SET is_closed = TRUE, closed_at = $2, closed_by = $3, last_updated_at = $2, last_updated_by = $3
		WHERE period_id = $1 AND NOT is_closed;
	`, periodID, closedAt, userID)
	if err != nil {
		return mapPgError(err, "fiscal period "+periodID)
	}
	return expectOne(tag, "open fiscal period "+periodID)
}

// FindBalancesByPeriod returns a period's snapshot keyed by account.
func (r *PgxFiscalRepository) FindBalancesByPeriod(ctx context.Context, periodID string) (map[string]domain.AccountBalance, error) {
	rows, _ := r.db(ctx).Query(ctx, `SELECT `+balanceColumns+` FROM account_balances WHERE period_id = $1;`, periodID)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AccountBalance])
	if err != nil {
		return nil, mapPgError(err, "account balances of period "+periodID)
	}
	result := make(map[string]domain.AccountBalance, len(ms))
	for _, m := range ms {
		result[m.AccountID] = mapping.ToDomainAccountBalance(m)
	}
	return result, nil
}

// UpsertAccountBalances writes snapshot rows in one batch.
func (r *PgxFiscalRepository) UpsertAccountBalances(ctx context.Context, balances []domain.AccountBalance) error {
	if len(balances) == 0 {
		return nil
	}

	query := `
		INSERT INTO account_balances (` + balanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (account_id, period_id) DO UPDATE
		SET currency_code = EXCLUDED.currency_code,
			opening_balance = EXCLUDED.opening_balance,
			current_balance = EXCLUDED.current_balance,
			closing_balance = EXCLUDED.closing_balance,
			updated_at = EXCLUDED.updated_at;
	`
	batch := &pgx.Batch{}
	for _, b := range balances {
		m := mapping.ToModelAccountBalance(b)
		batch.Queue(query, m.AccountID, m.PeriodID, m.CurrencyCode, m.OpeningBalance, m.CurrentBalance, m.ClosingBalance, m.UpdatedAt)
	}
	if err := r.db(ctx).SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err, fmt.Sprintf("%d account balance rows", len(balances)))
	}
	return nil
}
