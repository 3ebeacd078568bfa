package pgsql

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const currencyColumns = `currency_code, symbol, name, decimal_places, is_base, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxCurrencyRepository struct {
	BaseRepository
}

func newPgxCurrencyRepository(pool *pgxpool.Pool) *PgxCurrencyRepository {
	return &PgxCurrencyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

// SaveCurrency inserts a currency. A new base currency demotes the previous one in the same transaction.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	m := mapping.ToModelCurrency(currency)

	return r.WithinTransaction(ctx, func(txCtx context.Context) error {
		q := r.db(txCtx)
		if m.IsBase {
			if _, err := q.Exec(txCtx, `UPDATE currencies SET is_base = FALSE, last_updated_at = $1, last_updated_by = $2 WHERE is_base;`,
				m.LastUpdatedAt, m.LastUpdatedBy); err != nil {
				return mapPgError(err, "base currency")
			}
		}

		query := `
			INSERT INTO currencies (` + currencyColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`
		_, err := q.Exec(txCtx, query,
			m.CurrencyCode, m.Symbol, m.Name, m.DecimalPlaces, m.IsBase, m.IsActive,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		return mapPgError(err, "currency "+m.CurrencyCode)
	})
}

// FindCurrencyByCode retrieves a currency by its ISO code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	rows, _ := r.db(ctx).Query(ctx, `SELECT `+currencyColumns+` FROM currencies WHERE currency_code = $1;`, currencyCode)
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Currency])
	if err != nil {
		return nil, mapPgError(err, "currency "+currencyCode)
	}
	c := mapping.ToDomainCurrency(m)
	return &c, nil
}

// FindBaseCurrency returns the currency flagged as base.
func (r *PgxCurrencyRepository) FindBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	rows, _ := r.db(ctx).Query(ctx, `SELECT `+currencyColumns+` FROM currencies WHERE is_base;`)
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Currency])
	if err != nil {
		return nil, mapPgError(err, "base currency")
	}
	c := mapping.ToDomainCurrency(m)
	return &c, nil
}

// ListCurrencies lists all currencies ordered by code.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	rows, _ := r.db(ctx).Query(ctx, `SELECT `+currencyColumns+` FROM currencies ORDER BY currency_code;`)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Currency])
	if err != nil {
		return nil, mapPgError(err, "currency list")
	}
	return mapping.ToDomainCurrencySlice(ms), nil
}
