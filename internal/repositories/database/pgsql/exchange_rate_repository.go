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

const exchangeRateColumns = `exchange_rate_id, from_currency_code, to_currency_code, rate, effective_date,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// SaveExchangeRate inserts a rate. (from, to, effective_date) is unique.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)

	query := `
		INSERT INTO exchange_rates (` + exchangeRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.ExchangeRateID, m.FromCurrencyCode, m.ToCurrencyCode, m.Rate, m.EffectiveDate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapPgError(err, fmt.Sprintf("exchange rate %s->%s on %s", m.FromCurrencyCode, m.ToCurrencyCode, m.EffectiveDate.Format(time.DateOnly)))
}

// FindLatestRate returns the newest rate for the pair effective on or before asOf.
func (r *PgxExchangeRateRepository) FindLatestRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND effective_date <= $3
		ORDER BY effective_date DESC
		LIMIT 1;
	`
	rows, _ := r.db(ctx).Query(ctx, query, fromCurrencyCode, toCurrencyCode, asOf)
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.ExchangeRate])
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("exchange rate %s->%s", fromCurrencyCode, toCurrencyCode))
	}
	rate := mapping.ToDomainExchangeRate(m)
	return &rate, nil
}

// ListExchangeRates lists rates newest first. Empty codes list every pair.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, fromCurrencyCode, toCurrencyCode string) ([]domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE ($1::text = '' OR from_currency_code = $1) AND ($2::text = '' OR to_currency_code = $2)
		ORDER BY effective_date DESC, from_currency_code, to_currency_code;
	`
	rows, _ := r.db(ctx).Query(ctx, query, fromCurrencyCode, toCurrencyCode)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ExchangeRate])
	if err != nil {
		return nil, mapPgError(err, "exchange rate list")
	}
	return mapping.ToDomainExchangeRateSlice(ms), nil
}
