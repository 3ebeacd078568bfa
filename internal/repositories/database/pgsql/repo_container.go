package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(dbPool),
		CurrencyRepo:     newPgxCurrencyRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		JournalRepo:      newPgxJournalRepository(dbPool),
		FiscalRepo:       newPgxFiscalRepository(dbPool),
		LedgerRepo:       newPgxLedgerRepository(dbPool),
		OpenItemRepo:     newPgxOpenItemRepository(dbPool),
		// Every repository reads the transaction from the context, so any BaseRepository can manage it.
		TxManager: &BaseRepository{Pool: dbPool},
	}
}
