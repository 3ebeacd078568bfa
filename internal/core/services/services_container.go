package services

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg config.LedgerConfig, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, repos.CurrencyRepo)
	container.Currency = NewCurrencyService(repos.CurrencyRepo, repos.TxManager, cfg)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.FiscalRepo, repos.TxManager)
	container.Fiscal = NewFiscalService(repos.FiscalRepo, repos.JournalRepo, repos.AccountRepo, repos.LedgerRepo, repos.TxManager, cfg)

	// Statements depend only on the ledger scan, postings on the journal engine.
	container.Statement = NewStatementService(repos.LedgerRepo, repos.OpenItemRepo, NewKeywordClassifier(cfg.RetainedEarningsCode), cfg)
	container.Posting = NewPostingService(container.Journal, container.Statement, repos.AccountRepo, cfg)

	return container
}
