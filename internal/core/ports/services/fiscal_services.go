package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// FiscalReaderSvc defines read operations for fiscal periods
type FiscalReaderSvc interface {
	GetPeriod(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// CurrentPeriod returns the period containing date.
	CurrentPeriod(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error)

	ListPeriods(ctx context.Context, fiscalYear *int) ([]domain.FiscalPeriod, error)

	// PeriodBalances returns the snapshot rows written when the period closed or was carried into.
	PeriodBalances(ctx context.Context, periodID string) ([]domain.AccountBalance, error)
}

// FiscalWriterSvc defines state changes of fiscal periods
type FiscalWriterSvc interface {
	// CreatePeriod opens a new period; periods never overlap.
	CreatePeriod(ctx context.Context, req dto.CreateFiscalPeriodRequest, userID string) (*domain.FiscalPeriod, error)

	// CreateFiscalYear opens twelve monthly periods for a calendar year.
	CreateFiscalYear(ctx context.Context, year int, userID string) ([]domain.FiscalPeriod, error)

	// ClosePeriod snapshots account balances and locks the period against posting.
	ClosePeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error)

	// CloseFiscalYear posts the closing entry for a year whose periods are all closed
	// and carries balances into the next year's first period.
	CloseFiscalYear(ctx context.Context, year int, userID string) (*domain.YearCloseResult, error)
}

// FiscalSvcFacade combines all fiscal period service interfaces
type FiscalSvcFacade interface {
	FiscalReaderSvc
	FiscalWriterSvc
}
