package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// FiscalPeriodReader defines read operations for fiscal period data
type FiscalPeriodReader interface {
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// FindPeriodsContaining returns every period whose [start, end] contains date.
	FindPeriodsContaining(ctx context.Context, date time.Time) ([]domain.FiscalPeriod, error)

	// FindOverlappingPeriods returns periods intersecting [start, end], bounds inclusive.
	FindOverlappingPeriods(ctx context.Context, start, end time.Time) ([]domain.FiscalPeriod, error)

	// FindPreviousPeriod returns the latest period ending before start, or apperrors.ErrNotFound.
	FindPreviousPeriod(ctx context.Context, start time.Time) (*domain.FiscalPeriod, error)

	// ListPeriods lists periods by start date, optionally restricted to one fiscal year.
	ListPeriods(ctx context.Context, fiscalYear *int) ([]domain.FiscalPeriod, error)

	// FindBalancesByPeriod returns the AccountBalance snapshot rows of a period keyed by account.
	FindBalancesByPeriod(ctx context.Context, periodID string) (map[string]domain.AccountBalance, error)
}

// FiscalPeriodWriter defines write operations for fiscal period data
type FiscalPeriodWriter interface {
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error

	// LockPeriodForUpdate reads a period and holds an exclusive row lock until the transaction ends.
	LockPeriodForUpdate(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// LockPeriodForShare reads the period containing date with a shared lock, so a concurrent close waits.
	LockPeriodForShare(ctx context.Context, date time.Time) ([]domain.FiscalPeriod, error)

	MarkPeriodClosed(ctx context.Context, periodID string, closedAt time.Time, userID string) error

	// UpsertAccountBalances writes snapshot rows, replacing rows for the same (account, period).
	UpsertAccountBalances(ctx context.Context, balances []domain.AccountBalance) error
}

// FiscalRepositoryFacade combines all fiscal-period repository interfaces
type FiscalRepositoryFacade interface {
	FiscalPeriodReader
	FiscalPeriodWriter
}
