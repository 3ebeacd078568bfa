package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
	txManager    portsrepo.TransactionManager
	cfg          config.LedgerConfig
}

// NewCurrencyService creates the currency registry service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade, txManager portsrepo.TransactionManager, cfg config.LedgerConfig) portssvc.CurrencySvcFacade {
	return &currencyService{
		BaseService:  newBaseService(),
		currencyRepo: currencyRepo,
		txManager:    txManager,
		cfg:          cfg,
	}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	places := domain.MoneyPlaces
	if req.DecimalPlaces != nil {
		places = *req.DecimalPlaces
	}
	if places < 0 || places > domain.MaxCurrencyPlaces {
		return nil, apperrors.NewRuleViolation(apperrors.RuleInvalidInput, "decimal places must be between 0 and %d", domain.MaxCurrencyPlaces)
	}

	currency := domain.Currency{
		CurrencyCode:  strings.ToUpper(req.CurrencyCode),
		Symbol:        req.Symbol,
		Name:          req.Name,
		DecimalPlaces: places,
		IsBase:        req.IsBase,
		IsActive:      true,
		AuditFields:   domain.NewAuditFields(creatorUserID, s.now()),
	}

	// Replacing the base currency must not leave a window with zero or two bases.
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		return s.currencyRepo.SaveCurrency(txCtx, currency)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("currency %s: %w", currency.CurrencyCode, err)
		}
		s.LogError(ctx, err, "Failed to create currency", slog.String("currency_code", currency.CurrencyCode))
		return nil, fmt.Errorf("failed to create currency: %w", err)
	}

	s.LogInfo(ctx, "Currency created", slog.String("currency_code", currency.CurrencyCode), slog.Bool("is_base", currency.IsBase))
	return &currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, strings.ToUpper(currencyCode))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get currency %s: %w", currencyCode, err)
	}
	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

// BaseCurrency prefers the configured code over the store's base flag.
func (s *currencyService) BaseCurrency(ctx context.Context) (*domain.Currency, error) {
	if s.cfg.BaseCurrency != "" {
		return s.GetCurrencyByCode(ctx, s.cfg.BaseCurrency)
	}
	currency, err := s.currencyRepo.FindBaseCurrency(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("no base currency configured")
		}
		return nil, fmt.Errorf("failed to find base currency: %w", err)
	}
	return currency, nil
}
