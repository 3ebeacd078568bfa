package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type exchangeRateService struct {
	BaseService
	rateRepo    portsrepo.ExchangeRateRepositoryFacade
	currencySvc portssvc.CurrencySvcFacade
}

// NewExchangeRateService creates the rate resolver.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencySvc portssvc.CurrencySvcFacade) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		BaseService: newBaseService(),
		rateRepo:    rateRepo,
		currencySvc: currencySvc,
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// CreateExchangeRate handles the creation of a new exchange rate.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	from, to := strings.ToUpper(req.FromCurrencyCode), strings.ToUpper(req.ToCurrencyCode)

	if !req.Rate.IsPositive() {
		return nil, apperrors.NewRuleViolation(apperrors.RuleInvalidInput, "exchange rate must be positive")
	}
	if from == to {
		return nil, apperrors.NewRuleViolation(apperrors.RuleInvalidInput, "from and to currency codes cannot be the same")
	}
	for _, code := range []string{from, to} {
		if _, err := s.currencySvc.GetCurrencyByCode(ctx, code); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewRuleViolation(apperrors.RuleInvalidInput, "currency %s not found", code)
			}
			return nil, fmt.Errorf("failed to validate currency %s: %w", code, err)
		}
	}

	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             req.Rate.Round(domain.RatePlaces),
		EffectiveDate:    domain.DateOnly(req.EffectiveDate),
		AuditFields:      domain.NewAuditFields(creatorUserID, s.now()),
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("rate %s/%s on %s: %w", from, to, rate.EffectiveDate.Format("2006-01-02"), err)
		}
		s.LogError(ctx, err, "Failed to save exchange rate", slog.String("from", from), slog.String("to", to))
		return nil, fmt.Errorf("failed to create exchange rate: %w", err)
	}
	return &rate, nil
}

func (s *exchangeRateService) ListExchangeRates(ctx context.Context, fromCode, toCode string) ([]domain.ExchangeRate, error) {
	rates, err := s.rateRepo.ListExchangeRates(ctx, strings.ToUpper(fromCode), strings.ToUpper(toCode))
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	return rates, nil
}

// Rate resolves the rate from one currency to another at asOf.
// Resolution order: identity, latest direct rate, reciprocal of the latest reverse rate,
// and finally one-level triangulation through the base currency.
func (s *exchangeRateService) Rate(ctx context.Context, fromCode, toCode string, asOf time.Time) (*domain.ResolvedRate, error) {
	from, to := strings.ToUpper(fromCode), strings.ToUpper(toCode)
	asOf = domain.DateOnly(asOf)

	resolved := &domain.ResolvedRate{From: from, To: to, AsOf: asOf}
	if from == to {
		resolved.Rate, resolved.Source = decimal.NewFromInt(1), domain.RateIdentity
		return resolved, nil
	}

	rate, source, err := s.directOrInverse(ctx, from, to, asOf)
	if err == nil {
		resolved.Rate, resolved.Source = rate, source
		return resolved, nil
	}
	if !errors.Is(err, apperrors.ErrNoRateAvailable) {
		return nil, err
	}

	base, err := s.currencySvc.BaseCurrency(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, s.noRate(from, to, asOf)
		}
		return nil, err
	}
	if from == base.CurrencyCode || to == base.CurrencyCode {
		return nil, s.noRate(from, to, asOf)
	}

	toBase, _, err := s.directOrInverse(ctx, from, base.CurrencyCode, asOf)
	if err != nil {
		return nil, err
	}
	fromBase, _, err := s.directOrInverse(ctx, base.CurrencyCode, to, asOf)
	if err != nil {
		return nil, err
	}

	resolved.Rate, resolved.Source = toBase.Mul(fromBase), domain.RateTriangulated
	s.LogDebug(ctx, "Triangulated exchange rate", slog.String("from", from), slog.String("to", to), slog.String("via", base.CurrencyCode))
	return resolved, nil
}

func (s *exchangeRateService) directOrInverse(ctx context.Context, from, to string, asOf time.Time) (decimal.Decimal, domain.RateSource, error) {
	direct, err := s.rateRepo.FindLatestRate(ctx, from, to, asOf)
	if err == nil {
		return direct.Rate, domain.RateDirect, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, "", fmt.Errorf("failed to look up rate %s/%s: %w", from, to, err)
	}

	inverse, err := s.rateRepo.FindLatestRate(ctx, to, from, asOf)
	if err == nil {
		if !inverse.Rate.IsPositive() {
			return decimal.Zero, "", s.noRate(from, to, asOf)
		}
		return decimal.NewFromInt(1).DivRound(inverse.Rate, domain.DivisionPrecision), domain.RateInverse, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, "", fmt.Errorf("failed to look up rate %s/%s: %w", to, from, err)
	}
	return decimal.Zero, "", s.noRate(from, to, asOf)
}

func (s *exchangeRateService) noRate(from, to string, asOf time.Time) error {
	return fmt.Errorf("%w: %s to %s as of %s", apperrors.ErrNoRateAvailable, from, to, asOf.Format("2006-01-02"))
}

// Convert converts amount at the rate effective on date, rounding half away from zero
// to the target currency's decimal places.
func (s *exchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, date time.Time) (*domain.Conversion, error) {
	rate, err := s.Rate(ctx, fromCode, toCode, date)
	if err != nil {
		return nil, err
	}

	target, err := s.currencySvc.GetCurrencyByCode(ctx, rate.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load target currency %s: %w", rate.To, err)
	}

	return &domain.Conversion{
		Amount:    amount,
		Converted: domain.RoundTo(amount.Mul(rate.Rate), target.DecimalPlaces),
		RateUsed:  *rate,
	}, nil
}
