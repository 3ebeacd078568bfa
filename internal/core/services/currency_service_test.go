package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

type CurrencyServiceTestSuite struct {
	suite.Suite
	currencyRepo *MockCurrencyRepository
	rateRepo     *MockExchangeRateRepository
	txManager    *MockTxManager
	currencySvc  portssvc.CurrencySvcFacade
	rateSvc      portssvc.ExchangeRateSvcFacade
	ctx          context.Context
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.currencyRepo = new(MockCurrencyRepository)
	suite.rateRepo = new(MockExchangeRateRepository)
	suite.txManager = new(MockTxManager)
	suite.txManager.On("WithinTransaction", mock.Anything).Return()
	suite.currencySvc = services.NewCurrencyService(suite.currencyRepo, suite.txManager, config.DefaultLedgerConfig())
	suite.rateSvc = services.NewExchangeRateService(suite.rateRepo, suite.currencySvc)
	suite.ctx = context.Background()
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}

func (suite *CurrencyServiceTestSuite) currency(code string, places int32, base bool) *domain.Currency {
	return &domain.Currency{CurrencyCode: code, DecimalPlaces: places, IsBase: base, IsActive: true}
}

func (suite *CurrencyServiceTestSuite) rate(from, to, r string) *domain.ExchangeRate {
	return &domain.ExchangeRate{FromCurrencyCode: from, ToCurrencyCode: to, Rate: decimal.RequireFromString(r), EffectiveDate: day(2025, 1, 1)}
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_DefaultsToTwoPlaces() {
	suite.currencyRepo.On("SaveCurrency", suite.ctx, mock.MatchedBy(func(c domain.Currency) bool {
		return c.CurrencyCode == "SAR" && c.DecimalPlaces == 2 && c.IsActive
	})).Return(nil).Once()

	c, err := suite.currencySvc.CreateCurrency(suite.ctx, dto.CreateCurrencyRequest{CurrencyCode: "sar", Name: "Saudi Riyal", Symbol: "SR"}, "user-1")

	suite.Require().NoError(err)
	suite.Equal("SAR", c.CurrencyCode)
	suite.txManager.AssertCalled(suite.T(), "WithinTransaction", suite.ctx)
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_RejectsPrecision() {
	places := int32(9)

	_, err := suite.currencySvc.CreateCurrency(suite.ctx, dto.CreateCurrencyRequest{CurrencyCode: "XXX", DecimalPlaces: &places}, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CurrencyServiceTestSuite) TestConvert_DirectRate() {
	asOf := day(2025, 1, 1)
	suite.rateRepo.On("FindLatestRate", suite.ctx, "SAR", "USD", asOf).Return(suite.rate("SAR", "USD", "0.27"), nil).Once()
	suite.currencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(suite.currency("USD", 2, true), nil).Once()

	conv, err := suite.rateSvc.Convert(suite.ctx, decimal.NewFromInt(1000), "SAR", "USD", asOf)

	suite.Require().NoError(err)
	suite.Equal("270.00", conv.Converted.StringFixed(2))
	suite.Equal(domain.RateDirect, conv.RateUsed.Source)
}

func (suite *CurrencyServiceTestSuite) TestConvert_InverseRoundTrips() {
	asOf := day(2025, 1, 1)
	suite.rateRepo.On("FindLatestRate", suite.ctx, "USD", "SAR", asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.rateRepo.On("FindLatestRate", suite.ctx, "SAR", "USD", asOf).Return(suite.rate("SAR", "USD", "0.27"), nil).Once()
	suite.currencyRepo.On("FindCurrencyByCode", suite.ctx, "SAR").Return(suite.currency("SAR", 2, false), nil).Once()

	conv, err := suite.rateSvc.Convert(suite.ctx, decimal.NewFromInt(270), "USD", "SAR", asOf)

	suite.Require().NoError(err)
	suite.Equal(domain.RateInverse, conv.RateUsed.Source)
	suite.True(conv.Converted.Equal(decimal.NewFromInt(1000)), "got %s", conv.Converted)
}

func (suite *CurrencyServiceTestSuite) TestConvert_RoundsToTargetPlaces() {
	asOf := day(2025, 3, 1)
	suite.rateRepo.On("FindLatestRate", suite.ctx, "USD", "JPY", asOf).Return(suite.rate("USD", "JPY", "149.355"), nil).Once()
	suite.currencyRepo.On("FindCurrencyByCode", suite.ctx, "JPY").Return(suite.currency("JPY", 0, false), nil).Once()

	conv, err := suite.rateSvc.Convert(suite.ctx, decimal.RequireFromString("10.10"), "USD", "JPY", asOf)

	suite.Require().NoError(err)
	suite.Equal("1508", conv.Converted.String())
}

func (suite *CurrencyServiceTestSuite) TestRate_Identity() {
	r, err := suite.rateSvc.Rate(suite.ctx, "usd", "USD", day(2025, 1, 1))

	suite.Require().NoError(err)
	suite.True(r.Rate.Equal(decimal.NewFromInt(1)))
	suite.Equal(domain.RateIdentity, r.Source)
	suite.rateRepo.AssertNotCalled(suite.T(), "FindLatestRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestRate_TriangulatesThroughBase() {
	asOf := day(2025, 1, 1)
	suite.rateRepo.On("FindLatestRate", suite.ctx, "EUR", "SAR", asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.rateRepo.On("FindLatestRate", suite.ctx, "SAR", "EUR", asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.currencyRepo.On("FindBaseCurrency", suite.ctx).Return(suite.currency("USD", 2, true), nil).Once()
	suite.rateRepo.On("FindLatestRate", suite.ctx, "EUR", "USD", asOf).Return(suite.rate("EUR", "USD", "1.10"), nil).Once()
	suite.rateRepo.On("FindLatestRate", suite.ctx, "USD", "SAR", asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.rateRepo.On("FindLatestRate", suite.ctx, "SAR", "USD", asOf).Return(suite.rate("SAR", "USD", "0.27"), nil).Once()

	r, err := suite.rateSvc.Rate(suite.ctx, "EUR", "SAR", asOf)

	suite.Require().NoError(err)
	suite.Equal(domain.RateTriangulated, r.Source)
	suite.Equal("4.0741", r.Rate.StringFixed(4))
}

func (suite *CurrencyServiceTestSuite) TestRate_NoTriangulationFromBase() {
	asOf := day(2025, 1, 1)
	suite.rateRepo.On("FindLatestRate", suite.ctx, "USD", "AED", asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.rateRepo.On("FindLatestRate", suite.ctx, "AED", "USD", asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.currencyRepo.On("FindBaseCurrency", suite.ctx).Return(suite.currency("USD", 2, true), nil).Once()

	_, err := suite.rateSvc.Rate(suite.ctx, "USD", "AED", asOf)

	suite.ErrorIs(err, apperrors.ErrNoRateAvailable)
}

func (suite *CurrencyServiceTestSuite) TestRate_MissingLeg() {
	asOf := day(2025, 1, 1)
	suite.rateRepo.On("FindLatestRate", suite.ctx, mock.Anything, mock.Anything, asOf).Return(nil, apperrors.ErrNotFound)
	suite.currencyRepo.On("FindBaseCurrency", suite.ctx).Return(suite.currency("USD", 2, true), nil).Once()

	_, err := suite.rateSvc.Rate(suite.ctx, "EUR", "GBP", asOf)

	suite.ErrorIs(err, apperrors.ErrNoRateAvailable)
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_PlacesAboveMax() {
	places := domain.MaxCurrencyPlaces + 1

	_, err := suite.currencySvc.CreateCurrency(suite.ctx, dto.CreateCurrencyRequest{CurrencyCode: "XAU", Name: "Gold", DecimalPlaces: &places}, "user-1")

	suite.True(apperrors.HasRule(err, apperrors.RuleInvalidInput))
	suite.currencyRepo.AssertNotCalled(suite.T(), "SaveCurrency", mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestCreateExchangeRate_RoundsToStoredScale() {
	suite.currencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(suite.currency("USD", 2, true), nil).Once()
	suite.currencyRepo.On("FindCurrencyByCode", suite.ctx, "SAR").Return(suite.currency("SAR", 2, false), nil).Once()
	suite.rateRepo.On("SaveExchangeRate", suite.ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.Rate.Equal(decimal.RequireFromString("3.750001"))
	})).Return(nil).Once()

	rate, err := suite.rateSvc.CreateExchangeRate(suite.ctx, dto.CreateExchangeRateRequest{
		FromCurrencyCode: "usd", ToCurrencyCode: "sar", Rate: decimal.RequireFromString("3.7500005"), EffectiveDate: day(2025, 1, 1),
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal("USD", rate.FromCurrencyCode)
	suite.LessOrEqual(-rate.Rate.Exponent(), domain.RatePlaces)
	suite.rateRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateExchangeRate_SameCurrency() {
	_, err := suite.rateSvc.CreateExchangeRate(suite.ctx, dto.CreateExchangeRateRequest{
		FromCurrencyCode: "USD", ToCurrencyCode: "usd", Rate: decimal.NewFromInt(1), EffectiveDate: day(2025, 1, 1),
	}, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
}
