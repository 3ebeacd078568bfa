package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/handlers"
	"github.com/SscSPs/ledger_engine/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockStatementService struct {
	mock.Mock
}

func (m *MockStatementService) BalanceSheet(ctx context.Context, asOf time.Time, comparative bool) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, asOf, comparative)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}

func (m *MockStatementService) IncomeStatement(ctx context.Context, from, to time.Time, comparative, details bool) (*domain.IncomeStatement, error) {
	args := m.Called(ctx, from, to, comparative, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatement), args.Error(1)
}

func (m *MockStatementService) CashFlowStatement(ctx context.Context, from, to time.Time, comparative bool) (*domain.CashFlowStatement, error) {
	args := m.Called(ctx, from, to, comparative)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashFlowStatement), args.Error(1)
}

func (m *MockStatementService) Package(ctx context.Context, asOf, from time.Time, comparative bool) (*domain.StatementPackage, error) {
	args := m.Called(ctx, asOf, from, comparative)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatementPackage), args.Error(1)
}

func (m *MockStatementService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *MockStatementService) AgingReport(ctx context.Context, asOf time.Time, kind domain.OpenItemKind, buckets []domain.AgingBucket) (*domain.AgingReport, error) {
	args := m.Called(ctx, asOf, kind, buckets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgingReport), args.Error(1)
}

var _ portssvc.StatementService = (*MockStatementService)(nil)

type MockFiscalService struct {
	mock.Mock
}

func (m *MockFiscalService) periodResult(args mock.Arguments) (*domain.FiscalPeriod, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalService) GetPeriod(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	return m.periodResult(m.Called(ctx, periodID))
}

func (m *MockFiscalService) CurrentPeriod(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	return m.periodResult(m.Called(ctx, date))
}

func (m *MockFiscalService) ListPeriods(ctx context.Context, fiscalYear *int) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, fiscalYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalService) PeriodBalances(ctx context.Context, periodID string) ([]domain.AccountBalance, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountBalance), args.Error(1)
}

func (m *MockFiscalService) CreatePeriod(ctx context.Context, req dto.CreateFiscalPeriodRequest, userID string) (*domain.FiscalPeriod, error) {
	return m.periodResult(m.Called(ctx, req, userID))
}

func (m *MockFiscalService) CreateFiscalYear(ctx context.Context, year int, userID string) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, year, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalService) ClosePeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error) {
	return m.periodResult(m.Called(ctx, periodID, userID))
}

func (m *MockFiscalService) CloseFiscalYear(ctx context.Context, year int, userID string) (*domain.YearCloseResult, error) {
	args := m.Called(ctx, year, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.YearCloseResult), args.Error(1)
}

var _ portssvc.FiscalSvcFacade = (*MockFiscalService)(nil)

type ReportingHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockStatement *MockStatementService
	mockFiscal    *MockFiscalService
	reader        string
}

func (suite *ReportingHandlerTestSuite) SetupTest() {
	suite.mockStatement = new(MockStatementService)
	suite.mockFiscal = new(MockFiscalService)
	suite.reader = testToken("auditor", utils.CapabilityRead)
	suite.router = newTestRouter(func(rg *gin.RouterGroup) {
		handlers.RegisterReportingRoutes(rg, suite.mockStatement)
		handlers.RegisterFiscalRoutes(rg, suite.mockFiscal)
	})
}

func (suite *ReportingHandlerTestSuite) TestBalanceSheet_ParsesAsOfAndComparative() {
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	sheet := &domain.BalanceSheet{AsOf: asOf, TotalAssets: decimal.NewFromInt(500), Balanced: true}
	suite.mockStatement.On("BalanceSheet", mock.Anything, asOf, true).Return(sheet, nil).Once()

	w := doRequest(suite.router, http.MethodGet, "/api/v1/reports/balance-sheet?asOf=2025-06-30&comparative=true", "", suite.reader)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.BalanceSheet
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balanced)
	suite.True(resp.TotalAssets.Equal(decimal.NewFromInt(500)))
}

func (suite *ReportingHandlerTestSuite) TestBalanceSheet_BadDate() {
	w := doRequest(suite.router, http.MethodGet, "/api/v1/reports/balance-sheet?asOf=30-06-2025", "", suite.reader)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockStatement.AssertNotCalled(suite.T(), "BalanceSheet", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingHandlerTestSuite) TestIncomeStatement_DefaultsFromToJanuaryFirst() {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	suite.mockStatement.On("IncomeStatement", mock.Anything, from, to, false, true).
		Return(&domain.IncomeStatement{FromDate: from, ToDate: to}, nil).Once()

	w := doRequest(suite.router, http.MethodGet, "/api/v1/reports/income-statement?toDate=2025-04-30&details=true", "", suite.reader)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockStatement.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestPackage_DefaultsToComparativeYearToDate() {
	asOf := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	pkg := &domain.StatementPackage{
		ReportDate:      asOf,
		PeriodStart:     from,
		BalanceSheet:    &domain.BalanceSheet{AsOf: asOf, Balanced: true},
		IncomeStatement: &domain.IncomeStatement{FromDate: from, ToDate: asOf, NetIncome: decimal.NewFromInt(2500)},
		CashFlow:        &domain.CashFlowStatement{FromDate: from, ToDate: asOf},
	}
	suite.mockStatement.On("Package", mock.Anything, asOf, from, true).Return(pkg, nil).Once()

	w := doRequest(suite.router, http.MethodGet, "/api/v1/reports/package?asOf=2025-09-30", "", suite.reader)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.StatementPackage
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(from, resp.PeriodStart)
	suite.True(resp.BalanceSheet.Balanced)
	suite.True(resp.IncomeStatement.NetIncome.Equal(decimal.NewFromInt(2500)))
	suite.NotNil(resp.CashFlow)
}

func (suite *ReportingHandlerTestSuite) TestPackage_ComparativeOff() {
	asOf := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	suite.mockStatement.On("Package", mock.Anything, asOf, from, false).
		Return(&domain.StatementPackage{ReportDate: asOf, PeriodStart: from}, nil).Once()

	w := doRequest(suite.router, http.MethodGet, "/api/v1/reports/package?asOf=2025-09-30&fromDate=2025-07-01&comparative=false", "", suite.reader)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockStatement.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestTrialBalance() {
	asOf := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	tb := &domain.TrialBalance{
		AsOf: asOf,
		Rows: []domain.TrialBalanceRow{
			{AccountID: "cash", Code: "1100", AccountName: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(100), Credit: decimal.Zero, Balance: decimal.NewFromInt(100)},
			{AccountID: "sales", Code: "4000", AccountName: "Sales", AccountType: domain.Revenue, Debit: decimal.Zero, Credit: decimal.NewFromInt(100), Balance: decimal.NewFromInt(100)},
		},
		TotalDebits:  decimal.NewFromInt(100),
		TotalCredits: decimal.NewFromInt(100),
		Balanced:     true,
	}
	suite.mockStatement.On("TrialBalance", mock.Anything, asOf).Return(tb, nil).Once()

	w := doRequest(suite.router, http.MethodGet, "/api/v1/reports/trial-balance?asOf=2025-12-31", "", suite.reader)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TrialBalanceResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balanced)
	suite.Len(resp.Rows, 2)
}

func (suite *ReportingHandlerTestSuite) TestAging_CustomBuckets() {
	suite.mockStatement.On("AgingReport", mock.Anything, mock.Anything, domain.Receivable,
		mock.MatchedBy(func(b []domain.AgingBucket) bool { return len(b) == 3 && b[2].MaxDays == nil }),
	).Return(&domain.AgingReport{Kind: domain.Receivable}, nil).Once()

	w := doRequest(suite.router, http.MethodGet, "/api/v1/reports/aging?kind=RECEIVABLE&bucket=15&bucket=45", "", suite.reader)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockStatement.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestAging_RequiresKind() {
	w := doRequest(suite.router, http.MethodGet, "/api/v1/reports/aging", "", suite.reader)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ReportingHandlerTestSuite) TestClosePeriod_RequiresCloseCapability() {
	writer := testToken("clerk", utils.CapabilityRead, utils.CapabilityWrite)
	w := doRequest(suite.router, http.MethodPost, "/api/v1/fiscal-periods/p1/close", "", writer)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockFiscal.AssertNotCalled(suite.T(), "ClosePeriod", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingHandlerTestSuite) TestClosePeriod_DraftsRemain() {
	suite.mockFiscal.On("ClosePeriod", mock.Anything, "p1", "controller").
		Return(nil, apperrors.NewPeriodStateError(apperrors.ReasonOpenEntriesExist, "2 draft entries remain")).Once()

	closer := testToken("controller", utils.CapabilityRead, utils.CapabilityClose)
	w := doRequest(suite.router, http.MethodPost, "/api/v1/fiscal-periods/p1/close", "", closer)

	suite.Equal(http.StatusConflict, w.Code)
	var resp handlers.ErrorResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(apperrors.ReasonOpenEntriesExist, resp.Reason)
}

func (suite *ReportingHandlerTestSuite) TestCloseFiscalYear() {
	result := &domain.YearCloseResult{FiscalYear: 2025, NetIncome: decimal.NewFromInt(1200), CarriedForward: true}
	suite.mockFiscal.On("CloseFiscalYear", mock.Anything, 2025, "controller").Return(result, nil).Once()

	closer := testToken("controller", utils.CapabilityAll)
	w := doRequest(suite.router, http.MethodPost, "/api/v1/fiscal-years/2025/close", "", closer)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockFiscal.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestListPeriods_ByYear() {
	suite.mockFiscal.On("ListPeriods", mock.Anything, mock.MatchedBy(func(y *int) bool { return y != nil && *y == 2025 })).
		Return([]domain.FiscalPeriod{{PeriodID: "p1", FiscalYear: 2025}}, nil).Once()

	w := doRequest(suite.router, http.MethodGet, "/api/v1/fiscal-periods?year=2025", "", suite.reader)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.FiscalPeriodResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 1)
}

func TestReportingHandler(t *testing.T) {
	suite.Run(t, new(ReportingHandlerTestSuite))
}
