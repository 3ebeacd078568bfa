package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) entryResult(args mock.Arguments) (*domain.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, entryID))
}

func (m *MockJournalService) GetEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, entryNumber))
}

func (m *MockJournalService) ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), next, args.Error(2)
}

func (m *MockJournalService) Validate(ctx context.Context, draft domain.DraftEntry) error {
	return m.Called(ctx, draft).Error(0)
}

func (m *MockJournalService) CreateDraft(ctx context.Context, draft domain.DraftEntry) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, draft))
}

func (m *MockJournalService) UpdateDraft(ctx context.Context, entryID string, draft domain.DraftEntry) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, entryID, draft))
}

func (m *MockJournalService) DeleteDraft(ctx context.Context, entryID string) error {
	return m.Called(ctx, entryID).Error(0)
}

func (m *MockJournalService) Post(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, entryID, userID))
}

func (m *MockJournalService) CreateAndPost(ctx context.Context, draft domain.DraftEntry) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, draft))
}

func (m *MockJournalService) Reverse(ctx context.Context, entryID string, userID string, reversalDate *time.Time) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, entryID, userID, reversalDate))
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

type JournalHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockJournal *MockJournalService
	userID      string
	writer      string
}

const balancedEntryBody = `{
	"entryDate": "2025-03-15T00:00:00Z",
	"description": "Cash sale",
	"lines": [
		{"accountID": "cash", "debitAmount": "100.00", "creditAmount": "0"},
		{"accountID": "sales", "debitAmount": "0", "creditAmount": "100.00"}
	]%s
}`

func (suite *JournalHandlerTestSuite) SetupTest() {
	suite.mockJournal = new(MockJournalService)
	suite.userID = uuid.NewString()
	suite.writer = testToken(suite.userID, utils.CapabilityRead, utils.CapabilityWrite)
	suite.router = newTestRouter(func(rg *gin.RouterGroup) {
		handlers.RegisterJournalRoutes(rg, suite.mockJournal)
	})
}

func postedEntry(number string) *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryNumber: number,
		EntryDate:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:      domain.Posted,
		Kind:        domain.KindStandard,
		Lines: []domain.JournalEntryLine{
			{LineNumber: 1, AccountID: "cash", DebitAmount: decimal.NewFromInt(100), CreditAmount: decimal.Zero},
			{LineNumber: 2, AccountID: "sales", DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(100)},
		},
	}
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_DraftByDefault() {
	draft := &domain.JournalEntry{EntryID: uuid.NewString(), EntryNumber: "JE-2025-000001", Status: domain.Draft}
	suite.mockJournal.On("CreateDraft", mock.Anything, mock.MatchedBy(func(d domain.DraftEntry) bool {
		return d.CreatedBy == suite.userID && len(d.Lines) == 2 && d.Lines[0].DebitAmount.Equal(decimal.NewFromInt(100))
	})).Return(draft, nil).Once()

	w := doRequest(suite.router, http.MethodPost, "/api/v1/journal-entries", fmtBody(""), suite.writer)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockJournal.AssertNotCalled(suite.T(), "CreateAndPost", mock.Anything, mock.Anything)
	suite.mockJournal.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_PostImmediately() {
	suite.mockJournal.On("CreateAndPost", mock.Anything, mock.Anything).Return(postedEntry("JE-2025-000002"), nil).Once()

	w := doRequest(suite.router, http.MethodPost, "/api/v1/journal-entries", fmtBody(`, "post": true`), suite.writer)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalEntryResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.Posted, resp.Status)
	suite.True(resp.TotalDebit.Equal(resp.TotalCredit))
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_UnbalancedReportsRule() {
	suite.mockJournal.On("CreateAndPost", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewRuleViolation(apperrors.RuleUnbalanced, "debits 100.00 do not equal credits 99.99")).Once()

	w := doRequest(suite.router, http.MethodPost, "/api/v1/journal-entries", fmtBody(`, "post": true`), suite.writer)

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp handlers.ErrorResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(apperrors.RuleUnbalanced, resp.Rule)
}

func (suite *JournalHandlerTestSuite) TestPostEntry_ClosedPeriodReportsReason() {
	entryID := uuid.NewString()
	suite.mockJournal.On("Post", mock.Anything, entryID, suite.userID).
		Return(nil, apperrors.NewPeriodStateError(apperrors.ReasonPeriodClosed, "period 2025-03 is closed")).Once()

	w := doRequest(suite.router, http.MethodPost, "/api/v1/journal-entries/"+entryID+"/post", "", suite.writer)

	suite.Equal(http.StatusConflict, w.Code)
	var resp handlers.ErrorResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(apperrors.ReasonPeriodClosed, resp.Reason)
}

func (suite *JournalHandlerTestSuite) TestReverseEntry_WithoutBody() {
	entryID := uuid.NewString()
	counter := postedEntry("JE-2025-000003")
	counter.Kind = domain.KindReversal
	counter.ReversalOf = &entryID
	suite.mockJournal.On("Reverse", mock.Anything, entryID, suite.userID, (*time.Time)(nil)).Return(counter, nil).Once()

	w := doRequest(suite.router, http.MethodPost, "/api/v1/journal-entries/"+entryID+"/reverse", "", suite.writer)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalEntryResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.KindReversal, resp.Kind)
	suite.Require().NotNil(resp.ReversalOf)
	suite.Equal(entryID, *resp.ReversalOf)
}

func (suite *JournalHandlerTestSuite) TestGetEntryByNumber() {
	suite.mockJournal.On("GetEntryByNumber", mock.Anything, "JE-2025-000001").Return(postedEntry("JE-2025-000001"), nil).Once()

	w := doRequest(suite.router, http.MethodGet, "/api/v1/journal-entries/by-number/JE-2025-000001", "", testToken(suite.userID, utils.CapabilityRead))

	suite.Equal(http.StatusOK, w.Code)
	suite.mockJournal.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestListEntries_PassesFilterAndToken() {
	next := "opaque-next"
	suite.mockJournal.On("ListEntries", mock.Anything,
		mock.MatchedBy(func(f domain.EntryFilter) bool { return f.Status != nil && *f.Status == domain.Posted }),
		5,
		mock.MatchedBy(func(tok *string) bool { return tok != nil && *tok == "abc" }),
	).Return([]domain.JournalEntry{*postedEntry("JE-2025-000001")}, &next, nil).Once()

	w := doRequest(suite.router, http.MethodGet, "/api/v1/journal-entries?status=POSTED&limit=5&nextToken=abc", "", testToken(suite.userID, utils.CapabilityRead))

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListJournalEntriesResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Entries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
}

func (suite *JournalHandlerTestSuite) TestListEntries_RejectsUnknownStatus() {
	w := doRequest(suite.router, http.MethodGet, "/api/v1/journal-entries?status=VOID", "", testToken(suite.userID, utils.CapabilityRead))
	suite.Equal(http.StatusBadRequest, w.Code)
}

func fmtBody(extra string) string {
	return fmt.Sprintf(balancedEntryBody, extra)
}

func TestJournalHandler(t *testing.T) {
	suite.Run(t, new(JournalHandlerTestSuite))
}
