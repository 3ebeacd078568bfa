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
)

type JournalServiceTestSuite struct {
	suite.Suite
	journalRepo *MockJournalRepository
	accountRepo *MockAccountRepository
	fiscalRepo  *MockFiscalRepository
	txManager   *MockTxManager
	service     portssvc.JournalSvcFacade
	ctx         context.Context
	openJan     domain.FiscalPeriod
	accounts    map[string]domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.journalRepo = new(MockJournalRepository)
	suite.accountRepo = new(MockAccountRepository)
	suite.fiscalRepo = new(MockFiscalRepository)
	suite.txManager = new(MockTxManager)
	suite.txManager.On("WithinTransaction", mock.Anything).Return()
	suite.service = services.NewJournalService(suite.journalRepo, suite.accountRepo, suite.fiscalRepo, suite.txManager)
	suite.ctx = context.Background()

	suite.openJan = domain.FiscalPeriod{PeriodID: "p-2025-01", Name: "2025-01", StartDate: day(2025, 1, 1), EndDate: day(2025, 1, 31)}
	suite.accounts = map[string]domain.Account{
		"cash":  {AccountID: "cash", Code: "1100", AccountType: domain.Asset, IsActive: true},
		"sales": {AccountID: "sales", Code: "4000", AccountType: domain.Revenue, IsActive: true},
	}
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func draft(debit, credit string) domain.DraftEntry {
	return domain.DraftEntry{
		EntryDate:   day(2025, 1, 15),
		Description: "Cash sale",
		CreatedBy:   "user-1",
		Lines: []domain.DraftLine{
			{AccountID: "cash", DebitAmount: decimal.RequireFromString(debit), CreditAmount: decimal.Zero},
			{AccountID: "sales", DebitAmount: decimal.Zero, CreditAmount: decimal.RequireFromString(credit)},
		},
	}
}

func (suite *JournalServiceTestSuite) TestCreateAndPost_Balanced() {
	suite.accountRepo.On("FindAccountsByIDs", suite.ctx, []string{"cash", "sales"}).Return(suite.accounts, nil).Once()
	suite.fiscalRepo.On("LockPeriodForShare", suite.ctx, day(2025, 1, 15)).Return([]domain.FiscalPeriod{suite.openJan}, nil).Once()
	suite.journalRepo.On("SaveEntry", suite.ctx, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.Status == domain.Posted && e.Kind == domain.KindStandard && len(e.Lines) == 2 && e.PostedAt != nil
	})).Return(nil).Once()

	entry, err := suite.service.CreateAndPost(suite.ctx, draft("100.00", "100.00"))

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, entry.Status)
	suite.Regexp(`^JE-20250115-[0-9A-F]{6}$`, entry.EntryNumber)
	suite.True(entry.IsBalanced())
	suite.Equal(1, entry.Lines[0].LineNumber)
	suite.journalRepo.AssertExpectations(suite.T())
	suite.fiscalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateAndPost_UnbalancedRejected() {
	entry, err := suite.service.CreateAndPost(suite.ctx, draft("100.00", "99.99"))

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.True(apperrors.HasRule(err, apperrors.RuleUnbalanced))
	suite.journalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateAndPost_InactiveAccount() {
	accounts := map[string]domain.Account{
		"cash":  suite.accounts["cash"],
		"sales": {AccountID: "sales", Code: "4000", AccountType: domain.Revenue, IsActive: false},
	}
	suite.accountRepo.On("FindAccountsByIDs", suite.ctx, []string{"cash", "sales"}).Return(accounts, nil).Once()

	_, err := suite.service.CreateAndPost(suite.ctx, draft("50.00", "50.00"))

	suite.Require().Error(err)
	suite.True(apperrors.HasRule(err, apperrors.RuleAccountInactive))
}

func (suite *JournalServiceTestSuite) TestCreateAndPost_MissingAccount() {
	suite.accountRepo.On("FindAccountsByIDs", suite.ctx, []string{"cash", "sales"}).
		Return(map[string]domain.Account{"cash": suite.accounts["cash"]}, nil).Once()

	_, err := suite.service.CreateAndPost(suite.ctx, draft("50.00", "50.00"))

	suite.True(apperrors.HasRule(err, apperrors.RuleAccountMissing))
}

func (suite *JournalServiceTestSuite) TestCreateAndPost_PeriodStates() {
	closed := suite.openJan
	closed.IsClosed = true

	tests := []struct {
		name    string
		periods []domain.FiscalPeriod
		reason  string
	}{
		{"no period", []domain.FiscalPeriod{}, apperrors.ReasonNoPeriodDefined},
		{"closed period", []domain.FiscalPeriod{closed}, apperrors.ReasonPeriodClosed},
		{"overlapping periods", []domain.FiscalPeriod{suite.openJan, suite.openJan}, apperrors.ReasonPeriodOverlap},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			suite.accountRepo.On("FindAccountsByIDs", suite.ctx, mock.Anything).Return(suite.accounts, nil).Once()
			suite.fiscalRepo.On("LockPeriodForShare", suite.ctx, mock.Anything).Return(tt.periods, nil).Once()

			_, err := suite.service.CreateAndPost(suite.ctx, draft("10.00", "10.00"))

			suite.ErrorIs(err, apperrors.ErrPeriodState)
			suite.True(apperrors.HasReason(err, tt.reason))
			suite.journalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
		})
	}
}

func (suite *JournalServiceTestSuite) TestCreateDraft_SkipsPeriodCheck() {
	suite.journalRepo.On("SaveEntry", suite.ctx, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.Status == domain.Draft && e.PostedAt == nil
	})).Return(nil).Once()

	entry, err := suite.service.CreateDraft(suite.ctx, draft("20.00", "20.00"))

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, entry.Status)
	suite.fiscalRepo.AssertNotCalled(suite.T(), "FindPeriodsContaining", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateDraft_BadLineShape() {
	d := draft("20.00", "20.00")
	d.Lines[0].CreditAmount = decimal.RequireFromString("5.00")

	_, err := suite.service.CreateDraft(suite.ctx, d)

	suite.True(apperrors.HasRule(err, apperrors.RuleLineShape))
}

func (suite *JournalServiceTestSuite) TestPost_Draft() {
	stored := &domain.JournalEntry{
		EntryID:     "e-1",
		EntryNumber: "JE-20250115-ABCDEF",
		EntryDate:   day(2025, 1, 15),
		Description: "Cash sale",
		Status:      domain.Draft,
		Lines: []domain.JournalEntryLine{
			{AccountID: "cash", DebitAmount: decimal.NewFromInt(75), CreditAmount: decimal.Zero},
			{AccountID: "sales", DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(75)},
		},
	}
	suite.journalRepo.On("LockEntryForUpdate", suite.ctx, "e-1").Return(stored, nil).Once()
	suite.accountRepo.On("FindAccountsByIDs", suite.ctx, []string{"cash", "sales"}).Return(suite.accounts, nil).Once()
	suite.fiscalRepo.On("LockPeriodForShare", suite.ctx, day(2025, 1, 15)).Return([]domain.FiscalPeriod{suite.openJan}, nil).Once()
	suite.journalRepo.On("MarkPosted", suite.ctx, "e-1", mock.AnythingOfType("time.Time"), "user-2").Return(nil).Once()

	posted, err := suite.service.Post(suite.ctx, "e-1", "user-2")

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Equal("JE-20250115-ABCDEF", posted.EntryNumber)
	suite.NotNil(posted.PostedAt)
	suite.journalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPost_AlreadyPosted() {
	suite.journalRepo.On("LockEntryForUpdate", suite.ctx, "e-1").
		Return(&domain.JournalEntry{EntryID: "e-1", Status: domain.Posted}, nil).Once()

	_, err := suite.service.Post(suite.ctx, "e-1", "user-2")

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestDeleteDraft_RejectsPosted() {
	suite.journalRepo.On("LockEntryForUpdate", suite.ctx, "e-9").
		Return(&domain.JournalEntry{EntryID: "e-9", Status: domain.Posted}, nil).Once()

	err := suite.service.DeleteDraft(suite.ctx, "e-9")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.journalRepo.AssertNotCalled(suite.T(), "DeleteDraft", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverse_PostsCounterEntry() {
	original := &domain.JournalEntry{
		EntryID:     "e-1",
		EntryNumber: "JE-20250115-ABCDEF",
		EntryDate:   day(2025, 1, 15),
		Description: "Cash sale",
		Status:      domain.Posted,
		Lines: []domain.JournalEntryLine{
			{AccountID: "cash", DebitAmount: decimal.NewFromInt(100), CreditAmount: decimal.Zero},
			{AccountID: "sales", DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(100)},
		},
	}
	suite.journalRepo.On("LockEntryForUpdate", suite.ctx, "e-1").Return(original, nil).Once()
	suite.fiscalRepo.On("LockPeriodForShare", suite.ctx, day(2025, 1, 15)).Return([]domain.FiscalPeriod{suite.openJan}, nil).Once()
	suite.journalRepo.On("SaveEntry", suite.ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()
	suite.journalRepo.On("MarkReversed", suite.ctx, "e-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time"), "user-3").Return(nil).Once()

	counter, err := suite.service.Reverse(suite.ctx, "e-1", "user-3", nil)

	suite.Require().NoError(err)
	suite.Equal(domain.KindReversal, counter.Kind)
	suite.Equal(domain.Posted, counter.Status)
	suite.Equal("e-1", *counter.ReversalOf)
	suite.Equal("JE-20250115-ABCDEF", counter.Reference)
	suite.True(counter.Lines[0].CreditAmount.Equal(decimal.NewFromInt(100)))
	suite.True(counter.Lines[1].DebitAmount.Equal(decimal.NewFromInt(100)))

	// Original and counter-entry net to zero on every account.
	net := map[string]decimal.Decimal{}
	for _, l := range append(original.Lines, counter.Lines...) {
		net[l.AccountID] = net[l.AccountID].Add(l.Net())
	}
	for account, n := range net {
		suite.True(n.IsZero(), "account %s nets to %s", account, n)
	}
	suite.journalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverse_OnlyPosted() {
	suite.journalRepo.On("LockEntryForUpdate", suite.ctx, "e-2").
		Return(&domain.JournalEntry{EntryID: "e-2", Status: domain.Reversed}, nil).Once()

	_, err := suite.service.Reverse(suite.ctx, "e-2", "user-3", nil)

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestReverse_ClosingEntryRejected() {
	suite.journalRepo.On("LockEntryForUpdate", suite.ctx, "ye-2025").
		Return(&domain.JournalEntry{EntryID: "ye-2025", EntryNumber: "YE-CLOSE-2025", Status: domain.Posted, Kind: domain.KindClosing, EntryDate: day(2025, 12, 31)}, nil).Once()

	_, err := suite.service.Reverse(suite.ctx, "ye-2025", "user-3", nil)

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.journalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
	suite.journalRepo.AssertNotCalled(suite.T(), "MarkReversed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverse_ClosedTargetPeriod() {
	closed := suite.openJan
	closed.IsClosed = true
	reversalDate := day(2025, 1, 20)
	suite.journalRepo.On("LockEntryForUpdate", suite.ctx, "e-1").
		Return(&domain.JournalEntry{EntryID: "e-1", Status: domain.Posted, EntryDate: day(2025, 1, 15)}, nil).Once()
	suite.fiscalRepo.On("LockPeriodForShare", suite.ctx, reversalDate).Return([]domain.FiscalPeriod{closed}, nil).Once()

	_, err := suite.service.Reverse(suite.ctx, "e-1", "user-3", &reversalDate)

	suite.True(apperrors.HasReason(err, apperrors.ReasonPeriodClosed))
	suite.journalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestListEntries_ClampsLimit() {
	suite.journalRepo.On("ListEntries", suite.ctx, domain.EntryFilter{}, 100, (*string)(nil)).
		Return([]domain.JournalEntry{}, nil, nil).Once()

	entries, token, err := suite.service.ListEntries(suite.ctx, domain.EntryFilter{}, 500, nil)

	suite.Require().NoError(err)
	suite.Empty(entries)
	suite.Nil(token)
}
