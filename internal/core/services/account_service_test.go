package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	accountRepo  *MockAccountRepository
	currencyRepo *MockCurrencyRepository
	service      portssvc.AccountSvcFacade
	ctx          context.Context
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.accountRepo = new(MockAccountRepository)
	suite.currencyRepo = new(MockCurrencyRepository)
	suite.service = services.NewAccountService(suite.accountRepo, suite.currencyRepo)
	suite.ctx = context.Background()
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func account(id, code string, parent string) *domain.Account {
	a := &domain.Account{AccountID: id, Code: code, Name: code, AccountType: domain.Asset, CurrencyCode: "USD", IsActive: true}
	if parent != "" {
		a.ParentAccountID = &parent
	}
	return a
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1100", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "USD"}
	suite.currencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.accountRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(suite.ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.NotEmpty(created.AccountID)
	suite.Equal("1100", created.Code)
	suite.True(created.IsActive)
	suite.True(created.IsRoot())
	suite.Equal("user-1", created.CreatedBy)
	suite.accountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "1100", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "USD"}
	suite.currencyRepo.On("FindCurrencyByCode", suite.ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.accountRepo.On("SaveAccount", suite.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateAccount(suite.ctx, req, "user-1")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownCurrency() {
	req := dto.CreateAccountRequest{Code: "1100", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "XYZ"}
	suite.currencyRepo.On("FindCurrencyByCode", suite.ctx, "XYZ").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(suite.ctx, req, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.accountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	req := dto.CreateAccountRequest{Code: "9", Name: "Odd", AccountType: domain.AccountType("GOODWILL"), CurrencyCode: "USD"}

	_, err := suite.service.CreateAccount(suite.ctx, req, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_SelfParentRejected() {
	suite.accountRepo.On("FindAccountByID", suite.ctx, "a").Return(account("a", "1000", ""), nil).Once()
	self := "a"

	_, err := suite.service.UpdateAccount(suite.ctx, "a", dto.UpdateAccountRequest{ParentAccountID: &self}, "user-1")

	suite.True(apperrors.HasRule(err, apperrors.RuleAccountCycle))
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_CycleRejected() {
	// a <- b <- c; moving a under c closes the loop.
	suite.accountRepo.On("FindAccountByID", suite.ctx, "a").Return(account("a", "1000", ""), nil).Once()
	suite.accountRepo.On("FindAccountByID", suite.ctx, "c").Return(account("c", "1110", "b"), nil).Once()
	suite.accountRepo.On("FindAccountByID", suite.ctx, "b").Return(account("b", "1100", "a"), nil).Once()
	newParent := "c"

	_, err := suite.service.UpdateAccount(suite.ctx, "a", dto.UpdateAccountRequest{ParentAccountID: &newParent}, "user-1")

	suite.True(apperrors.HasRule(err, apperrors.RuleAccountCycle))
	suite.accountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_ValidMove() {
	suite.accountRepo.On("FindAccountByID", suite.ctx, "c").Return(account("c", "1110", "b"), nil).Once()
	suite.accountRepo.On("FindAccountByID", suite.ctx, "x").Return(account("x", "1500", ""), nil).Once()
	suite.accountRepo.On("UpdateAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.ParentAccountID != nil && *a.ParentAccountID == "x"
	})).Return(nil).Once()
	newParent := "x"

	updated, err := suite.service.UpdateAccount(suite.ctx, "c", dto.UpdateAccountRequest{ParentAccountID: &newParent}, "user-2")

	suite.Require().NoError(err)
	suite.Equal("user-2", updated.LastUpdatedBy)
	suite.accountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount() {
	suite.accountRepo.On("FindAccountByID", suite.ctx, "a").Return(account("a", "1000", ""), nil).Once()
	suite.accountRepo.On("UpdateAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool { return !a.IsActive })).Return(nil).Once()

	err := suite.service.DeactivateAccount(suite.ctx, "a", "user-1")

	suite.Require().NoError(err)
	suite.accountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestAccountTree_Forest() {
	suite.accountRepo.On("ListAccounts", suite.ctx, domain.AccountFilter{}).Return([]domain.Account{
		*account("b", "1100", "a"),
		*account("a", "1000", ""),
		*account("z", "2000", ""),
		*account("c", "1050", "a"),
	}, nil).Once()

	roots, err := suite.service.AccountTree(suite.ctx)

	suite.Require().NoError(err)
	suite.Require().Len(roots, 2)
	suite.Equal("a", roots[0].AccountID)
	suite.Require().Len(roots[0].Children, 2)
	suite.Equal("1050", roots[0].Children[0].Code)
	suite.Equal("z", roots[1].AccountID)
}
