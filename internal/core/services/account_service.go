package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, currencyRepo portsrepo.CurrencyReader) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService:  newBaseService(),
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a new account in the chart.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, apperrors.NewRuleViolation(apperrors.RuleInvalidInput, "invalid account type %q", req.AccountType)
	}

	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewRuleViolation(apperrors.RuleInvalidInput, "currency %s does not exist", req.CurrencyCode)
		}
		s.LogError(ctx, err, "Failed to look up currency", slog.String("currency_code", req.CurrencyCode))
		return nil, fmt.Errorf("failed to look up currency %s: %w", req.CurrencyCode, err)
	}

	var parentID *string
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		if _, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewRuleViolation(apperrors.RuleAccountMissing, "parent account %s not found", *req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to look up parent account: %w", err)
		}
		parentID = req.ParentAccountID
	}

	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		CurrencyCode:    req.CurrencyCode,
		ParentAccountID: parentID,
		Description:     req.Description,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(userID, s.now()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("account code %s: %w", req.Code, err)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves an account by ID.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	return account, nil
}

// GetAccountByCode retrieves an account by chart code.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get account by code %s: %w", code, err)
	}
	return account, nil
}

// ListAccounts lists accounts matching filter.
func (s *accountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// AccountTree builds the chart as a forest. Children are ordered by code.
func (s *accountService) AccountTree(ctx context.Context) ([]*domain.AccountNode, error) {
	accounts, err := s.ListAccounts(ctx, domain.AccountFilter{})
	if err != nil {
		return nil, err
	}
	return buildAccountForest(accounts), nil
}

func buildAccountForest(accounts []domain.Account) []*domain.AccountNode {
	nodes := make(map[string]*domain.AccountNode, len(accounts))
	for _, a := range accounts {
		nodes[a.AccountID] = &domain.AccountNode{Account: a}
	}

	roots := make([]*domain.AccountNode, 0)
	for _, a := range accounts {
		node := nodes[a.AccountID]
		if !a.IsRoot() {
			if parent, ok := nodes[*a.ParentAccountID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	var sortNodes func([]*domain.AccountNode)
	sortNodes = func(ns []*domain.AccountNode) {
		sort.Slice(ns, func(i, j int) bool { return ns[i].Code < ns[j].Code })
		for _, n := range ns {
			sortNodes(n.Children)
		}
	}
	sortNodes(roots)
	return roots
}

// UpdateAccount applies the provided changes. A parent change is rejected if it would create a cycle.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	if req.ParentAccountID != nil {
		if *req.ParentAccountID == "" {
			account.ParentAccountID = nil
		} else {
			if err := s.checkNoCycle(ctx, accountID, *req.ParentAccountID); err != nil {
				return nil, err
			}
			parent := *req.ParentAccountID
			account.ParentAccountID = &parent
		}
	}

	account.LastUpdatedAt = s.now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account %s: %w", accountID, err)
	}
	return account, nil
}

// checkNoCycle walks the ancestors of newParentID; meeting accountID means the move would close a loop.
func (s *accountService) checkNoCycle(ctx context.Context, accountID, newParentID string) error {
	if newParentID == accountID {
		return apperrors.NewRuleViolation(apperrors.RuleAccountCycle, "account %s cannot be its own parent", accountID)
	}

	visited := map[string]struct{}{}
	current := newParentID
	for current != "" {
		if current == accountID {
			return apperrors.NewRuleViolation(apperrors.RuleAccountCycle, "moving account %s under %s would create a cycle", accountID, newParentID)
		}
		if _, seen := visited[current]; seen {
			// Pre-existing loop among ancestors; the store should never hold one.
			return apperrors.NewRuleViolation(apperrors.RuleAccountCycle, "account hierarchy above %s is cyclic", newParentID)
		}
		visited[current] = struct{}{}

		ancestor, err := s.accountRepo.FindAccountByID(ctx, current)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewRuleViolation(apperrors.RuleAccountMissing, "parent account %s not found", current)
			}
			return fmt.Errorf("failed to walk account hierarchy: %w", err)
		}
		if ancestor.IsRoot() {
			break
		}
		current = *ancestor.ParentAccountID
	}
	return nil
}

// DeactivateAccount marks an account inactive. Posting to it is rejected afterwards.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	inactive := false
	_, err := s.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{IsActive: &inactive}, userID)
	return err
}
