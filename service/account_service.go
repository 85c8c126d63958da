// file: service/account_service.go

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"go-ledger-api/model"
	"go-ledger-api/repository"
	"time"

	"github.com/shopspring/decimal"
)

// defaultWarnLimit is the product default for the low-balance threshold.
var defaultWarnLimit = decimal.NewFromInt(50)

// AccountService handles account lifecycle and listing. Listings use a
// cache-aside strategy backed by Redis; mutations invalidate the owner's
// cached list.
type AccountService struct {
	repo  repository.IAccountRepository
	cache ICacheClient
}

func NewAccountService(repo repository.IAccountRepository, cache ICacheClient) *AccountService {
	return &AccountService{
		repo:  repo,
		cache: cache,
	}
}

// CreateNewAccount opens a new account with a zero balance. A duplicate
// IBAN surfaces as repository.ErrDuplicateIBAN so the caller can respond
// with a conflict instead of a generic failure.
func (s *AccountService) CreateNewAccount(userID string, req model.CreateAccountRequest) (*model.Account, error) {
	warnLimit := defaultWarnLimit
	if req.WarnLimit != nil {
		warnLimit = *req.WarnLimit
	}

	account := &model.Account{
		UserID:        userID,
		Name:          req.Name,
		AccountHolder: req.AccountHolder,
		IBAN:          req.IBAN,
		AccountType:   req.AccountType,
		Department:    req.Department,
		WarnLimit:     warnLimit,
	}

	if err := s.repo.CreateAccount(account); err != nil {
		return nil, err
	}

	if s.cache != nil && userID != "" {
		s.cache.Del(context.Background(), fmt.Sprintf("accounts:%s", userID))
	}

	return account, nil
}

// ListAccountsForUser lists accounts visible to the caller. Admins see all
// accounts; everyone else sees their own, served cache-aside.
func (s *AccountService) ListAccountsForUser(userID, role string) ([]*model.Account, error) {
	if role == "admin" {
		return s.repo.GetAllAccounts()
	}

	cacheKey := fmt.Sprintf("accounts:%s", userID)
	ctx := context.Background()

	if s.cache != nil {
		cachedAccounts, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var accounts []*model.Account
			if err := json.Unmarshal([]byte(cachedAccounts), &accounts); err == nil {
				return accounts, nil
			}
		}
	}

	accounts, err := s.repo.GetAccountsByUserID(userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(accounts); err == nil {
			s.cache.Set(ctx, cacheKey, data, 10*time.Minute)
		}
	}

	return accounts, nil
}

// GetAllAccounts retrieves all accounts. Caching is not applied here as
// admin data may need to be fresh.
func (s *AccountService) GetAllAccounts() ([]*model.Account, error) {
	return s.repo.GetAllAccounts()
}
