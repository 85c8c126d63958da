package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-ledger-api/logger"
	"go-ledger-api/model"
	"go-ledger-api/repository"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrAccountNotFound         = errors.New("account not found")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrSenderAccountNotFound   = errors.New("sender account not found")
	ErrReceiverAccountNotFound = errors.New("receiver account not found")
	ErrSameAccountTransfer     = errors.New("cannot transfer money to the same account")
	ErrPermissionDenied        = errors.New("you can only transfer money from your own account")
)

// LedgerService implements the account ledger core: balance reads, deposits,
// withdrawals, transfers and transaction history. Every mutation runs inside
// one database transaction; account rows are locked with SELECT ... FOR
// UPDATE so concurrent mutations against the same account serialize at the
// store instead of racing in memory.
type LedgerService struct {
	db              *sql.DB
	accountRepo     repository.IAccountRepository
	transactionRepo repository.ITransactionRepository
	cache           ICacheClient
}

func NewLedgerService(db *sql.DB, accountRepo repository.IAccountRepository, transactionRepo repository.ITransactionRepository, cache ICacheClient) *LedgerService {
	return &LedgerService{
		db:              db,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		cache:           cache,
	}
}

// GetBalance returns the balance of the user's first account, or zero when
// the user has no account. The zero default for a missing account is a
// deliberate product behavior.
func (s *LedgerService) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.GetFirstAccountByUserID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// Deposit credits the user's account with amount and appends a Deposit row.
// The amount must be strictly positive; the check runs before any store
// access so invalid requests never open a transaction.
func (s *LedgerService) Deposit(ctx context.Context, userID string, amount decimal.Decimal, description string) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  amount,
	})

	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	log.Info("Starting deposit")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accountRepo.GetOwnedAccountForUpdate(tx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrAccountNotFound
		}
		return err
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, account.ID, account.Balance.Add(amount)); err != nil {
		return fmt.Errorf("could not update balance: %w", err)
	}

	now := time.Now().UTC()
	transaction := &model.Transaction{
		AccountID:   account.ID,
		Amount:      amount,
		Type:        model.TypeDeposit,
		Description: description,
		Date:        now,
		Timestamp:   now,
	}
	if err := s.transactionRepo.CreateTransaction(tx, transaction); err != nil {
		return fmt.Errorf("could not create transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	s.invalidateAccountsCache(ctx, userID)
	log.Info("Deposit completed successfully")
	return nil
}

// Withdraw debits the user's account by amount and appends a Withdrawal row
// with a negative amount. Fails with ErrInsufficientFunds when the balance
// is lower than the requested amount; the balance can never go negative.
func (s *LedgerService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal, description string) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  amount,
	})

	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	log.Info("Starting withdrawal")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accountRepo.GetOwnedAccountForUpdate(tx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrAccountNotFound
		}
		return err
	}

	// The balance check happens after the row lock is held, so two
	// concurrent withdrawals against the same account cannot both pass it.
	if account.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, account.ID, account.Balance.Sub(amount)); err != nil {
		return fmt.Errorf("could not update balance: %w", err)
	}

	now := time.Now().UTC()
	transaction := &model.Transaction{
		AccountID:   account.ID,
		Amount:      amount.Neg(),
		Type:        model.TypeWithdrawal,
		Description: description,
		Date:        now,
		Timestamp:   now,
	}
	if err := s.transactionRepo.CreateTransaction(tx, transaction); err != nil {
		return fmt.Errorf("could not create transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	s.invalidateAccountsCache(ctx, userID)
	log.Info("Withdrawal completed successfully")
	return nil
}

// Transfer moves amount from one of the user's accounts to any destination
// account. Both balance updates and both ledger legs commit in one database
// transaction; the legs share one timestamp and one transfer group id so
// the pair stays queryable.
func (s *LedgerService) Transfer(ctx context.Context, userID string, fromAccountID, toAccountID int, amount decimal.Decimal, description string) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":         userID,
		"from_account_id": fromAccountID,
		"to_account_id":   toAccountID,
		"amount":          amount,
	})

	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if fromAccountID == toAccountID {
		return ErrSameAccountTransfer
	}

	log.Info("Starting money transfer process")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock rows in ascending id order so two opposite transfers between the
	// same pair of accounts cannot deadlock.
	firstID, secondID := fromAccountID, toAccountID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	locked := make(map[int]*model.Account, 2)
	for _, id := range []int{firstID, secondID} {
		account, err := s.accountRepo.GetAccountForUpdate(tx, id)
		if err != nil {
			if err == sql.ErrNoRows {
				if id == fromAccountID {
					return ErrSenderAccountNotFound
				}
				return ErrReceiverAccountNotFound
			}
			return err
		}
		locked[id] = account
	}

	fromAccount := locked[fromAccountID]
	toAccount := locked[toAccountID]

	if fromAccount.UserID != userID {
		return ErrPermissionDenied
	}
	if fromAccount.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, fromAccount.ID, fromAccount.Balance.Sub(amount)); err != nil {
		return fmt.Errorf("could not update sender balance: %w", err)
	}
	if err := s.accountRepo.UpdateAccountBalance(tx, toAccount.ID, toAccount.Balance.Add(amount)); err != nil {
		return fmt.Errorf("could not update receiver balance: %w", err)
	}

	// One timestamp and one group id for both legs, captured once.
	now := time.Now().UTC()
	groupID := uuid.New()

	sourceLeg := &model.Transaction{
		AccountID:       fromAccount.ID,
		Amount:          amount.Neg(),
		Type:            model.TypeTransfer,
		Description:     fmt.Sprintf("Transfer to account %d: %s", toAccount.ID, description),
		TransferGroupID: &groupID,
		Date:            now,
		Timestamp:       now,
	}
	if err := s.transactionRepo.CreateTransaction(tx, sourceLeg); err != nil {
		return fmt.Errorf("could not create source transaction record: %w", err)
	}

	destinationLeg := &model.Transaction{
		AccountID:       toAccount.ID,
		Amount:          amount,
		Type:            model.TypeTransfer,
		Description:     fmt.Sprintf("Received from account %d: %s", fromAccount.ID, description),
		TransferGroupID: &groupID,
		Date:            now,
		Timestamp:       now,
	}
	if err := s.transactionRepo.CreateTransaction(tx, destinationLeg); err != nil {
		return fmt.Errorf("could not create destination transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	s.invalidateAccountsCache(ctx, fromAccount.UserID, toAccount.UserID)
	log.Info("Transfer completed successfully")
	return nil
}

// GetHistory returns all transactions across the user's accounts, most
// recent first. A user without accounts or transactions gets an empty
// slice, not an error.
func (s *LedgerService) GetHistory(ctx context.Context, userID string) ([]*model.Transaction, error) {
	transactions, err := s.transactionRepo.GetTransactionsByUserID(userID)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []*model.Transaction{}
	}
	return transactions, nil
}

func (s *LedgerService) invalidateAccountsCache(ctx context.Context, userIDs ...string) {
	if s.cache == nil {
		return
	}
	for _, id := range userIDs {
		if id == "" {
			continue
		}
		s.cache.Del(ctx, fmt.Sprintf("accounts:%s", id))
	}
}
