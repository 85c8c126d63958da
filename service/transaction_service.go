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
)

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionService covers the administrative view of the ledger: listing
// all rows, fetching one by id, deleting by id and posting a manual row.
// Ledger rows are otherwise immutable; there is deliberately no update path.
type TransactionService struct {
	db              *sql.DB
	transactionRepo repository.ITransactionRepository
}

func NewTransactionService(db *sql.DB, transactionRepo repository.ITransactionRepository) *TransactionService {
	return &TransactionService{
		db:              db,
		transactionRepo: transactionRepo,
	}
}

func (s *TransactionService) GetAllTransactions(ctx context.Context) ([]*model.Transaction, error) {
	transactions, err := s.transactionRepo.GetAllTransactions()
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []*model.Transaction{}
	}
	return transactions, nil
}

func (s *TransactionService) GetTransactionByID(ctx context.Context, id int) (*model.Transaction, error) {
	transaction, err := s.transactionRepo.GetTransactionByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// CreateTransaction posts a manual ledger row as given. It records exactly
// what the administrator submitted and does not touch the account balance;
// balance-affecting mutations go through the ledger service.
func (s *TransactionService) CreateTransaction(ctx context.Context, req model.CreateTransactionRequest) (*model.Transaction, error) {
	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	transaction := &model.Transaction{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
		Category:    req.Category,
		Date:        date,
		Timestamp:   time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.transactionRepo.CreateTransaction(tx, transaction); err != nil {
		return nil, fmt.Errorf("could not create transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	logger.Log.WithField("transaction_id", transaction.ID).Info("Manual transaction posted")
	return transaction, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id int) error {
	deleted, err := s.transactionRepo.DeleteTransaction(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTransactionNotFound
	}
	return nil
}
