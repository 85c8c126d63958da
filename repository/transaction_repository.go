package repository

import (
	"database/sql"
	"go-ledger-api/logger"
	"go-ledger-api/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the contract for ledger row operations.
// Inserts always run inside the caller's transaction so that balance update
// and ledger row commit or roll back together.
type ITransactionRepository interface {
	CreateTransaction(tx *sql.Tx, txn *model.Transaction) error
	GetTransactionsByUserID(userID string) ([]*model.Transaction, error)
	GetAllTransactions() ([]*model.Transaction, error)
	GetTransactionByID(id int) (*model.Transaction, error)
	DeleteTransaction(id int) (bool, error)
}

// TransactionRepository implements ITransactionRepository.
type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) CreateTransaction(tx *sql.Tx, txn *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": txn.AccountID,
		"amount":     txn.Amount,
		"type":       txn.Type,
	})
	log.Info("Executing query to create a new transaction")

	var groupID interface{}
	if txn.TransferGroupID != nil {
		groupID = *txn.TransferGroupID
	}

	query := `INSERT INTO transactions (account_id, amount, type, description, category, transfer_group_id, date, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`
	err := tx.QueryRow(query, txn.AccountID, txn.Amount, txn.Type, txn.Description,
		txn.Category, groupID, txn.Date, txn.Timestamp).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create transaction query")
		return err
	}
	return nil
}

// GetTransactionsByUserID retrieves all transactions across the user's
// accounts, most recent first.
func (r *TransactionRepository) GetTransactionsByUserID(userID string) ([]*model.Transaction, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to get transactions by user ID")

	query := `
		SELECT t.id, t.account_id, t.amount, t.type, t.description, t.category,
		       t.transfer_group_id, t.date, t.timestamp, t.created_at
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1
		ORDER BY t.timestamp DESC`

	return r.queryTransactions(query, userID)
}

// GetAllTransactions retrieves every ledger row joined with the holder name
// of its account. For admin use only.
func (r *TransactionRepository) GetAllTransactions() ([]*model.Transaction, error) {
	logger.Log.Info("Executing query to get all transactions")

	query := `
		SELECT t.id, t.account_id, t.amount, t.type, t.description, t.category,
		       t.transfer_group_id, t.date, t.timestamp, t.created_at, a.account_holder
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		ORDER BY t.timestamp DESC`

	rows, err := r.DB.Query(query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute query for all transactions")
		return nil, err
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		var t model.Transaction
		var groupID uuid.NullUUID
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Amount, &t.Type, &t.Description, &t.Category,
			&groupID, &t.Date, &t.Timestamp, &t.CreatedAt, &t.AccountHolder); err != nil {
			logger.Log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		if groupID.Valid {
			t.TransferGroupID = &groupID.UUID
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) GetTransactionByID(id int) (*model.Transaction, error) {
	log := logger.Log.WithField("transaction_id", id)

	query := `
		SELECT t.id, t.account_id, t.amount, t.type, t.description, t.category,
		       t.transfer_group_id, t.date, t.timestamp, t.created_at, a.account_holder
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.id = $1`

	var t model.Transaction
	var groupID uuid.NullUUID
	err := r.DB.QueryRow(query, id).Scan(&t.ID, &t.AccountID, &t.Amount, &t.Type,
		&t.Description, &t.Category, &groupID, &t.Date, &t.Timestamp, &t.CreatedAt, &t.AccountHolder)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get transaction query")
		}
		return nil, err
	}
	if groupID.Valid {
		t.TransferGroupID = &groupID.UUID
	}
	return &t, nil
}

// DeleteTransaction removes a ledger row by id. Returns false when no row
// with that id exists.
func (r *TransactionRepository) DeleteTransaction(id int) (bool, error) {
	log := logger.Log.WithField("transaction_id", id)
	log.Info("Executing query to delete transaction")

	result, err := r.DB.Exec(`DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete transaction query")
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *TransactionRepository) queryTransactions(query string, args ...interface{}) ([]*model.Transaction, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute transactions query")
		return nil, err
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		var t model.Transaction
		var groupID uuid.NullUUID
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Amount, &t.Type, &t.Description, &t.Category,
			&groupID, &t.Date, &t.Timestamp, &t.CreatedAt); err != nil {
			logger.Log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		if groupID.Valid {
			t.TransferGroupID = &groupID.UUID
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}
