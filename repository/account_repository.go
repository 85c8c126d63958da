package repository

import (
	"database/sql"
	"errors"
	"go-ledger-api/logger"
	"go-ledger-api/model"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrDuplicateIBAN is returned when an account with the same IBAN already
// exists. The uniqueness constraint lives in the database; this translates
// the driver error so callers can render a proper conflict response.
var ErrDuplicateIBAN = errors.New("an account with this IBAN already exists")

// IAccountRepository defines the contract for account database operations.
// Methods taking a *sql.Tx participate in the caller's unit of work; the
// FOR UPDATE variants acquire row locks that are held until commit.
type IAccountRepository interface {
	CreateAccount(account *model.Account) error
	GetAccountsByUserID(userID string) ([]*model.Account, error)
	GetAllAccounts() ([]*model.Account, error)
	GetFirstAccountByUserID(userID string) (*model.Account, error)
	GetOwnedAccountForUpdate(tx *sql.Tx, userID string) (*model.Account, error)
	GetAccountForUpdate(tx *sql.Tx, accountID int) (*model.Account, error)
	UpdateAccountBalance(tx *sql.Tx, accountID int, newBalance decimal.Decimal) error
	GetAccountsBelowWarnLimit() ([]*model.Account, error)
}

type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

const accountColumns = `id, COALESCE(user_id, ''), name, account_holder, iban, account_type, department, balance, warn_limit, created_at`

func scanAccount(row *sql.Row) (*model.Account, error) {
	acc := &model.Account{}
	err := row.Scan(&acc.ID, &acc.UserID, &acc.Name, &acc.AccountHolder, &acc.IBAN,
		&acc.AccountType, &acc.Department, &acc.Balance, &acc.WarnLimit, &acc.CreatedAt)
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// CreateAccount adds a new account to the database. The balance starts at
// zero regardless of the struct value.
func (r *AccountRepository) CreateAccount(account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": account.UserID,
		"iban":    account.IBAN,
	})
	log.Info("Executing query to create a new account")

	query := `INSERT INTO accounts (user_id, name, account_holder, iban, account_type, department, warn_limit)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7) RETURNING id, balance, created_at`
	err := r.DB.QueryRow(query, account.UserID, account.Name, account.AccountHolder,
		account.IBAN, account.AccountType, account.Department, account.WarnLimit).
		Scan(&account.ID, &account.Balance, &account.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			log.Warn("Duplicate IBAN on account creation")
			return ErrDuplicateIBAN
		}
		log.WithError(err).Error("Failed to execute create account query")
		return err
	}
	return nil
}

// GetAccountsByUserID retrieves all accounts for a specific user.
func (r *AccountRepository) GetAccountsByUserID(userID string) ([]*model.Account, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to get accounts by user ID")

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY id`
	return r.queryAccounts(query, userID)
}

// GetAllAccounts retrieves all accounts from the database. For admin use only.
func (r *AccountRepository) GetAllAccounts() ([]*model.Account, error) {
	logger.Log.Info("Executing query to get all accounts")

	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY id`
	return r.queryAccounts(query)
}

// GetFirstAccountByUserID returns the user's oldest account without locking
// it, or sql.ErrNoRows when the user has none.
func (r *AccountRepository) GetFirstAccountByUserID(userID string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY id LIMIT 1`
	return scanAccount(r.DB.QueryRow(query, userID))
}

// GetOwnedAccountForUpdate locks and returns the user's oldest account
// inside the given transaction.
func (r *AccountRepository) GetOwnedAccountForUpdate(tx *sql.Tx, userID string) (*model.Account, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to lock account by user ID")

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY id LIMIT 1 FOR UPDATE`
	account, err := scanAccount(tx.QueryRow(query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("No account found for user")
		} else {
			log.WithError(err).Error("Failed to execute lock account query")
		}
		return nil, err
	}
	return account, nil
}

// GetAccountForUpdate locks and returns one account by id inside the given
// transaction. The row lock prevents lost updates between concurrent
// withdrawals and transfers against the same account.
func (r *AccountRepository) GetAccountForUpdate(tx *sql.Tx, accountID int) (*model.Account, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to get account for update")

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	account, err := scanAccount(tx.QueryRow(query, accountID))
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Account not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get account for update query")
		}
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) UpdateAccountBalance(tx *sql.Tx, accountID int, newBalance decimal.Decimal) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id":  accountID,
		"new_balance": newBalance,
	})
	log.Info("Executing query to update account balance")

	query := `UPDATE accounts SET balance = $1 WHERE id = $2`
	_, err := tx.Exec(query, newBalance, accountID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update account balance query")
		return err
	}
	return nil
}

// GetAccountsBelowWarnLimit returns every account whose balance has fallen
// below its configured warn limit. Used by the low-balance monitor sweep.
func (r *AccountRepository) GetAccountsBelowWarnLimit() ([]*model.Account, error) {
	logger.Log.Info("Executing query to get accounts below warn limit")

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE balance < warn_limit`
	return r.queryAccounts(query)
}

func (r *AccountRepository) queryAccounts(query string, args ...interface{}) ([]*model.Account, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute accounts query")
		return nil, err
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(&acc.ID, &acc.UserID, &acc.Name, &acc.AccountHolder, &acc.IBAN,
			&acc.AccountType, &acc.Department, &acc.Balance, &acc.WarnLimit, &acc.CreatedAt); err != nil {
			logger.Log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, &acc)
	}
	return accounts, rows.Err()
}
