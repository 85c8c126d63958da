// service/ledger_scenario_test.go
package service

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go-ledger-api/model"
	"go-ledger-api/repository"
)

// fakeStore is a stateful in-memory implementation of the account and
// transaction repositories, used to exercise a whole ledger session
// end-to-end without a database.
type fakeStore struct {
	accounts     map[int]*model.Account
	transactions []*model.Transaction
	nextTxnID    int
}

func newFakeStore(accounts ...*model.Account) *fakeStore {
	s := &fakeStore{accounts: make(map[int]*model.Account), nextTxnID: 1}
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	return s
}

var _ repository.IAccountRepository = (*fakeStore)(nil)
var _ repository.ITransactionRepository = (*fakeStore)(nil)

func (s *fakeStore) CreateAccount(account *model.Account) error {
	s.accounts[account.ID] = account
	return nil
}

func (s *fakeStore) GetAccountsByUserID(userID string) ([]*model.Account, error) {
	var out []*model.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) GetAllAccounts() ([]*model.Account, error) { return nil, nil }

func (s *fakeStore) GetFirstAccountByUserID(userID string) (*model.Account, error) {
	accounts, _ := s.GetAccountsByUserID(userID)
	if len(accounts) == 0 {
		return nil, sql.ErrNoRows
	}
	return accounts[0], nil
}

func (s *fakeStore) GetOwnedAccountForUpdate(tx *sql.Tx, userID string) (*model.Account, error) {
	return s.GetFirstAccountByUserID(userID)
}

func (s *fakeStore) GetAccountForUpdate(tx *sql.Tx, accountID int) (*model.Account, error) {
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return account, nil
}

func (s *fakeStore) UpdateAccountBalance(tx *sql.Tx, accountID int, newBalance decimal.Decimal) error {
	s.accounts[accountID].Balance = newBalance
	return nil
}

func (s *fakeStore) GetAccountsBelowWarnLimit() ([]*model.Account, error) {
	var out []*model.Account
	for _, a := range s.accounts {
		if a.Balance.LessThan(a.WarnLimit) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) CreateTransaction(tx *sql.Tx, txn *model.Transaction) error {
	txn.ID = s.nextTxnID
	s.nextTxnID++
	s.transactions = append(s.transactions, txn)
	return nil
}

func (s *fakeStore) GetTransactionsByUserID(userID string) ([]*model.Transaction, error) {
	var out []*model.Transaction
	for _, t := range s.transactions {
		if a, ok := s.accounts[t.AccountID]; ok && a.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (s *fakeStore) GetAllTransactions() ([]*model.Transaction, error)  { return s.transactions, nil }
func (s *fakeStore) GetTransactionByID(int) (*model.Transaction, error) { return nil, sql.ErrNoRows }
func (s *fakeStore) DeleteTransaction(int) (bool, error)                { return false, nil }

// TestLedgerService_Scenario walks a whole session: deposit 150, transfer
// 50 to another account, then attempt a withdrawal that exceeds the
// remaining balance.
func TestLedgerService_Scenario(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := newFakeStore(
		&model.Account{ID: 1, UserID: "alice", Balance: decimal.Zero},
		&model.Account{ID: 2, UserID: "bob", Balance: decimal.Zero},
	)
	ledgerService := NewLedgerService(db, store, store, nil)
	ctx := context.Background()

	// Deposit 150.00 on alice's account.
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()
	err = ledgerService.Deposit(ctx, "alice", decimal.RequireFromString("150.00"), "opening")
	assert.NoError(t, err)
	assert.True(t, store.accounts[1].Balance.Equal(decimal.RequireFromString("150.00")))
	assert.Len(t, store.transactions, 1)
	assert.Equal(t, model.TypeDeposit, store.transactions[0].Type)

	// Transfer 50.00 from alice to bob.
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()
	err = ledgerService.Transfer(ctx, "alice", 1, 2, decimal.RequireFromString("50.00"), "")
	assert.NoError(t, err)
	assert.True(t, store.accounts[1].Balance.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, store.accounts[2].Balance.Equal(decimal.RequireFromString("50.00")))
	assert.Len(t, store.transactions, 3)

	// Money is conserved across the pair of accounts.
	total := store.accounts[1].Balance.Add(store.accounts[2].Balance)
	assert.True(t, total.Equal(decimal.RequireFromString("150.00")))

	// Withdrawing more than the remaining balance fails and changes nothing.
	dbMock.ExpectBegin()
	dbMock.ExpectRollback()
	err = ledgerService.Withdraw(ctx, "alice", decimal.RequireFromString("200.00"), "")
	assert.Equal(t, ErrInsufficientFunds, err)
	assert.True(t, store.accounts[1].Balance.Equal(decimal.RequireFromString("100.00")))
	assert.Len(t, store.transactions, 3)

	// The account balance equals the sum of its transaction amounts.
	sum := decimal.Zero
	for _, txn := range store.transactions {
		if txn.AccountID == 1 {
			sum = sum.Add(txn.Amount)
		}
	}
	assert.True(t, sum.Equal(store.accounts[1].Balance))

	assert.NoError(t, dbMock.ExpectationsWereMet())
}
