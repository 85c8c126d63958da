package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go-ledger-api/model"
)

func transactionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "account_id", "amount", "type", "description", "category",
		"transfer_group_id", "date", "timestamp", "created_at",
	})
}

func TestTransactionRepository_CreateTransaction(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db)

	dbMock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	groupID := uuid.New()
	now := time.Now().UTC()
	txn := &model.Transaction{
		AccountID:       1,
		Amount:          decimal.RequireFromString("-50.0000"),
		Type:            model.TypeTransfer,
		Description:     "Transfer to account 2: rent",
		TransferGroupID: &groupID,
		Date:            now,
		Timestamp:       now,
	}

	dbMock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO transactions`)).
		WithArgs(1, sqlmock.AnyArg(), string(model.TypeTransfer), txn.Description, "", groupID, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, now))

	err = repo.CreateTransaction(tx, txn)

	assert.NoError(t, err)
	assert.Equal(t, 9, txn.ID)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTransactionRepository_GetTransactionsByUserID(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db)

	t3 := time.Now().UTC()
	t2 := t3.Add(-time.Hour)
	t1 := t3.Add(-2 * time.Hour)
	groupID := uuid.New()

	dbMock.ExpectQuery(`ORDER BY t.timestamp DESC`).
		WithArgs("alice").
		WillReturnRows(transactionRows().
			AddRow(3, 1, "-50.0000", "Transfer", "Transfer to account 2: rent", "", groupID, t3, t3, t3).
			AddRow(2, 1, "-40.0000", "Withdrawal", "", "", nil, t2, t2, t2).
			AddRow(1, 1, "150.0000", "Deposit", "opening", "", nil, t1, t1, t1))

	transactions, err := repo.GetTransactionsByUserID("alice")

	assert.NoError(t, err)
	assert.Len(t, transactions, 3)
	// Most recent first.
	assert.Equal(t, 3, transactions[0].ID)
	assert.Equal(t, 1, transactions[2].ID)
	// The transfer leg carries its group id, plain rows do not.
	assert.NotNil(t, transactions[0].TransferGroupID)
	assert.Equal(t, groupID, *transactions[0].TransferGroupID)
	assert.Nil(t, transactions[1].TransferGroupID)
	assert.True(t, transactions[2].Amount.Equal(decimal.RequireFromString("150")))
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTransactionRepository_DeleteTransaction(t *testing.T) {
	t.Run("deletes an existing row", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewTransactionRepository(db)

		dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM transactions WHERE id = $1`)).
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		deleted, err := repo.DeleteTransaction(7)

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("reports a missing row", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewTransactionRepository(db)

		dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM transactions WHERE id = $1`)).
			WithArgs(42).
			WillReturnResult(sqlmock.NewResult(0, 0))

		deleted, err := repo.DeleteTransaction(42)

		assert.NoError(t, err)
		assert.False(t, deleted)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}
