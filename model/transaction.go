package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeDeposit    TransactionType = "Deposit"
	TypeWithdrawal TransactionType = "Withdrawal"
	TypeTransfer   TransactionType = "Transfer"
)

// Transaction is one ledger row. Amounts are always signed: deposits are
// positive, withdrawals negative, transfer legs negative on the source
// account and positive on the destination. Rows are immutable once posted;
// the only mutation is an administrative delete by id.
type Transaction struct {
	ID        int             `json:"id"`
	AccountID int             `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Type      TransactionType `json:"type"`
	// AccountHolder is joined in for admin listings; empty elsewhere.
	AccountHolder string `json:"account_holder,omitempty"`
	Description   string `json:"description,omitempty"`
	Category      string `json:"category,omitempty"`
	// TransferGroupID links the two legs of one transfer. Nil for
	// deposits, withdrawals and manually posted rows.
	TransferGroupID *uuid.UUID `json:"transfer_group_id,omitempty"`
	Date            time.Time  `json:"date"`
	Timestamp       time.Time  `json:"timestamp"`
	CreatedAt       time.Time  `json:"created_at"`
}
