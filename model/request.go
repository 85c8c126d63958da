// file: model/request.go

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the payload for opening a new bank account.
// The balance always starts at zero; the warn limit falls back to the
// product default when omitted.
type CreateAccountRequest struct {
	Name          string           `json:"name" validate:"required,max=100"`
	AccountHolder string           `json:"account_holder" validate:"required,max=100"`
	IBAN          string           `json:"iban" validate:"required,min=8,max=34"`
	AccountType   string           `json:"account_type" validate:"max=50"`
	Department    string           `json:"department" validate:"max=50"`
	WarnLimit     *decimal.Decimal `json:"warn_limit,omitempty"`
}

// AmountRequest is the payload shared by deposits and withdrawals. The
// amount is validated for positivity in the service layer so the rule holds
// for every caller, not just HTTP.
type AmountRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=255"`
}

// TransferRequest defines the payload for a money transfer between two
// accounts. The source account must belong to the authenticated user.
type TransferRequest struct {
	FromAccountID int             `json:"from_account_id" validate:"required"`
	ToAccountID   int             `json:"to_account_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description" validate:"max=255"`
}

// CreateTransactionRequest defines the payload for an administrative manual
// posting. It writes a ledger row as-is and deliberately does not touch the
// account balance.
type CreateTransactionRequest struct {
	AccountID   int             `json:"account_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type" validate:"required,oneof=Deposit Withdrawal Transfer"`
	Description string          `json:"description" validate:"max=255"`
	Category    string          `json:"category" validate:"max=50"`
	Date        time.Time       `json:"date"`
}
