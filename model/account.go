package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a single bank account. Balance is the arithmetic sum of the
// signed amounts of all transactions posted against the account and is
// mutated only inside a database transaction.
type Account struct {
	ID            int             `json:"id"`
	UserID        string          `json:"user_id"`
	Name          string          `json:"name"`
	AccountHolder string          `json:"account_holder"`
	IBAN          string          `json:"iban"`
	AccountType   string          `json:"account_type"`
	Department    string          `json:"department"`
	Balance       decimal.Decimal `json:"balance"`
	WarnLimit     decimal.Decimal `json:"warn_limit"`
	CreatedAt     time.Time       `json:"created_at"`
}
