package handler

import (
	"encoding/json"
	"go-ledger-api/common"
	"go-ledger-api/model"
	"go-ledger-api/service"
	"net/http"
)

// LedgerHandler holds dependencies for the ledger operation endpoints:
// balance, deposit, withdrawal, transfer and history.
type LedgerHandler struct {
	service *service.LedgerService
}

func NewLedgerHandler(s *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: s}
}

// GetBalance godoc
// @Summary      Get current balance
// @Description  Returns the balance of the authenticated user's account. Users without an account get zero.
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/balance [get]
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve balance", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"balance": balance})
	return nil
}

// CreateDeposit godoc
// @Summary      Deposit money
// @Description  Credits the authenticated user's account and records a Deposit transaction.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        deposit body model.AmountRequest true "Amount and optional description"
// @Success      204  "Deposit recorded"
// @Failure      400  {object}  common.AppError "Non-positive amount"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      404  {object}  common.AppError "User has no account"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/deposits [post]
func (h *LedgerHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.AmountRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	if err := h.service.Deposit(r.Context(), userID, req.Amount, req.Description); err != nil {
		return mapLedgerError(err, "Could not process deposit")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// CreateWithdrawal godoc
// @Summary      Withdraw money
// @Description  Debits the authenticated user's account and records a Withdrawal transaction.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        withdrawal body model.AmountRequest true "Amount and optional description"
// @Success      204  "Withdrawal recorded"
// @Failure      400  {object}  common.AppError "Non-positive amount or insufficient funds"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      404  {object}  common.AppError "User has no account"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/withdrawals [post]
func (h *LedgerHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.AmountRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	if err := h.service.Withdraw(r.Context(), userID, req.Amount, req.Description); err != nil {
		return mapLedgerError(err, "Could not process withdrawal")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// CreateTransfer godoc
// @Summary      Transfer money between accounts
// @Description  Moves a specified amount from one account to another. The user must own the source account.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transfer body model.TransferRequest true "Details of the financial transfer"
// @Success      204  "Transfer executed"
// @Failure      400  {object}  common.AppError "Bad Request (e.g., insufficient funds, invalid amount)"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      403  {object}  common.AppError "Forbidden: User does not own the source account"
// @Failure      404  {object}  common.AppError "Sender or receiver account not found"
// @Failure      500  {object}  common.AppError "Internal server error while processing transfer"
// @Router       /api/transfers [post]
func (h *LedgerHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TransferRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	if err := h.service.Transfer(r.Context(), userID, req.FromAccountID, req.ToAccountID, req.Amount, req.Description); err != nil {
		return mapLedgerError(err, "Could not process transfer")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// ListTransactions godoc
// @Summary      List own transaction history
// @Description  Retrieves all transactions across the authenticated user's accounts, most recent first.
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Transaction
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/transactions [get]
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	transactions, err := h.service.GetHistory(r.Context(), userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve transactions", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transactions)
	return nil
}

// mapLedgerError maps business rule failures from the ledger service to the
// matching HTTP status. Anything unrecognized is an infrastructure fault.
func mapLedgerError(err error, fallbackMsg string) *common.AppError {
	switch err {
	case service.ErrSenderAccountNotFound, service.ErrReceiverAccountNotFound, service.ErrAccountNotFound:
		return common.NewAppError(http.StatusNotFound, err.Error(), err)
	case service.ErrPermissionDenied:
		return common.NewAppError(http.StatusForbidden, err.Error(), err)
	case service.ErrInsufficientFunds, service.ErrSameAccountTransfer, service.ErrInvalidAmount:
		return common.NewAppError(http.StatusBadRequest, err.Error(), err)
	default:
		return common.NewAppError(http.StatusInternalServerError, fallbackMsg, err)
	}
}
