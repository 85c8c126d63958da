package handler

import (
	"encoding/json"
	"go-ledger-api/common"
	"go-ledger-api/model"
	"go-ledger-api/service"
	"net/http"
	"strconv"
)

// TransactionHandler exposes the administrative transaction endpoints.
type TransactionHandler struct {
	service *service.TransactionService
}

func NewTransactionHandler(s *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// ListAllTransactions godoc
// @Summary      List all transactions (admin)
// @Description  Retrieves every ledger row with the holder name of its account.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Transaction
// @Failure      403  {object}  common.AppError "Admin privileges required"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/admin/transactions [get]
func (h *TransactionHandler) ListAllTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	transactions, err := h.service.GetAllTransactions(r.Context())
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve transactions", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transactions)
	return nil
}

// GetTransaction godoc
// @Summary      Get one transaction (admin)
// @Description  Retrieves a single ledger row by id.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Transaction ID"
// @Success      200  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Invalid transaction ID"
// @Failure      404  {object}  common.AppError "Transaction not found"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/admin/transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid transaction ID in URL path", err)
	}

	transaction, err := h.service.GetTransactionByID(r.Context(), id)
	if err != nil {
		if err == service.ErrTransactionNotFound {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve transaction", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transaction)
	return nil
}

// CreateTransaction godoc
// @Summary      Post a manual transaction (admin)
// @Description  Records a ledger row as submitted. Does not change any account balance.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transaction body model.CreateTransactionRequest true "Transaction details"
// @Success      201  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Invalid payload"
// @Failure      403  {object}  common.AppError "Admin privileges required"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/admin/transactions [post]
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateTransactionRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	transaction, err := h.service.CreateTransaction(r.Context(), req)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not create transaction", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(transaction)
	return nil
}

// DeleteTransaction godoc
// @Summary      Delete a transaction (admin)
// @Description  Removes a ledger row by id.
// @Tags         transactions
// @Security     BearerAuth
// @Param        id path int true "Transaction ID"
// @Success      204  "Transaction deleted"
// @Failure      400  {object}  common.AppError "Invalid transaction ID"
// @Failure      404  {object}  common.AppError "Transaction not found"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/admin/transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid transaction ID in URL path", err)
	}

	if err := h.service.DeleteTransaction(r.Context(), id); err != nil {
		if err == service.ErrTransactionNotFound {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not delete transaction", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
