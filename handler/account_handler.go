package handler

import (
	"encoding/json"
	"go-ledger-api/common"
	"go-ledger-api/logger"
	"go-ledger-api/model"
	"go-ledger-api/repository"
	"go-ledger-api/service"
	"net/http"

	"github.com/sirupsen/logrus"
)

type AccountHandler struct {
	service *service.AccountService
}

func NewAccountHandler(service *service.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// CreateAccount godoc
// @Summary      Open a new bank account
// @Description  Creates a bank account for the authenticated user with a zero balance. The IBAN must be unique.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        account body model.CreateAccountRequest true "Account details"
// @Success      201  {object}  model.Account
// @Failure      400  {object}  common.AppError "Invalid payload"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      409  {object}  common.AppError "An account with this IBAN already exists"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/accounts [post]
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateAccountRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"iban":    req.IBAN,
	})
	log.Info("Create account request received")

	account, err := h.service.CreateNewAccount(userID, req)
	if err != nil {
		if err == repository.ErrDuplicateIBAN {
			return common.NewAppError(http.StatusConflict, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not create account", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)

	return nil
}

// ListAccounts godoc
// @Summary      List accounts
// @Description  Lists the authenticated user's accounts. Admins receive all accounts.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Account
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/accounts [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}
	userRole, ok := r.Context().Value(UserRoleKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user role in token", nil)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"role":    userRole,
	})
	log.Info("List accounts request received")

	accounts, err := h.service.ListAccountsForUser(userID, userRole)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve accounts", err)
	}
	if accounts == nil {
		accounts = []*model.Account{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(accounts)

	return nil
}

// ListAllAccounts godoc
// @Summary      List all accounts (admin)
// @Description  Retrieves every account in the system.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Account
// @Failure      403  {object}  common.AppError "Admin privileges required"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/admin/accounts [get]
func (h *AccountHandler) ListAllAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	accounts, err := h.service.GetAllAccounts()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve accounts", err)
	}
	if accounts == nil {
		accounts = []*model.Account{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(accounts)
	return nil
}
