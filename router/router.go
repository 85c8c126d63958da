package router

import (
	"go-ledger-api/handler"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(accountHandler *handler.AccountHandler, ledgerHandler *handler.LedgerHandler, transactionHandler *handler.TransactionHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Authenticated user surface.
	authed := http.NewServeMux()
	authed.Handle("POST /api/accounts", handler.ErrorHandlingMiddleware(accountHandler.CreateAccount))
	authed.Handle("GET /api/accounts", handler.ErrorHandlingMiddleware(accountHandler.ListAccounts))
	authed.Handle("GET /api/balance", handler.ErrorHandlingMiddleware(ledgerHandler.GetBalance))
	authed.Handle("POST /api/deposits", handler.ErrorHandlingMiddleware(ledgerHandler.CreateDeposit))
	authed.Handle("POST /api/withdrawals", handler.ErrorHandlingMiddleware(ledgerHandler.CreateWithdrawal))
	authed.Handle("POST /api/transfers", handler.ErrorHandlingMiddleware(ledgerHandler.CreateTransfer))
	authed.Handle("GET /api/transactions", handler.ErrorHandlingMiddleware(ledgerHandler.ListTransactions))

	// Admin surface.
	admin := http.NewServeMux()
	admin.Handle("GET /api/admin/accounts", handler.ErrorHandlingMiddleware(accountHandler.ListAllAccounts))
	admin.Handle("GET /api/admin/transactions", handler.ErrorHandlingMiddleware(transactionHandler.ListAllTransactions))
	admin.Handle("POST /api/admin/transactions", handler.ErrorHandlingMiddleware(transactionHandler.CreateTransaction))
	admin.Handle("GET /api/admin/transactions/{id}", handler.ErrorHandlingMiddleware(transactionHandler.GetTransaction))
	admin.Handle("DELETE /api/admin/transactions/{id}", handler.ErrorHandlingMiddleware(transactionHandler.DeleteTransaction))

	mux.Handle("/api/admin/", handler.AuthMiddleware(handler.AdminMiddleware(admin)))
	mux.Handle("/api/", handler.AuthMiddleware(authed))

	return mux
}
