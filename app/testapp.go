// file: app/testapp.go

package app

import (
	"database/sql"
	"go-ledger-api/handler"
	"go-ledger-api/repository"
	"go-ledger-api/router"
	"go-ledger-api/service"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// TestApp wires the full stack against an externally provided database and
// redis client so integration tests can drive real HTTP requests.
type TestApp struct {
	DB     *sql.DB
	Router http.Handler
}

func NewTestApp(db *sql.DB, redisClient *redis.Client) *TestApp {
	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	accountService := service.NewAccountService(accountRepo, redisClient)
	ledgerService := service.NewLedgerService(db, accountRepo, transactionRepo, redisClient)
	transactionService := service.NewTransactionService(db, transactionRepo)

	accountHandler := handler.NewAccountHandler(accountService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	transactionHandler := handler.NewTransactionHandler(transactionService)

	return &TestApp{
		DB:     db,
		Router: router.NewRouter(accountHandler, ledgerHandler, transactionHandler),
	}
}
