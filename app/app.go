// File: app/app.go
package app

import (
	"context"
	"go-ledger-api/config"
	"go-ledger-api/db"
	"go-ledger-api/handler"
	"go-ledger-api/logger"
	"go-ledger-api/repository"
	"go-ledger-api/router"
	"go-ledger-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error applying migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---
	accountRepo := repository.NewAccountRepository(database)
	transactionRepo := repository.NewTransactionRepository(database)
	userRepo := repository.NewUserRepository(database)

	accountService := service.NewAccountService(accountRepo, redisClient)
	ledgerService := service.NewLedgerService(database, accountRepo, transactionRepo, redisClient)
	transactionService := service.NewTransactionService(database, transactionRepo)

	accountHandler := handler.NewAccountHandler(accountService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	transactionHandler := handler.NewTransactionHandler(transactionService)

	r := router.NewRouter(accountHandler, ledgerHandler, transactionHandler)

	// --- Background Low-Balance Monitor ---
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()

	interval := time.Duration(config.AppConfig.Monitor.IntervalHours) * time.Hour
	monitor := service.NewBalanceMonitor(accountRepo, userRepo, service.NewLogEmailSender(), interval)
	go monitor.Run(monitorCtx)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")
	stopMonitor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
