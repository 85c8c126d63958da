package service

import (
	"context"
	"go-ledger-api/logger"
	"go-ledger-api/repository"
	"time"

	"github.com/sirupsen/logrus"
)

// BalanceMonitor periodically sweeps all accounts whose balance has fallen
// below their warn limit and emails the account owner. It is a polling
// design: it observes state at each tick rather than reacting to the moment
// a balance crosses the threshold.
type BalanceMonitor struct {
	accountRepo repository.IAccountRepository
	userRepo    repository.IUserRepository
	sender      IEmailSender
	interval    time.Duration
}

func NewBalanceMonitor(accountRepo repository.IAccountRepository, userRepo repository.IUserRepository, sender IEmailSender, interval time.Duration) *BalanceMonitor {
	return &BalanceMonitor{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		sender:      sender,
		interval:    interval,
	}
}

// Run blocks, sweeping once per interval until ctx is cancelled. The first
// sweep happens one full interval after start.
func (m *BalanceMonitor) Run(ctx context.Context) {
	logger.Log.WithField("interval", m.interval.String()).Info("Low-balance monitor started")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Low-balance monitor stopped")
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Sweep notifies the owner of every account currently below its warn limit.
// A failed lookup or send is logged and skipped; it never aborts the sweep
// or touches ledger state.
func (m *BalanceMonitor) Sweep(ctx context.Context) {
	accounts, err := m.accountRepo.GetAccountsBelowWarnLimit()
	if err != nil {
		logger.Log.WithError(err).Error("Low-balance sweep failed to query accounts")
		return
	}

	for _, account := range accounts {
		if ctx.Err() != nil {
			return
		}

		log := logger.Log.WithFields(logrus.Fields{
			"account_id": account.ID,
			"balance":    account.Balance,
			"warn_limit": account.WarnLimit,
		})

		if account.UserID == "" {
			log.Warn("Account below warn limit has no owner, skipping notification")
			continue
		}

		user, err := m.userRepo.GetUserByID(account.UserID)
		if err != nil {
			log.WithError(err).Warn("Could not resolve owner for low-balance notification")
			continue
		}
		if user.Email == "" {
			log.Warn("Owner has no email address, skipping notification")
			continue
		}

		body := "Your account balance (" + account.Name + ") has fallen below " + account.WarnLimit.StringFixed(2) + "."
		if err := m.sender.Send(ctx, user.Email, "Account balance warning", body); err != nil {
			log.WithError(err).Warn("Failed to send low-balance notification")
		}
	}
}
