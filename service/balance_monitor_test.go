// service/balance_monitor_test.go
package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go-ledger-api/model"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func (r *fakeUserRepo) GetUserByID(id string) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

type recordingSender struct {
	sent   []string // recipient addresses
	failOn string   // recipient whose send fails
}

func (s *recordingSender) Send(ctx context.Context, to, subject, body string) error {
	if to == s.failOn {
		return errors.New("smtp unavailable")
	}
	s.sent = append(s.sent, to)
	return nil
}

func TestBalanceMonitor_Sweep(t *testing.T) {
	warnLimit := decimal.NewFromInt(50)

	store := newFakeStore(
		// Below the warn limit, owned, owner has email: notified.
		&model.Account{ID: 1, UserID: "alice", Name: "Checking", Balance: decimal.NewFromInt(10), WarnLimit: warnLimit},
		// Healthy balance: not notified.
		&model.Account{ID: 2, UserID: "bob", Name: "Savings", Balance: decimal.NewFromInt(500), WarnLimit: warnLimit},
		// Below the limit but unowned: skipped.
		&model.Account{ID: 3, UserID: "", Name: "Escrow", Balance: decimal.NewFromInt(5), WarnLimit: warnLimit},
		// Below the limit, owner unknown to the identity store: skipped.
		&model.Account{ID: 4, UserID: "ghost", Name: "Old", Balance: decimal.NewFromInt(1), WarnLimit: warnLimit},
		// Below the limit, send fails: logged, sweep continues.
		&model.Account{ID: 5, UserID: "carol", Name: "Checking", Balance: decimal.NewFromInt(20), WarnLimit: warnLimit},
		// Below the limit, notified after the failed one.
		&model.Account{ID: 6, UserID: "dave", Name: "Checking", Balance: decimal.NewFromInt(30), WarnLimit: warnLimit},
	)

	userRepo := &fakeUserRepo{users: map[string]*model.User{
		"alice": {ID: "alice", Email: "alice@example.com"},
		"bob":   {ID: "bob", Email: "bob@example.com"},
		"carol": {ID: "carol", Email: "carol@example.com"},
		"dave":  {ID: "dave", Email: "dave@example.com"},
	}}

	sender := &recordingSender{failOn: "carol@example.com"}
	monitor := NewBalanceMonitor(store, userRepo, sender, time.Hour)

	monitor.Sweep(context.Background())

	assert.Equal(t, []string{"alice@example.com", "dave@example.com"}, sender.sent)
}

func TestBalanceMonitor_RunStopsOnCancel(t *testing.T) {
	store := newFakeStore()
	userRepo := &fakeUserRepo{users: map[string]*model.User{}}
	monitor := NewBalanceMonitor(store, userRepo, &recordingSender{}, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		monitor.Run(ctx)
		close(done)
	}()

	// Let a few ticks pass, then cancel.
	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after context cancellation")
	}
}
