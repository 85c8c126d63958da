// file: service/email.go

package service

import (
	"context"
	"go-ledger-api/logger"

	"github.com/sirupsen/logrus"
)

// IEmailSender is the notification boundary consumed by the low-balance
// monitor. Failures are reported back for logging only; they never affect
// ledger state.
type IEmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogEmailSender writes outgoing mail to the application log instead of an
// SMTP relay. Stands in for the real mail gateway in development and tests.
type LogEmailSender struct{}

func NewLogEmailSender() *LogEmailSender {
	return &LogEmailSender{}
}

func (s *LogEmailSender) Send(ctx context.Context, to, subject, body string) error {
	logger.Log.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Infof("EMAIL: %s", body)
	return nil
}
