// Package notify escalates failed credit submissions to the bank's
// operations mailbox.
package notify

import (
	"context"
	"log/slog"
	"time"
)

const (
	Queue = "credit_ops_notifications"

	SubjectCommunicationFailure = "Проблем комуникация заявка КП DSK Credit"
)

// CommunicationFailure is raised when the bank could not be reached while
// submitting an application. Body carries the unencrypted application.
type CommunicationFailure struct {
	ID        string    `json:"id"`
	OrderID   int64     `json:"order_id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type Notifier interface {
	NotifyCommunicationFailure(ctx context.Context, n CommunicationFailure) error
}

// LogNotifier is used when no broker is configured.
type LogNotifier struct{}

func (LogNotifier) NotifyCommunicationFailure(_ context.Context, n CommunicationFailure) error {
	slog.Warn("bank communication failure, manual follow-up required",
		"order_id", n.OrderID,
		"recipient", n.Recipient,
		"subject", n.Subject,
		"payload", n.Body,
	)
	return nil
}
