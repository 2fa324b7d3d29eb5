package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/streadway/amqp"
)

// Consume mails every delivery until ctx is done or the channel closes.
// Deliveries are acked once sent; anything that fails is dropped with
// Nack(requeue=false) so a poison message cannot loop.
func Consume(ctx context.Context, deliveries <-chan amqp.Delivery, sender Sender) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			handle(ctx, d, sender)
		}
	}
}

func handle(ctx context.Context, d amqp.Delivery, sender Sender) {
	var n CommunicationFailure
	if err := json.Unmarshal(d.Body, &n); err != nil {
		slog.Error("failed to decode notification", "message_id", d.MessageId, "error", err)
		if err := d.Nack(false, false); err != nil {
			slog.Error("failed to nack", "error", err)
		}
		return
	}

	if err := sender.Send(ctx, n); err != nil {
		slog.Error("failed to send notification", "order_id", n.OrderID, "error", err)
		if err := d.Nack(false, false); err != nil {
			slog.Error("failed to nack", "error", err)
		}
		return
	}

	slog.Info("notification sent", "order_id", n.OrderID, "recipient", n.Recipient)
	if err := d.Ack(false); err != nil {
		slog.Error("failed to ack", "error", err)
	}
}
