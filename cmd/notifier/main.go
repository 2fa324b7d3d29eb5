package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streadway/amqp"

	"dskcredit/internal/config"
	"dskcredit/internal/notify"
)

const dialAttempts = 30

func main() {
	cfg := config.NewNotifier()

	var conn *amqp.Connection
	var err error
	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(cfg.AMQPURL)
		if err == nil {
			break
		}
		slog.Info("waiting for rabbitmq", "attempt", i+1, "of", dialAttempts)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		slog.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		slog.Error("failed to open channel", "error", err)
		os.Exit(1)
	}
	defer ch.Close()

	q, err := notify.DeclareQueue(ch)
	if err != nil {
		slog.Error("failed to declare queue", "error", err)
		os.Exit(1)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		slog.Error("failed to set qos", "error", err)
		os.Exit(1)
	}

	deliveries, err := ch.Consume(
		q.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		slog.Error("failed to start consumer", "error", err)
		os.Exit(1)
	}

	sender, err := notify.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPassword)
	if err != nil {
		slog.Error("failed to configure smtp", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("notifier running", "queue", q.Name, "smtp", cfg.SMTPAddr)
	notify.Consume(ctx, deliveries, sender)
	slog.Info("notifier stopped")
}
