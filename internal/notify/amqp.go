package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPNotifier publishes failures to the durable ops queue.
type AMQPNotifier struct {
	mu    sync.Mutex
	ch    publisher
	queue string
	close func() error
}

// DialAMQP connects, opens a channel and declares the queue.
func DialAMQP(url string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := DeclareQueue(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	n := NewAMQPNotifier(ch, Queue)
	n.close = func() error {
		_ = ch.Close()
		return conn.Close()
	}
	return n, nil
}

func DeclareQueue(ch *amqp.Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("declare queue %s: %w", Queue, err)
	}
	return q, nil
}

func NewAMQPNotifier(ch publisher, queue string) *AMQPNotifier {
	return &AMQPNotifier{ch: ch, queue: queue}
}

func (a *AMQPNotifier) NotifyCommunicationFailure(ctx context.Context, n CommunicationFailure) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	err = a.ch.Publish("", a.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    n.ID,
		Timestamp:    n.CreatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func (a *AMQPNotifier) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}
