package notify

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/wneessen/go-mail"
)

// SendTimeout bounds a single SMTP delivery including dial and DATA.
const SendTimeout = 30 * time.Second

type Sender interface {
	Send(ctx context.Context, n CommunicationFailure) error
}

type mailClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPSender delivers notifications as plain-text UTF-8 mail.
type SMTPSender struct {
	from    string
	timeout time.Duration
	client  mailClient
}

func NewSMTPSender(addr, from, user, password string) (*SMTPSender, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("parse smtp address: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("parse smtp port: %w", err)
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTimeout(SendTimeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(user),
			mail.WithPassword(password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPSender{from: from, timeout: SendTimeout, client: client}, nil
}

func (s *SMTPSender) Send(ctx context.Context, n CommunicationFailure) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.Recipient == "" {
		return fmt.Errorf("notification %s has no recipient", n.ID)
	}

	msg, err := BuildMessage(s.from, n)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func BuildMessage(from string, n CommunicationFailure) (*mail.Msg, error) {
	date := n.CreatedAt
	if date.IsZero() {
		date = time.Now()
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(n.Recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", n.Recipient, err)
	}
	msg.Subject(n.Subject)
	msg.SetDateWithValue(date)
	if n.ID != "" {
		msg.SetMessageIDWithValue(n.ID + "@dskcredit")
	}
	msg.SetBodyString(mail.TypeTextPlain, n.Body)
	return msg, nil
}
