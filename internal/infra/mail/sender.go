package mail

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// SMTPTransport sends through an authenticated SMTP relay.
type SMTPTransport struct {
	dialer  *gomail.Dialer
	timeout time.Duration
}

func NewSMTPTransport(host string, port int, user, password string, timeout time.Duration) *SMTPTransport {
	return &SMTPTransport{
		dialer:  gomail.NewDialer(host, port, user, password),
		timeout: timeout,
	}
}

func (s *SMTPTransport) Deliver(ctx context.Context, from Address, to string, msg Message) error {
	m := newSMTPMessage(from, to, msg)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// gomail has no context support; the dial is abandoned, not interrupted, on timeout.
	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send to %s failed: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send to %s: %w", to, ctx.Err())
	}
}

func newSMTPMessage(from Address, to string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", from.Email, from.Name)
	m.SetHeader("To", to)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return m
}
