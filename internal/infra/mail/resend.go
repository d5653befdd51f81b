package mail

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendTransport sends through the Resend HTTP API.
type ResendTransport struct {
	client *resend.Client
}

func NewResendTransport(apiKey string, timeout time.Duration) *ResendTransport {
	return &ResendTransport{
		client: resend.NewCustomClient(&http.Client{Timeout: timeout}, apiKey),
	}
}

func (s *ResendTransport) Deliver(ctx context.Context, from Address, to string, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    formatFrom(from),
		To:      []string{to},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send to %s failed: %w", to, err)
	}
	return nil
}

func formatFrom(a Address) string {
	if a.Name == "" {
		return a.Email
	}
	return a.Name + " <" + a.Email + ">"
}
