package entity

import (
	"context"
	"strings"
)

// ClientConfigRepositoryInterface holds the notification recipient list.
// Save is a full replace; Get returns trimmed, non-empty entries in stored order.
type ClientConfigRepositoryInterface interface {
	GetClientEmails(ctx context.Context) ([]string, error)
	SaveClientEmails(ctx context.Context, emails []string) error
}

// CleanEmails trims entries and drops the empty ones, keeping order and duplicates.
func CleanEmails(raw []string) []string {
	emails := make([]string, 0, len(raw))
	for _, e := range raw {
		if e = strings.TrimSpace(e); e != "" {
			emails = append(emails, e)
		}
	}
	return emails
}

// JoinRecipients is the sent_to column format.
func JoinRecipients(emails []string) string {
	return strings.Join(emails, ", ")
}
