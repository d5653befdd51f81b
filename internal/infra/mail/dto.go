package mail

import (
	"sort"
	"strings"
)

// Message is a rendered notification, identical for every recipient.
type Message struct {
	Subject string
	HTML    string
}

// Address is a sender identity.
type Address struct {
	Email string
	Name  string
}

// DispatchResult lists who got the message and who did not.
type DispatchResult struct {
	Sent   []string
	Failed map[string]error
}

// DeliveryError is returned when at least one recipient could not be reached.
type DeliveryError struct {
	Failed map[string]error
}

func (e *DeliveryError) Error() string {
	recipients := make([]string, 0, len(e.Failed))
	for r := range e.Failed {
		recipients = append(recipients, r)
	}
	sort.Strings(recipients)

	parts := make([]string, 0, len(recipients))
	for _, r := range recipients {
		parts = append(parts, r+" ("+e.Failed[r].Error()+")")
	}
	return "delivery failed for " + strings.Join(parts, ", ")
}
