package usecase

import "github.com/xavierca1/oxyllium-leads/internal/entity"

// FormSubmission is one public form post as delivered by the hosting platform.
// Data values are whatever the form sent: strings, numbers, booleans or lists.
type FormSubmission struct {
	FormName  string         `json:"form_name"`
	CreatedAt string         `json:"created_at"`
	Data      map[string]any `json:"data"`
}

type IntakeLeadOutput struct {
	RowID    int               `json:"row_id"`
	Input    entity.LeadInput  `json:"input"`
	Warnings []ValidationError `json:"warnings,omitempty"`
}

// IntakeOutcome tells operators what happened to a submission the public side saw as accepted.
type IntakeOutcome string

const (
	IntakeStored  IntakeOutcome = "stored"
	IntakeQueued  IntakeOutcome = "queued"
	IntakeDropped IntakeOutcome = "dropped"
)

type IntakeReceipt struct {
	Outcome IntakeOutcome
	RowID   int
	Err     error
}

type ApproveLeadInput struct {
	RowID    int    `json:"row"`
	LeadType string `json:"lead_type"`
	PriceTTC string `json:"price_ttc"`
}

type ApproveLeadOutput struct {
	Success bool     `json:"success"`
	SentTo  []string `json:"sent_to"`
}

type RejectLeadInput struct {
	RowID int `json:"row"`
}
