package entity

import (
	"context"
	"strings"
	"time"
)

// Column names of the lead table, in header order.
const (
	FieldCreatedAt  = "created_at"
	FieldFormName   = "form_name"
	FieldNom        = "nom"
	FieldPrenom     = "prenom"
	FieldEmail      = "email"
	FieldTelephone  = "telephone"
	FieldVille      = "ville"
	FieldPrestation = "prestation"
	FieldDetails    = "details"
	FieldStatus     = "status"
	FieldSentTo     = "sent_to"
	FieldSentAt     = "sent_at"
	FieldSourceURL  = "source_url"
	FieldLeadType   = "lead_type"
	FieldPriceTTC   = "price_ttc"
	FieldMSClkID    = "msclkid"
)

// LeadColumns is the fixed header row of the lead table.
var LeadColumns = []string{
	FieldCreatedAt,
	FieldFormName,
	FieldNom,
	FieldPrenom,
	FieldEmail,
	FieldTelephone,
	FieldVille,
	FieldPrestation,
	FieldDetails,
	FieldStatus,
	FieldSentTo,
	FieldSentAt,
	FieldSourceURL,
	FieldLeadType,
	FieldPriceTTC,
	FieldMSClkID,
}

// Lead is one quote request row. RowID is the storage position (header is row 1).
type Lead struct {
	RowID      int    `json:"row_id"`
	CreatedAt  string `json:"created_at"`
	FormName   string `json:"form_name"`
	Nom        string `json:"nom"`
	Prenom     string `json:"prenom"`
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
	Ville      string `json:"ville"`
	Prestation string `json:"prestation"`
	Details    string `json:"details"`
	Status     Status `json:"status"`
	SentTo     string `json:"sent_to"`
	SentAt     string `json:"sent_at"`
	SourceURL  string `json:"source_url"`
	LeadType   string `json:"lead_type"`
	PriceTTC   string `json:"price_ttc"`
	MSClkID    string `json:"msclkid"`
}

// LeadInput is what intake hands to the store. Every field is a plain string, empty when absent.
type LeadInput struct {
	CreatedAt  string `json:"created_at"`
	FormName   string `json:"form_name"`
	Nom        string `json:"nom"`
	Prenom     string `json:"prenom"`
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
	Ville      string `json:"ville"`
	Prestation string `json:"prestation"`
	Details    string `json:"details"`
	SourceURL  string `json:"source_url"`
	MSClkID    string `json:"msclkid"`
}

// NewLead builds the row a store appends: status nouveau, approval fields empty.
func NewLead(in LeadInput) *Lead {
	createdAt := in.CreatedAt
	if createdAt == "" {
		createdAt = Timestamp(time.Now())
	}
	return &Lead{
		CreatedAt:  createdAt,
		FormName:   in.FormName,
		Nom:        in.Nom,
		Prenom:     in.Prenom,
		Email:      in.Email,
		Telephone:  in.Telephone,
		Ville:      in.Ville,
		Prestation: in.Prestation,
		Details:    in.Details,
		Status:     StatusNew,
		SourceURL:  in.SourceURL,
		MSClkID:    in.MSClkID,
	}
}

// Field returns the value stored under a column name, and false for unknown columns.
func (l *Lead) Field(name string) (string, bool) {
	switch name {
	case FieldCreatedAt:
		return l.CreatedAt, true
	case FieldFormName:
		return l.FormName, true
	case FieldNom:
		return l.Nom, true
	case FieldPrenom:
		return l.Prenom, true
	case FieldEmail:
		return l.Email, true
	case FieldTelephone:
		return l.Telephone, true
	case FieldVille:
		return l.Ville, true
	case FieldPrestation:
		return l.Prestation, true
	case FieldDetails:
		return l.Details, true
	case FieldStatus:
		return string(l.Status), true
	case FieldSentTo:
		return l.SentTo, true
	case FieldSentAt:
		return l.SentAt, true
	case FieldSourceURL:
		return l.SourceURL, true
	case FieldLeadType:
		return l.LeadType, true
	case FieldPriceTTC:
		return l.PriceTTC, true
	case FieldMSClkID:
		return l.MSClkID, true
	}
	return "", false
}

// SetField assigns a column by name. Unknown columns are ignored and report false.
func (l *Lead) SetField(name, value string) bool {
	switch name {
	case FieldCreatedAt:
		l.CreatedAt = value
	case FieldFormName:
		l.FormName = value
	case FieldNom:
		l.Nom = value
	case FieldPrenom:
		l.Prenom = value
	case FieldEmail:
		l.Email = value
	case FieldTelephone:
		l.Telephone = value
	case FieldVille:
		l.Ville = value
	case FieldPrestation:
		l.Prestation = value
	case FieldDetails:
		l.Details = value
	case FieldStatus:
		l.Status = Status(value)
	case FieldSentTo:
		l.SentTo = value
	case FieldSentAt:
		l.SentAt = value
	case FieldSourceURL:
		l.SourceURL = value
	case FieldLeadType:
		l.LeadType = value
	case FieldPriceTTC:
		l.PriceTTC = value
	case FieldMSClkID:
		l.MSClkID = value
	default:
		return false
	}
	return true
}

// IsKnownField reports whether name is one of LeadColumns.
func IsKnownField(name string) bool {
	for _, c := range LeadColumns {
		if c == name {
			return true
		}
	}
	return false
}

// FullName is "prenom nom" without stray spaces.
func (l *Lead) FullName() string {
	return strings.TrimSpace(l.Prenom + " " + l.Nom)
}

// Timestamp formats t the way every timestamp column is stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

type LeadRepositoryInterface interface {
	Append(ctx context.Context, in LeadInput) (int, error)
	List(ctx context.Context) ([]*Lead, error)
	Get(ctx context.Context, rowID int) (*Lead, error)
	UpdateFields(ctx context.Context, rowID int, fields map[string]string) error
}
