package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
)

const maxLeadTypeLength = 100

var nonDigits = regexp.MustCompile(`\D`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateApproveLeadInput checks the admin-supplied approval fields.
func ValidateApproveLeadInput(input ApproveLeadInput) []ValidationError {
	var errors []ValidationError

	if utf8.RuneCountInString(input.LeadType) > maxLeadTypeLength {
		errors = append(errors, ValidationError{"lead_type", fmt.Sprintf("must not exceed %d characters", maxLeadTypeLength)})
	}

	if strings.TrimSpace(input.PriceTTC) != "" {
		price, err := ParsePrice(input.PriceTTC)
		if err != nil {
			errors = append(errors, ValidationError{"price_ttc", "must be a decimal amount"})
		} else if price.IsNegative() {
			errors = append(errors, ValidationError{"price_ttc", "must not be negative"})
		}
	}

	return errors
}

// ParsePrice accepts "150", "150.5" or the French "150,50".
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "€")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	s = strings.Replace(s, ",", ".", 1)
	return decimal.NewFromString(s)
}

// NormalizePrice returns the price with two decimals, or "" for an empty input.
func NormalizePrice(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	price, err := ParsePrice(raw)
	if err != nil {
		return "", err
	}
	return price.StringFixed(2), nil
}

// ValidateLeadInput reports data quality problems on a submission. Intake never
// rejects on these; they are logged so the admin knows what to expect.
func ValidateLeadInput(in entity.LeadInput) []ValidationError {
	var warnings []ValidationError

	if strings.TrimSpace(in.Email) == "" && strings.TrimSpace(in.Telephone) == "" {
		warnings = append(warnings, ValidationError{"contact", "neither email nor telephone provided"})
	}

	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			warnings = append(warnings, ValidationError{"email", "is invalid"})
		}
	}

	if in.Telephone != "" && !isValidPhoneNumber(in.Telephone) {
		warnings = append(warnings, ValidationError{"telephone", "must be a valid French phone number"})
	}

	if in.Prestation != "" && entity.PrestationLabel(in.Prestation) == in.Prestation {
		warnings = append(warnings, ValidationError{"prestation", "unknown service code"})
	}

	return warnings
}

// isValidPhoneNumber accepts 0X XX XX XX XX and +33 X XX XX XX XX in any punctuation.
func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")

	switch {
	case strings.HasPrefix(cleaned, "33") && len(cleaned) == 11:
		return true
	case strings.HasPrefix(cleaned, "0") && len(cleaned) == 10:
		return true
	}
	return false
}

func validationError(errs []ValidationError) error {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}
