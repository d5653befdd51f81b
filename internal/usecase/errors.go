package usecase

import "errors"

const (
	CodeLeadNotFound        = "LEAD_NOT_FOUND"
	CodeNoRecipients        = "NO_RECIPIENTS"
	CodeDeliveryFailed      = "DELIVERY_FAILED"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeValidation          = "VALIDATION_ERROR"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
)

// DomainError is a business rule violation the caller can act on.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError means a backing service (store, provider) could not be reached or answered badly.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode returns the code carried by a DomainError or TechnicalError, or "".
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

func upstreamError(what string, err error) error {
	return &TechnicalError{
		Code:    CodeUpstreamUnavailable,
		Message: what + ": " + err.Error(),
		Err:     err,
	}
}
