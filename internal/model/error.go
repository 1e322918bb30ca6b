package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeEmptyPayload    = "EMPTY_PAYLOAD"
	ErrCodeMissingField    = "MISSING_FIELD"
	ErrCodeInvalidQuantity = "INVALID_QUANTITY"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation that maps to a client error.
// Anything that is not a DomainError is treated as a server-side failure.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewMissingFieldError reports a required QR field that is absent or blank.
func NewMissingFieldError(field string) *DomainError {
	return NewDomainError(ErrCodeMissingField, fmt.Sprintf("QR payload is missing required field %q", field))
}

// Common domain errors
var (
	ErrEmptyPayload    = NewDomainError(ErrCodeEmptyPayload, "QR payload is empty")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be a positive integer")
)
