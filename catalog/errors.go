package catalog

import (
	"errors"
	"fmt"
)

// ValidationErrorType categorizes metadata validation failures
type ValidationErrorType string

const (
	// ErrorTypeIdentifier marks a format or variant name that cannot be
	// normalized to a canonical identifier.
	ErrorTypeIdentifier ValidationErrorType = "identifier"

	// ErrorTypeFormat marks a format unknown to the catalog (strict mode).
	ErrorTypeFormat ValidationErrorType = "format"

	// ErrorTypeVariant marks a variant the resolved format does not allow.
	ErrorTypeVariant ValidationErrorType = "variant"

	// ErrorTypeMetadata marks a malformed metadata shape.
	ErrorTypeMetadata ValidationErrorType = "metadata"

	// ErrorTypeCatalog marks an inconsistency in the catalog data itself.
	ErrorTypeCatalog ValidationErrorType = "catalog"
)

// ValidationError is raised by the metadata validator in strict mode for
// unknown identifiers or malformed metadata shapes. It includes the error
// type for programmatic handling.
type ValidationError struct {
	Type    ValidationErrorType
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog %s validation error: %s", e.Type, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(errType ValidationErrorType, message string) *ValidationError {
	return &ValidationError{
		Type:    errType,
		Message: message,
	}
}

// IsValidationError checks if an error is a catalog ValidationError
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// IsErrorOfType checks if an error is a ValidationError of the specified type
func IsErrorOfType(err error, errType ValidationErrorType) bool {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Type == errType
	}
	return false
}
