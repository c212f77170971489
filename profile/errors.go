package profile

import (
	"errors"
	"fmt"
)

// StoreErrorType categorizes profile store failures
type StoreErrorType string

const (
	// ErrorTypeDuplicateProfile marks a profile name already in use.
	ErrorTypeDuplicateProfile StoreErrorType = "duplicate_profile"

	// ErrorTypeDuplicateConfig marks a config identifier already indexed,
	// locally or in any other registered profile.
	ErrorTypeDuplicateConfig StoreErrorType = "duplicate_config"

	// ErrorTypeUnknownProfile marks an update against an unregistered name.
	ErrorTypeUnknownProfile StoreErrorType = "unknown_profile"

	// ErrorTypeUnknownConfig marks a removal of an absent config identifier.
	ErrorTypeUnknownConfig StoreErrorType = "unknown_config"

	// ErrorTypeMutatorResult marks a mutator that returned no profile.
	ErrorTypeMutatorResult StoreErrorType = "mutator_result"

	// ErrorTypeInvalidProfile marks a structurally invalid profile or config.
	ErrorTypeInvalidProfile StoreErrorType = "invalid_profile"
)

// StoreError is raised synchronously by mutating store calls. Store errors
// never leave the store in a half-updated state: identifier collisions
// indicate a configuration authoring bug that must be visible immediately.
type StoreError struct {
	Type    StoreErrorType
	Message string
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return fmt.Sprintf("profile store %s error: %s", e.Type, e.Message)
}

// NewStoreError creates a new StoreError
func NewStoreError(errType StoreErrorType, message string) *StoreError {
	return &StoreError{
		Type:    errType,
		Message: message,
	}
}

// IsErrorOfType checks if an error is a StoreError of the specified type
func IsErrorOfType(err error, errType StoreErrorType) bool {
	var sErr *StoreError
	if errors.As(err, &sErr) {
		return sErr.Type == errType
	}
	return false
}
