package model

import "fmt"

// CoercionError reports that user-entered text could not be coerced into the
// declared type. The context set stays untouched when coercion fails.
type CoercionError struct {
	Declared ValueType
	Cause    error
}

func (e *CoercionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("coerce %s: %v", e.Declared, e.Cause)
	}
	return fmt.Sprintf("coerce %s: invalid input", e.Declared)
}

func (e *CoercionError) Unwrap() error { return e.Cause }

// ValidationCode identifies which name-validation check failed.
type ValidationCode string

const (
	EmptyName         ValidationCode = "empty_name"
	InvalidIdentifier ValidationCode = "invalid_identifier"
	DuplicateName     ValidationCode = "duplicate_name"
	ReservedWord      ValidationCode = "reserved_word"
)

// ValidationError reports a rejected field name during the add flow.
type ValidationError struct {
	Code    ValidationCode
	Name    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validate name %q: %s", e.Name, e.Message)
}
