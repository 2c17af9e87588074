package service

import "fmt"

// ValidationError reports invalid input on a request. Handlers map it to a
// 400 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError formats a validation failure.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// OverlapError reports that a booking collides with an existing one for the
// same user and project. It is a validation failure from the caller's point
// of view and maps to a 400 response.
type OverlapError struct {
	Message string
}

func (e *OverlapError) Error() string {
	return e.Message
}

// NotFoundError reports a missing entity and maps to a 404 response.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// IntegrationError reports a failure talking to an external ticket system.
// The local state is described by Message; handlers map it to a 500 response.
type IntegrationError struct {
	Message string
	Err     error
}

func (e *IntegrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *IntegrationError) Unwrap() error {
	return e.Err
}
