// Package services implements the flow use cases on top of persistence, the
// type catalog and the event bus.
package services

import (
	"errors"
	"fmt"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidSortField   = errors.New("invalid sort field")
	ErrInvalidSortOrder   = errors.New("invalid sort order")
	ErrFlowNil            = errors.New("flow cannot be nil")
	ErrInvalidFlow        = errors.New("invalid flow")
	ErrUnknownTriggerType = errors.New("unknown trigger type")
	ErrUnknownActionType  = errors.New("unknown action type")
	ErrInvalidDetails     = errors.New("invalid trigger or action details")
	ErrEventIDRequired    = errors.New("event id is required")
	ErrTemplateWithEvent  = errors.New("a template cannot be bound to an event")

	// Activation Errors (400 Bad Request).
	ErrTriggersRequired = errors.New("flow must have at least one trigger")
	ErrActionsRequired  = errors.New("flow must have at least one action")

	// Business Logic Conflicts (409 Conflict).
	ErrNotTemplate        = errors.New("flow is not a template")
	ErrTemplateActivation = errors.New("templates cannot be activated")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidSortField) ||
		errors.Is(err, ErrInvalidSortOrder) ||
		errors.Is(err, ErrFlowNil) ||
		errors.Is(err, ErrInvalidFlow) ||
		errors.Is(err, ErrUnknownTriggerType) ||
		errors.Is(err, ErrUnknownActionType) ||
		errors.Is(err, ErrInvalidDetails) ||
		errors.Is(err, ErrEventIDRequired) ||
		errors.Is(err, ErrTemplateWithEvent) ||
		errors.Is(err, ErrTriggersRequired) ||
		errors.Is(err, ErrActionsRequired)
}

// IsConflictError checks if an error is a business logic conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrNotTemplate) ||
		errors.Is(err, ErrTemplateActivation)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
