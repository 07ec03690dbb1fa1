package appcore

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	ErrValidationFailed = errors.New("validation failed")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrNotFound          = errors.New("resource not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrOrganizerNotFound = errors.New("organizer not found")

	ErrAlreadyExists = errors.New("resource already exists")
)

// ValidationError represents a validation error with field context.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap makes every validation error match ErrValidationFailed checks,
// so the HTTP boundary maps them to a 400 rather than a 500.
func (e ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AuthorizationError represents an authorization error.
type AuthorizationError struct {
	UserID   string
	Resource string
	Action   string
}

func (e AuthorizationError) Error() string {
	return fmt.Sprintf("user %s is not authorized to %s on %s", e.UserID, e.Action, e.Resource)
}

// NewAuthorizationError creates an AuthorizationError.
func NewAuthorizationError(userID, resource, action string) error {
	return &AuthorizationError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
	}
}

// NotFoundError represents a "not found" error for a specific resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}
