package appcore

import (
	"fmt"
	"time"

	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// ValidateRequired checks that a string is not empty.
func ValidateRequired(field, value string) error {
	if value == "" {
		return NewValidationError(field, "is required")
	}
	return nil
}

// ValidateUUID checks that a UUID is set.
func ValidateUUID(field string, id uuid.UUID) error {
	if id.IsZero() {
		return NewValidationError(field, "must be a valid UUID")
	}
	return nil
}

// ValidateMaxLength checks the maximum length of a string.
func ValidateMaxLength(field, value string, maxLength int) error {
	if len(value) > maxLength {
		return NewValidationError(field, fmt.Sprintf("must be at most %d characters", maxLength))
	}
	return nil
}

// ValidateTimeSet checks that a timestamp is not the zero value.
func ValidateTimeSet(field string, value time.Time) error {
	if value.IsZero() {
		return NewValidationError(field, "is required")
	}
	return nil
}

// ValidateTimeOrder checks that end does not precede start.
func ValidateTimeOrder(field string, start, end time.Time) error {
	if end.Before(start) {
		return NewValidationError(field, "must not be before the start time")
	}
	return nil
}

