package appcore_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mkravets/eventhub/internal/application/appcore"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := appcore.NewValidationError("title", "is required")

	if !errors.Is(err, appcore.ErrValidationFailed) {
		t.Errorf("expected validation error to match ErrValidationFailed, got: %v", err)
	}

	wrapped := fmt.Errorf("validation failed: %w", err)
	if !errors.Is(wrapped, appcore.ErrValidationFailed) {
		t.Errorf("expected wrapped validation error to match ErrValidationFailed, got: %v", wrapped)
	}
}

func TestValidationError_CarriesFieldContext(t *testing.T) {
	err := appcore.NewValidationError("description", "must be at most 400 characters")

	var ve *appcore.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected a *ValidationError, got: %v", err)
	}
	if ve.Field != "description" {
		t.Errorf("expected field 'description', got %q", ve.Field)
	}
}
