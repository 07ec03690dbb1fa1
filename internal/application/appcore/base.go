// Package appcore contains shared building blocks for the application layer:
// result wrappers, validation helpers, and common errors.
package appcore

import (
	"context"
	"fmt"
)

// Result wraps a single use case result value.
type Result[T any] struct {
	Value T
}

// BaseUseCase contains common functionality for all use cases.
type BaseUseCase struct{}

// WrapError wraps an error with operation context.
func (b *BaseUseCase) WrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", operation, err)
}

// ValidateContext checks that the context has not been canceled.
func (b *BaseUseCase) ValidateContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
