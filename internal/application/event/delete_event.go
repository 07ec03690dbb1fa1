package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkravets/eventhub/internal/application/appcore"
)

// DeleteEventUseCase handles event removal. Deleting an id that does not
// exist returns without error and triggers no revalidation.
type DeleteEventUseCase struct {
	appcore.BaseUseCase

	eventRepo   CommandRepository
	revalidator PathRevalidator
	logger      *slog.Logger
}

// DeleteEventOption configures DeleteEventUseCase.
type DeleteEventOption func(*DeleteEventUseCase)

// WithDeleteEventLogger sets the logger.
func WithDeleteEventLogger(logger *slog.Logger) DeleteEventOption {
	return func(uc *DeleteEventUseCase) {
		uc.logger = logger
	}
}

// NewDeleteEventUseCase creates a new DeleteEventUseCase.
func NewDeleteEventUseCase(
	eventRepo CommandRepository,
	revalidator PathRevalidator,
	opts ...DeleteEventOption,
) *DeleteEventUseCase {
	uc := &DeleteEventUseCase{
		eventRepo:   eventRepo,
		revalidator: revalidator,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Execute performs the removal.
func (uc *DeleteEventUseCase) Execute(
	ctx context.Context,
	cmd DeleteEventCommand,
) error {
	if err := appcore.ValidateUUID("eventID", cmd.EventID); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	removed, err := uc.eventRepo.Delete(ctx, cmd.EventID)
	if err != nil {
		return uc.WrapError("failed to delete event", err)
	}

	if removed && uc.revalidator != nil && cmd.Path != "" {
		if revErr := uc.revalidator.Revalidate(ctx, cmd.Path); revErr != nil {
			uc.logger.WarnContext(ctx, "failed to revalidate path",
				slog.String("path", cmd.Path),
				slog.String("error", revErr.Error()),
			)
		}
	}

	return nil
}
