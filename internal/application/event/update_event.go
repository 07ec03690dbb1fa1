package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mkravets/eventhub/internal/application/appcore"
	"github.com/mkravets/eventhub/internal/domain/errs"
)

// UpdateEventUseCase handles patching an event. Only the organizer may
// update it; a patched category reference is re-validated against the store.
type UpdateEventUseCase struct {
	appcore.BaseUseCase

	eventRepo   Repository
	categories  CategoryResolver
	revalidator PathRevalidator
	logger      *slog.Logger
}

// UpdateEventOption configures UpdateEventUseCase.
type UpdateEventOption func(*UpdateEventUseCase)

// WithUpdateEventLogger sets the logger.
func WithUpdateEventLogger(logger *slog.Logger) UpdateEventOption {
	return func(uc *UpdateEventUseCase) {
		uc.logger = logger
	}
}

// NewUpdateEventUseCase creates a new UpdateEventUseCase.
func NewUpdateEventUseCase(
	eventRepo Repository,
	categories CategoryResolver,
	revalidator PathRevalidator,
	opts ...UpdateEventOption,
) *UpdateEventUseCase {
	uc := &UpdateEventUseCase{
		eventRepo:   eventRepo,
		categories:  categories,
		revalidator: revalidator,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Execute performs the update and returns the populated event.
func (uc *UpdateEventUseCase) Execute(
	ctx context.Context,
	cmd UpdateEventCommand,
) (Result, error) {
	if err := uc.validate(cmd); err != nil {
		return Result{}, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := uc.eventRepo.Load(ctx, cmd.EventID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Result{}, ErrEventNotFound
		}
		return Result{}, uc.WrapError("failed to load event", err)
	}

	if !existing.IsOrganizedBy(cmd.RequesterID) {
		return Result{}, ErrNotOrganizer
	}

	if cmd.Patch.CategoryID != nil {
		categoryExists, catErr := uc.categories.Exists(ctx, *cmd.Patch.CategoryID)
		if catErr != nil {
			return Result{}, uc.WrapError("failed to resolve category", catErr)
		}
		if !categoryExists {
			return Result{}, ErrCategoryNotFound
		}
	}

	if applyErr := existing.Apply(cmd.Patch); applyErr != nil {
		return Result{}, fmt.Errorf("failed to apply patch: %w", applyErr)
	}

	if updateErr := uc.eventRepo.Update(ctx, existing); updateErr != nil {
		return Result{}, uc.WrapError("failed to save event", updateErr)
	}

	uc.revalidatePath(ctx, cmd.Path)

	view, err := uc.eventRepo.FindByID(ctx, existing.ID())
	if err != nil {
		return Result{}, uc.WrapError("failed to load updated event", err)
	}

	return Result{
		Result: appcore.Result[*View]{Value: view},
	}, nil
}

func (uc *UpdateEventUseCase) validate(cmd UpdateEventCommand) error {
	if err := appcore.ValidateUUID("eventID", cmd.EventID); err != nil {
		return err
	}
	if err := appcore.ValidateUUID("requesterID", cmd.RequesterID); err != nil {
		return err
	}
	if cmd.Patch.Description != nil {
		if err := appcore.ValidateMaxLength("description", *cmd.Patch.Description, MaxDescriptionLength); err != nil {
			return err
		}
	}
	if cmd.Patch.Location != nil {
		if err := appcore.ValidateMaxLength("location", *cmd.Patch.Location, MaxLocationLength); err != nil {
			return err
		}
	}
	return nil
}

func (uc *UpdateEventUseCase) revalidatePath(ctx context.Context, path string) {
	if uc.revalidator == nil || path == "" {
		return
	}
	if err := uc.revalidator.Revalidate(ctx, path); err != nil {
		uc.logger.WarnContext(ctx, "failed to revalidate path",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
}
