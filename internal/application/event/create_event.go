package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkravets/eventhub/internal/application/appcore"
	"github.com/mkravets/eventhub/internal/domain/event"
)

// CreateEventUseCase handles event creation: the referenced category and
// organizer must exist, the new event id is appended to the organizer's
// owned-events list, and the caller-supplied path is revalidated.
//
// The existence checks, insert, and owned-list append are separate store
// operations with no transaction around them; a crash between steps can
// leave an event missing from its organizer's list.
type CreateEventUseCase struct {
	appcore.BaseUseCase

	eventRepo   Repository
	categories  CategoryResolver
	organizers  OrganizerDirectory
	revalidator PathRevalidator
	logger      *slog.Logger
}

// CreateEventOption configures CreateEventUseCase.
type CreateEventOption func(*CreateEventUseCase)

// WithCreateEventLogger sets the logger.
func WithCreateEventLogger(logger *slog.Logger) CreateEventOption {
	return func(uc *CreateEventUseCase) {
		uc.logger = logger
	}
}

// NewCreateEventUseCase creates a new CreateEventUseCase.
func NewCreateEventUseCase(
	eventRepo Repository,
	categories CategoryResolver,
	organizers OrganizerDirectory,
	revalidator PathRevalidator,
	opts ...CreateEventOption,
) *CreateEventUseCase {
	uc := &CreateEventUseCase{
		eventRepo:   eventRepo,
		categories:  categories,
		organizers:  organizers,
		revalidator: revalidator,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Execute performs the creation and returns the populated event.
func (uc *CreateEventUseCase) Execute(
	ctx context.Context,
	cmd CreateEventCommand,
) (Result, error) {
	if err := uc.validate(cmd); err != nil {
		return Result{}, fmt.Errorf("validation failed: %w", err)
	}

	categoryExists, err := uc.categories.Exists(ctx, cmd.Event.CategoryID)
	if err != nil {
		return Result{}, uc.WrapError("failed to resolve category", err)
	}
	if !categoryExists {
		return Result{}, ErrCategoryNotFound
	}

	organizerExists, err := uc.organizers.Exists(ctx, cmd.OrganizerID)
	if err != nil {
		return Result{}, uc.WrapError("failed to resolve organizer", err)
	}
	if !organizerExists {
		return Result{}, ErrOrganizerNotFound
	}

	evt, err := event.NewEvent(cmd.Event, cmd.OrganizerID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create event: %w", err)
	}

	if insertErr := uc.eventRepo.Insert(ctx, evt); insertErr != nil {
		return Result{}, uc.WrapError("failed to save event", insertErr)
	}

	if appendErr := uc.organizers.AppendEvent(ctx, cmd.OrganizerID, evt.ID()); appendErr != nil {
		return Result{}, uc.WrapError("failed to record owned event", appendErr)
	}

	uc.revalidatePath(ctx, cmd.Path)

	view, err := uc.eventRepo.FindByID(ctx, evt.ID())
	if err != nil {
		return Result{}, uc.WrapError("failed to load created event", err)
	}

	return Result{
		Result: appcore.Result[*View]{Value: view},
	}, nil
}

func (uc *CreateEventUseCase) validate(cmd CreateEventCommand) error {
	if err := appcore.ValidateRequired("title", cmd.Event.Title); err != nil {
		return err
	}
	if err := appcore.ValidateMaxLength("description", cmd.Event.Description, MaxDescriptionLength); err != nil {
		return err
	}
	if err := appcore.ValidateMaxLength("location", cmd.Event.Location, MaxLocationLength); err != nil {
		return err
	}
	if err := appcore.ValidateUUID("categoryID", cmd.Event.CategoryID); err != nil {
		return err
	}
	if err := appcore.ValidateUUID("organizerID", cmd.OrganizerID); err != nil {
		return err
	}
	if err := appcore.ValidateTimeSet("startDateTime", cmd.Event.StartDateTime); err != nil {
		return err
	}
	if err := appcore.ValidateTimeSet("endDateTime", cmd.Event.EndDateTime); err != nil {
		return err
	}
	return appcore.ValidateTimeOrder("endDateTime", cmd.Event.StartDateTime, cmd.Event.EndDateTime)
}

// revalidatePath signals the path refresh. Failure here must not undo a
// committed mutation, so it is logged and swallowed.
func (uc *CreateEventUseCase) revalidatePath(ctx context.Context, path string) {
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
