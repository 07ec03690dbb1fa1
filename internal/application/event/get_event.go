package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkravets/eventhub/internal/application/appcore"
	"github.com/mkravets/eventhub/internal/domain/errs"
)

// GetEventUseCase handles fetching one populated event.
type GetEventUseCase struct {
	eventRepo QueryRepository
}

// NewGetEventUseCase creates a new GetEventUseCase.
func NewGetEventUseCase(eventRepo QueryRepository) *GetEventUseCase {
	return &GetEventUseCase{eventRepo: eventRepo}
}

// Execute performs the lookup.
func (uc *GetEventUseCase) Execute(
	ctx context.Context,
	query GetEventQuery,
) (Result, error) {
	if err := appcore.ValidateUUID("eventID", query.EventID); err != nil {
		return Result{}, fmt.Errorf("validation failed: %w", err)
	}

	view, err := uc.eventRepo.FindByID(ctx, query.EventID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Result{}, ErrEventNotFound
		}
		return Result{}, fmt.Errorf("failed to load event: %w", err)
	}

	return Result{
		Result: appcore.Result[*View]{Value: view},
	}, nil
}
