package event

import (
	"context"
	"fmt"

	"github.com/mkravets/eventhub/internal/application/appcore"
)

// ListEventsByOrganizerUseCase handles the "my events" listing.
type ListEventsByOrganizerUseCase struct {
	eventRepo QueryRepository
}

// NewListEventsByOrganizerUseCase creates a new ListEventsByOrganizerUseCase.
func NewListEventsByOrganizerUseCase(eventRepo QueryRepository) *ListEventsByOrganizerUseCase {
	return &ListEventsByOrganizerUseCase{eventRepo: eventRepo}
}

// Execute performs the listing.
func (uc *ListEventsByOrganizerUseCase) Execute(
	ctx context.Context,
	query ListEventsByOrganizerQuery,
) (ListResult, error) {
	if err := appcore.ValidateUUID("organizerID", query.OrganizerID); err != nil {
		return ListResult{}, fmt.Errorf("validation failed: %w", err)
	}

	page := appcore.NormalizePage(query.Page)
	pageSize := appcore.NormalizePageSize(query.PageSize, DefaultListPageSize)

	views, total, err := uc.eventRepo.ListByOrganizer(
		ctx,
		query.OrganizerID,
		appcore.Skip(page, pageSize),
		pageSize,
	)
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to list events by organizer: %w", err)
	}

	return ListResult{
		Data:       views,
		TotalPages: appcore.TotalPages(total, pageSize),
	}, nil
}
