package event

import (
	"context"
	"fmt"

	"github.com/mkravets/eventhub/internal/application/appcore"
)

// ListRelatedEventsUseCase handles the "related events" listing: same
// category, excluding the event currently displayed.
type ListRelatedEventsUseCase struct {
	eventRepo QueryRepository
}

// NewListRelatedEventsUseCase creates a new ListRelatedEventsUseCase.
func NewListRelatedEventsUseCase(eventRepo QueryRepository) *ListRelatedEventsUseCase {
	return &ListRelatedEventsUseCase{eventRepo: eventRepo}
}

// Execute performs the listing.
func (uc *ListRelatedEventsUseCase) Execute(
	ctx context.Context,
	query ListRelatedEventsQuery,
) (ListResult, error) {
	if err := appcore.ValidateUUID("categoryID", query.CategoryID); err != nil {
		return ListResult{}, fmt.Errorf("validation failed: %w", err)
	}

	page := appcore.NormalizePage(query.Page)
	pageSize := appcore.NormalizePageSize(query.PageSize, DefaultRelatedPageSize)

	views, total, err := uc.eventRepo.ListRelated(
		ctx,
		query.CategoryID,
		query.ExcludeEventID,
		appcore.Skip(page, pageSize),
		pageSize,
	)
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to list related events: %w", err)
	}

	return ListResult{
		Data:       views,
		TotalPages: appcore.TotalPages(total, pageSize),
	}, nil
}
