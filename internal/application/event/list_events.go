package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkravets/eventhub/internal/application/appcore"
	"github.com/mkravets/eventhub/internal/domain/errs"
)

// ListEventsUseCase handles the public event listing: optional title search,
// optional category name filter, newest first, paginated.
type ListEventsUseCase struct {
	appcore.BaseUseCase

	eventRepo  QueryRepository
	categories CategoryResolver
}

// NewListEventsUseCase creates a new ListEventsUseCase.
func NewListEventsUseCase(eventRepo QueryRepository, categories CategoryResolver) *ListEventsUseCase {
	return &ListEventsUseCase{
		eventRepo:  eventRepo,
		categories: categories,
	}
}

// Execute performs the listing. A category name that resolves to no
// category yields an empty result set rather than dropping the filter.
func (uc *ListEventsUseCase) Execute(
	ctx context.Context,
	query ListEventsQuery,
) (ListResult, error) {
	page := appcore.NormalizePage(query.Page)
	pageSize := appcore.NormalizePageSize(query.PageSize, DefaultListPageSize)

	filter := Filter{
		TitleQuery: query.Query,
		Offset:     appcore.Skip(page, pageSize),
		Limit:      pageSize,
	}

	if query.CategoryName != "" {
		categoryID, err := uc.categories.ResolveName(ctx, query.CategoryName)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return ListResult{Data: []*View{}, TotalPages: 0}, nil
			}
			return ListResult{}, uc.WrapError("failed to resolve category name", err)
		}
		filter.CategoryID = categoryID
	}

	views, total, err := uc.eventRepo.List(ctx, filter)
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to list events: %w", err)
	}

	return ListResult{
		Data:       views,
		TotalPages: appcore.TotalPages(total, pageSize),
	}, nil
}
