package category

import (
	"context"
	"fmt"
)

// ListCategoriesUseCase handles listing all categories.
type ListCategoriesUseCase struct {
	categoryRepo Repository
}

// NewListCategoriesUseCase creates a new ListCategoriesUseCase.
func NewListCategoriesUseCase(categoryRepo Repository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{categoryRepo: categoryRepo}
}

// Execute returns all categories sorted by name.
func (uc *ListCategoriesUseCase) Execute(
	ctx context.Context,
	_ ListCategoriesQuery,
) (ListResult, error) {
	categories, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to list categories: %w", err)
	}

	return ListResult{Categories: categories}, nil
}
