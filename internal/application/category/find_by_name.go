package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkravets/eventhub/internal/application/appcore"
	"github.com/mkravets/eventhub/internal/domain/category"
	"github.com/mkravets/eventhub/internal/domain/errs"
)

// FindCategoryByNameUseCase resolves a human-readable category name to a
// category record via case-insensitive partial match.
type FindCategoryByNameUseCase struct {
	categoryRepo Repository
}

// NewFindCategoryByNameUseCase creates a new FindCategoryByNameUseCase.
func NewFindCategoryByNameUseCase(categoryRepo Repository) *FindCategoryByNameUseCase {
	return &FindCategoryByNameUseCase{categoryRepo: categoryRepo}
}

// Execute performs the lookup.
func (uc *FindCategoryByNameUseCase) Execute(
	ctx context.Context,
	query FindCategoryByNameQuery,
) (Result, error) {
	if err := appcore.ValidateRequired("name", query.Name); err != nil {
		return Result{}, fmt.Errorf("validation failed: %w", err)
	}

	cat, err := uc.categoryRepo.FindByName(ctx, query.Name)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Result{}, ErrCategoryNotFound
		}
		return Result{}, fmt.Errorf("failed to look up category: %w", err)
	}

	return Result{
		Result: appcore.Result[*category.Category]{Value: cat},
	}, nil
}
