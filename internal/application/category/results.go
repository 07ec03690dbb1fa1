package category

import (
	"github.com/mkravets/eventhub/internal/application/appcore"
	"github.com/mkravets/eventhub/internal/domain/category"
)

// Result is the outcome of a single-category operation.
type Result struct {
	appcore.Result[*category.Category]
}

// ListResult is the outcome of a category listing.
type ListResult struct {
	Categories []*category.Category
}
