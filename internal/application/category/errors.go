package category

import "errors"

var (
	// ErrCategoryNotFound is returned when no category matches a lookup
	ErrCategoryNotFound = errors.New("category not found")
)
