package category

import (
	"context"

	"github.com/mkravets/eventhub/internal/domain/category"
	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// Repository defines the category persistence operations needed by the
// application layer. The interface is declared on the consumer side.
type Repository interface {
	// FindByID finds a category by id.
	FindByID(ctx context.Context, id uuid.UUID) (*category.Category, error)

	// FindByName finds the first category whose name contains the given
	// string, matched case-insensitively. Ties break on ascending name
	// order so repeated lookups are deterministic.
	FindByName(ctx context.Context, name string) (*category.Category, error)

	// List returns all categories sorted by name.
	List(ctx context.Context) ([]*category.Category, error)

	// Save persists a category. Used by seeding tooling.
	Save(ctx context.Context, c *category.Category) error
}
