// Package category contains the category entity. Categories are read-mostly:
// they are seeded once and looked up by name when filtering events.
package category

import (
	"time"

	"github.com/mkravets/eventhub/internal/domain/errs"
	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// Category is a named event classification. Names are unique; lookup is
// case-insensitive.
type Category struct {
	id        uuid.UUID
	name      string
	createdAt time.Time
}

// NewCategory creates a new category.
func NewCategory(name string) (*Category, error) {
	if name == "" {
		return nil, errs.ErrInvalidInput
	}

	return &Category{
		id:        uuid.NewUUID(),
		name:      name,
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct restores a category from storage.
func Reconstruct(id uuid.UUID, name string, createdAt time.Time) *Category {
	return &Category{
		id:        id,
		name:      name,
		createdAt: createdAt,
	}
}

// ID returns the category id.
func (c *Category) ID() uuid.UUID {
	return c.id
}

// Name returns the category name.
func (c *Category) Name() string {
	return c.name
}

// CreatedAt returns the creation time.
func (c *Category) CreatedAt() time.Time {
	return c.createdAt
}
