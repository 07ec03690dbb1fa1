package event

import (
	"context"

	"github.com/mkravets/eventhub/internal/domain/event"
	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// Filter narrows an event listing. Zero values disable the corresponding
// condition, except CategoryID which must be pre-resolved by the caller.
type Filter struct {
	// TitleQuery matches event titles by case-insensitive substring.
	TitleQuery string

	// CategoryID restricts results to one category when set.
	CategoryID uuid.UUID

	Offset int
	Limit  int
}

// CommandRepository defines the state-changing event persistence operations.
// The interface is declared on the consumer side (application layer).
type CommandRepository interface {
	// Insert stores a new event.
	Insert(ctx context.Context, e *event.Event) error

	// Load fetches the raw aggregate for mutation.
	Load(ctx context.Context, id uuid.UUID) (*event.Event, error)

	// Update persists a mutated aggregate.
	Update(ctx context.Context, e *event.Event) error

	// Delete removes an event by id. It reports whether a document was
	// actually removed; deleting an absent id is not an error.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// QueryRepository defines the read-side event operations. Every returned
// value carries the populated category and organizer snapshots.
type QueryRepository interface {
	// FindByID fetches one populated event.
	FindByID(ctx context.Context, id uuid.UUID) (*View, error)

	// List returns a page of populated events matching the filter, newest
	// first, together with the total match count.
	List(ctx context.Context, filter Filter) ([]*View, int, error)

	// ListByOrganizer returns a page of the organizer's events, newest
	// first, together with the total match count.
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID, offset, limit int) ([]*View, int, error)

	// ListRelated returns a page of events sharing a category, excluding
	// one event id, newest first, together with the total match count.
	ListRelated(ctx context.Context, categoryID, excludeEventID uuid.UUID, offset, limit int) ([]*View, int, error)
}

// Repository combines the command and query interfaces for use cases that
// need both sides.
type Repository interface {
	CommandRepository
	QueryRepository
}

// CategoryResolver resolves category references for event operations.
type CategoryResolver interface {
	// Exists reports whether a category with the given id exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// ResolveName resolves a case-insensitive partial category name to its
	// id. Returns errs.ErrNotFound when nothing matches.
	ResolveName(ctx context.Context, name string) (uuid.UUID, error)
}

// OrganizerDirectory exposes the user-side operations event mutations need.
type OrganizerDirectory interface {
	// Exists reports whether a user with the given id exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// AppendEvent adds an event id to the user's owned-events list.
	AppendEvent(ctx context.Context, userID, eventID uuid.UUID) error
}

// PathRevalidator signals downstream caches and pages that a logical path
// must be refreshed after a successful mutation.
type PathRevalidator interface {
	Revalidate(ctx context.Context, path string) error
}
