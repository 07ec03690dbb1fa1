package event

import "github.com/mkravets/eventhub/internal/domain/uuid"

// Default page sizes per listing.
const (
	DefaultListPageSize    = 6
	DefaultRelatedPageSize = 3
)

// Query is the base interface for event queries.
type Query interface {
	QueryName() string
}

// GetEventQuery - fetch one populated event by id.
type GetEventQuery struct {
	EventID uuid.UUID
}

func (q GetEventQuery) QueryName() string { return "GetEvent" }

// ListEventsQuery - paginated listing with optional free-text title search
// and category name filter. A category name that resolves to nothing yields
// an empty result set, not an unfiltered one.
type ListEventsQuery struct {
	Query        string
	CategoryName string
	Page         int
	PageSize     int
}

func (q ListEventsQuery) QueryName() string { return "ListEvents" }

// ListEventsByOrganizerQuery - paginated listing of an organizer's events.
type ListEventsByOrganizerQuery struct {
	OrganizerID uuid.UUID
	Page        int
	PageSize    int
}

func (q ListEventsByOrganizerQuery) QueryName() string { return "ListEventsByOrganizer" }

// ListRelatedEventsQuery - paginated listing of events sharing a category,
// excluding the event being displayed.
type ListRelatedEventsQuery struct {
	CategoryID     uuid.UUID
	ExcludeEventID uuid.UUID
	Page           int
	PageSize       int
}

func (q ListRelatedEventsQuery) QueryName() string { return "ListRelatedEvents" }
