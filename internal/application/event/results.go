package event

import (
	"time"

	"github.com/mkravets/eventhub/internal/application/appcore"
	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// CategoryRef is the populated category snapshot embedded in event views.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// OrganizerRef is the populated organizer snapshot embedded in event views.
type OrganizerRef struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// View is the read-side representation of an event: the raw category and
// organizer foreign keys are replaced with display snapshots. Views are
// plain values and safe to serialize.
type View struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Location      string        `json:"location"`
	URL           string        `json:"url"`
	Price         string        `json:"price"`
	IsFree        bool          `json:"is_free"`
	StartDateTime time.Time     `json:"start_date_time"`
	EndDateTime   time.Time     `json:"end_date_time"`
	ImageURL      string        `json:"image_url"`
	Category      CategoryRef   `json:"category"`
	Organizer     *OrganizerRef `json:"organizer"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Result is the outcome of a single-event operation.
type Result struct {
	appcore.Result[*View]
}

// ListResult is a page of populated events plus the page count for the
// whole match set.
type ListResult struct {
	Data       []*View `json:"data"`
	TotalPages int     `json:"total_pages"`
}
