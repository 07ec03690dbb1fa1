package event

import (
	"github.com/mkravets/eventhub/internal/domain/event"
	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// Free-text field limits enforced on create and update.
const (
	MaxDescriptionLength = 400
	MaxLocationLength    = 400
)

// Command is the base interface for event commands.
type Command interface {
	CommandName() string
}

// CreateEventCommand - create an event for an organizer. Path names the
// logical page to revalidate on success.
type CreateEventCommand struct {
	Event       event.Details
	OrganizerID uuid.UUID
	Path        string
}

func (c CreateEventCommand) CommandName() string { return "CreateEvent" }

// UpdateEventCommand - patch an existing event. Only its organizer may
// update it.
type UpdateEventCommand struct {
	EventID     uuid.UUID
	Patch       event.Patch
	RequesterID uuid.UUID
	Path        string
}

func (c UpdateEventCommand) CommandName() string { return "UpdateEvent" }

// DeleteEventCommand - remove an event by id. Deleting an absent id is a
// silent no-op.
type DeleteEventCommand struct {
	EventID uuid.UUID
	Path    string
}

func (c DeleteEventCommand) CommandName() string { return "DeleteEvent" }
