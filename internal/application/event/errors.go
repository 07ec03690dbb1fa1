package event

import "errors"

var (
	// ErrEventNotFound is returned when an event cannot be found
	ErrEventNotFound = errors.New("event not found")

	// ErrCategoryNotFound is returned when a referenced category does not exist
	ErrCategoryNotFound = errors.New("category not found")

	// ErrOrganizerNotFound is returned when the organizer does not exist
	ErrOrganizerNotFound = errors.New("organizer not found")

	// ErrNotOrganizer is returned when a mutation is attempted by a user who
	// is not the event's organizer
	ErrNotOrganizer = errors.New("requester is not the event organizer")
)
