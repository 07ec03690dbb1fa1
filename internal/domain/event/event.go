// Package event contains the event aggregate.
package event

import (
	"errors"
	"time"

	"github.com/mkravets/eventhub/internal/domain/errs"
	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// ErrEndBeforeStart is returned when an event would end before it starts.
var ErrEndBeforeStart = errors.New("event ends before it starts")

// Event is a scheduled happening organized by a user and classified under a
// category. Price is kept as a decimal string and is empty for free events.
type Event struct {
	id            uuid.UUID
	title         string
	description   string
	location      string
	url           string
	price         string
	isFree        bool
	startDateTime time.Time
	endDateTime   time.Time
	imageURL      string
	categoryID    uuid.UUID
	organizerID   uuid.UUID
	createdAt     time.Time
	updatedAt     time.Time
}

// Details carries the caller-supplied fields of an event.
type Details struct {
	Title         string
	Description   string
	Location      string
	URL           string
	Price         string
	IsFree        bool
	StartDateTime time.Time
	EndDateTime   time.Time
	ImageURL      string
	CategoryID    uuid.UUID
}

// Patch carries optional updates to an event. Nil fields are left unchanged.
type Patch struct {
	Title         *string
	Description   *string
	Location      *string
	URL           *string
	Price         *string
	IsFree        *bool
	StartDateTime *time.Time
	EndDateTime   *time.Time
	ImageURL      *string
	CategoryID    *uuid.UUID
}

// NewEvent creates a new event owned by the given organizer.
func NewEvent(details Details, organizerID uuid.UUID) (*Event, error) {
	if details.Title == "" {
		return nil, errs.ErrInvalidInput
	}
	if details.CategoryID.IsZero() || organizerID.IsZero() {
		return nil, errs.ErrInvalidInput
	}
	if details.StartDateTime.IsZero() || details.EndDateTime.IsZero() {
		return nil, errs.ErrInvalidInput
	}
	if details.EndDateTime.Before(details.StartDateTime) {
		return nil, ErrEndBeforeStart
	}

	now := time.Now().UTC()
	return &Event{
		id:            uuid.NewUUID(),
		title:         details.Title,
		description:   details.Description,
		location:      details.Location,
		url:           details.URL,
		price:         details.Price,
		isFree:        details.IsFree,
		startDateTime: details.StartDateTime,
		endDateTime:   details.EndDateTime,
		imageURL:      details.ImageURL,
		categoryID:    details.CategoryID,
		organizerID:   organizerID,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstruct restores an event from storage.
func Reconstruct(
	id uuid.UUID,
	details Details,
	organizerID uuid.UUID,
	createdAt, updatedAt time.Time,
) *Event {
	return &Event{
		id:            id,
		title:         details.Title,
		description:   details.Description,
		location:      details.Location,
		url:           details.URL,
		price:         details.Price,
		isFree:        details.IsFree,
		startDateTime: details.StartDateTime,
		endDateTime:   details.EndDateTime,
		imageURL:      details.ImageURL,
		categoryID:    details.CategoryID,
		organizerID:   organizerID,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ID returns the event id.
func (e *Event) ID() uuid.UUID { return e.id }

// Title returns the title.
func (e *Event) Title() string { return e.title }

// Description returns the description.
func (e *Event) Description() string { return e.description }

// Location returns the location.
func (e *Event) Location() string { return e.location }

// URL returns the free-text URL.
func (e *Event) URL() string { return e.url }

// Price returns the price as a decimal string; empty for free events.
func (e *Event) Price() string { return e.price }

// IsFree reports whether the event is free.
func (e *Event) IsFree() bool { return e.isFree }

// StartDateTime returns the start timestamp.
func (e *Event) StartDateTime() time.Time { return e.startDateTime }

// EndDateTime returns the end timestamp.
func (e *Event) EndDateTime() time.Time { return e.endDateTime }

// ImageURL returns the uploaded image reference.
func (e *Event) ImageURL() string { return e.imageURL }

// CategoryID returns the category foreign key.
func (e *Event) CategoryID() uuid.UUID { return e.categoryID }

// OrganizerID returns the organizer foreign key.
func (e *Event) OrganizerID() uuid.UUID { return e.organizerID }

// CreatedAt returns the creation time.
func (e *Event) CreatedAt() time.Time { return e.createdAt }

// UpdatedAt returns the time of the last update.
func (e *Event) UpdatedAt() time.Time { return e.updatedAt }

// IsOrganizedBy reports whether the given user organizes this event.
func (e *Event) IsOrganizedBy(userID uuid.UUID) bool {
	return e.organizerID == userID
}

// Apply merges a patch into the event. The resulting schedule must still be
// valid: an end timestamp before the start timestamp is rejected.
func (e *Event) Apply(patch Patch) error {
	start := e.startDateTime
	end := e.endDateTime
	if patch.StartDateTime != nil {
		start = *patch.StartDateTime
	}
	if patch.EndDateTime != nil {
		end = *patch.EndDateTime
	}
	if start.IsZero() || end.IsZero() {
		return errs.ErrInvalidInput
	}
	if end.Before(start) {
		return ErrEndBeforeStart
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return errs.ErrInvalidInput
		}
		e.title = *patch.Title
	}
	if patch.Description != nil {
		e.description = *patch.Description
	}
	if patch.Location != nil {
		e.location = *patch.Location
	}
	if patch.URL != nil {
		e.url = *patch.URL
	}
	if patch.Price != nil {
		e.price = *patch.Price
	}
	if patch.IsFree != nil {
		e.isFree = *patch.IsFree
	}
	if patch.ImageURL != nil {
		e.imageURL = *patch.ImageURL
	}
	if patch.CategoryID != nil {
		if patch.CategoryID.IsZero() {
			return errs.ErrInvalidInput
		}
		e.categoryID = *patch.CategoryID
	}
	e.startDateTime = start
	e.endDateTime = end
	e.updatedAt = time.Now().UTC()

	return nil
}
