// Package user contains the user aggregate.
package user

import (
	"time"

	"github.com/mkravets/eventhub/internal/domain/errs"
	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// Placeholder name parts used when the identity provider supplies no profile.
const (
	PlaceholderFirstName = "New"
	PlaceholderLastName  = "User"
)

// User maps an external identity-provider subject to a local record and
// tracks the events the user organizes.
type User struct {
	id         uuid.UUID
	externalID string // subject id from the identity provider (Keycloak, Clerk, etc.)
	username   string
	email      string
	firstName  string
	lastName   string
	eventIDs   []uuid.UUID
	createdAt  time.Time
	updatedAt  time.Time
}

// NewUser creates a new user for an external subject id. Empty name fields
// fall back to placeholders so a lazily created record is still presentable.
func NewUser(externalID, username, email, firstName, lastName string) (*User, error) {
	if externalID == "" {
		return nil, errs.ErrInvalidInput
	}
	if firstName == "" {
		firstName = PlaceholderFirstName
	}
	if lastName == "" {
		lastName = PlaceholderLastName
	}

	now := time.Now().UTC()
	return &User{
		id:         uuid.NewUUID(),
		externalID: externalID,
		username:   username,
		email:      email,
		firstName:  firstName,
		lastName:   lastName,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// Reconstruct restores a user from storage.
func Reconstruct(
	id uuid.UUID,
	externalID, username, email, firstName, lastName string,
	eventIDs []uuid.UUID,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:         id,
		externalID: externalID,
		username:   username,
		email:      email,
		firstName:  firstName,
		lastName:   lastName,
		eventIDs:   eventIDs,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// ID returns the internal id.
func (u *User) ID() uuid.UUID {
	return u.id
}

// ExternalID returns the identity-provider subject id.
func (u *User) ExternalID() string {
	return u.externalID
}

// Username returns the username.
func (u *User) Username() string {
	return u.username
}

// Email returns the email address.
func (u *User) Email() string {
	return u.email
}

// FirstName returns the first name.
func (u *User) FirstName() string {
	return u.firstName
}

// LastName returns the last name.
func (u *User) LastName() string {
	return u.lastName
}

// EventIDs returns the ids of events organized by the user.
func (u *User) EventIDs() []uuid.UUID {
	return u.eventIDs
}

// CreatedAt returns the creation time.
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns the time of the last update.
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// AddEvent records an owned event id. Adding the same id twice is a no-op.
func (u *User) AddEvent(eventID uuid.UUID) {
	for _, id := range u.eventIDs {
		if id == eventID {
			return
		}
	}
	u.eventIDs = append(u.eventIDs, eventID)
	u.updatedAt = time.Now().UTC()
}
