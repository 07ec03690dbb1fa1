package user

import (
	"context"

	"github.com/mkravets/eventhub/internal/domain/user"
	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// Repository defines the user persistence operations needed by the
// application layer. The interface is declared on the consumer side.
type Repository interface {
	// FindByID finds a user by internal id.
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)

	// FindByExternalID finds a user by the identity-provider subject id.
	FindByExternalID(ctx context.Context, externalID string) (*user.User, error)

	// EnsureByExternalID atomically finds-or-creates the user for an external
	// subject id. The candidate supplies the fields used on insert; an
	// existing record is returned unchanged. The boolean reports whether the
	// record was created by this call.
	EnsureByExternalID(ctx context.Context, candidate *user.User) (*user.User, bool, error)

	// Exists reports whether a user with the given internal id exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// AppendEvent adds an event id to the user's owned-events list.
	// Appending an id that is already present is a no-op.
	AppendEvent(ctx context.Context, userID, eventID uuid.UUID) error
}
