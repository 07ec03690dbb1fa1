package user

import "github.com/mkravets/eventhub/internal/domain/uuid"

// Query is the base interface for user queries.
type Query interface {
	QueryName() string
}

// GetUserQuery - fetch a user by internal id.
type GetUserQuery struct {
	UserID uuid.UUID
}

func (q GetUserQuery) QueryName() string { return "GetUser" }
