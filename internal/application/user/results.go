package user

import (
	"github.com/mkravets/eventhub/internal/application/appcore"
	"github.com/mkravets/eventhub/internal/domain/user"
)

// Result is the outcome of a single-user operation.
type Result struct {
	appcore.Result[*user.User]

	// Created reports whether the operation created the user record.
	// Only meaningful for EnsureUser.
	Created bool
}
