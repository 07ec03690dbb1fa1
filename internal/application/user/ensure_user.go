package user

import (
	"context"
	"fmt"

	"github.com/mkravets/eventhub/internal/application/appcore"
	"github.com/mkravets/eventhub/internal/domain/user"
)

// EnsureUserUseCase handles lazy creation of local users for externally
// authenticated subjects. The repository performs an insert-if-absent keyed
// on the external id, so two concurrent first logins resolve to one record.
type EnsureUserUseCase struct {
	userRepo Repository
}

// NewEnsureUserUseCase creates a new EnsureUserUseCase.
func NewEnsureUserUseCase(userRepo Repository) *EnsureUserUseCase {
	return &EnsureUserUseCase{userRepo: userRepo}
}

// Execute performs the find-or-create.
func (uc *EnsureUserUseCase) Execute(
	ctx context.Context,
	cmd EnsureUserCommand,
) (Result, error) {
	if err := uc.validate(cmd); err != nil {
		return Result{}, fmt.Errorf("validation failed: %w", err)
	}

	candidate, err := user.NewUser(cmd.ExternalID, cmd.Username, cmd.Email, cmd.FirstName, cmd.LastName)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build user: %w", err)
	}

	usr, created, err := uc.userRepo.EnsureByExternalID(ctx, candidate)
	if err != nil {
		return Result{}, fmt.Errorf("failed to ensure user: %w", err)
	}

	return Result{
		Result:  appcore.Result[*user.User]{Value: usr},
		Created: created,
	}, nil
}

func (uc *EnsureUserUseCase) validate(cmd EnsureUserCommand) error {
	return appcore.ValidateRequired("externalID", cmd.ExternalID)
}
