package user

import (
	"context"
	"fmt"

	"github.com/mkravets/eventhub/internal/application/appcore"
	"github.com/mkravets/eventhub/internal/domain/user"
)

// GetUserUseCase handles fetching a user by internal id.
type GetUserUseCase struct {
	userRepo Repository
}

// NewGetUserUseCase creates a new GetUserUseCase.
func NewGetUserUseCase(userRepo Repository) *GetUserUseCase {
	return &GetUserUseCase{userRepo: userRepo}
}

// Execute performs the lookup.
func (uc *GetUserUseCase) Execute(
	ctx context.Context,
	query GetUserQuery,
) (Result, error) {
	if err := appcore.ValidateUUID("userID", query.UserID); err != nil {
		return Result{}, fmt.Errorf("validation failed: %w", err)
	}

	usr, err := uc.userRepo.FindByID(ctx, query.UserID)
	if err != nil {
		return Result{}, ErrUserNotFound
	}

	return Result{
		Result: appcore.Result[*user.User]{Value: usr},
	}, nil
}
