package user_test

import (
	"context"
	"testing"

	userapp "github.com/mkravets/eventhub/internal/application/user"
	domainuser "github.com/mkravets/eventhub/internal/domain/user"
)

func TestEnsureUserUseCase_CreatesOnFirstSight(t *testing.T) {
	// Arrange
	repo := newMockUserRepository()
	useCase := userapp.NewEnsureUserUseCase(repo)

	cmd := userapp.EnsureUserCommand{
		ExternalID: "ext-42",
		Username:   "jdoe",
		Email:      "jdoe@example.com",
		FirstName:  "John",
		LastName:   "Doe",
	}

	// Act
	result, err := useCase.Execute(context.Background(), cmd)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !result.Created {
		t.Error("expected user to be created on first sight")
	}
	if result.Value.ExternalID() != "ext-42" {
		t.Errorf("expected external id 'ext-42', got %s", result.Value.ExternalID())
	}
}

func TestEnsureUserUseCase_IdempotentOnSecondSight(t *testing.T) {
	// Arrange
	repo := newMockUserRepository()
	useCase := userapp.NewEnsureUserUseCase(repo)

	cmd := userapp.EnsureUserCommand{ExternalID: "ext-42", Username: "jdoe"}

	first, err := useCase.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("first ensure failed: %v", err)
	}

	// Act
	second, err := useCase.Execute(context.Background(), cmd)

	// Assert
	if err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if second.Created {
		t.Error("expected second ensure to find the existing record")
	}
	if second.Value.ID() != first.Value.ID() {
		t.Errorf("expected the same user record, got %s and %s", first.Value.ID(), second.Value.ID())
	}
}

func TestEnsureUserUseCase_PlaceholderNames(t *testing.T) {
	repo := newMockUserRepository()
	useCase := userapp.NewEnsureUserUseCase(repo)

	result, err := useCase.Execute(context.Background(), userapp.EnsureUserCommand{ExternalID: "ext-7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Value.FirstName() != domainuser.PlaceholderFirstName {
		t.Errorf("expected placeholder first name, got %s", result.Value.FirstName())
	}
	if result.Value.LastName() != domainuser.PlaceholderLastName {
		t.Errorf("expected placeholder last name, got %s", result.Value.LastName())
	}
}

func TestEnsureUserUseCase_MissingExternalID(t *testing.T) {
	repo := newMockUserRepository()
	useCase := userapp.NewEnsureUserUseCase(repo)

	_, err := useCase.Execute(context.Background(), userapp.EnsureUserCommand{})
	if err == nil {
		t.Fatal("expected validation error for missing external id")
	}
}
