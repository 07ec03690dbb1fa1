package user_test

import (
	"testing"

	"github.com/mkravets/eventhub/internal/domain/errs"
	"github.com/mkravets/eventhub/internal/domain/user"
	"github.com/mkravets/eventhub/internal/domain/uuid"
)

func TestNewUser_Success(t *testing.T) {
	u, err := user.NewUser("ext-123", "jdoe", "jdoe@example.com", "John", "Doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u.ID().IsZero() {
		t.Error("expected generated id")
	}
	if u.ExternalID() != "ext-123" {
		t.Errorf("expected external id 'ext-123', got %s", u.ExternalID())
	}
	if u.FirstName() != "John" || u.LastName() != "Doe" {
		t.Errorf("unexpected name: %s %s", u.FirstName(), u.LastName())
	}
	if len(u.EventIDs()) != 0 {
		t.Errorf("expected no owned events, got %d", len(u.EventIDs()))
	}
}

func TestNewUser_EmptyExternalID(t *testing.T) {
	_, err := user.NewUser("", "jdoe", "jdoe@example.com", "John", "Doe")
	if err != errs.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got: %v", err)
	}
}

func TestNewUser_PlaceholderNames(t *testing.T) {
	u, err := user.NewUser("ext-123", "", "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u.FirstName() != user.PlaceholderFirstName {
		t.Errorf("expected placeholder first name, got %s", u.FirstName())
	}
	if u.LastName() != user.PlaceholderLastName {
		t.Errorf("expected placeholder last name, got %s", u.LastName())
	}
}

func TestUser_AddEvent_Idempotent(t *testing.T) {
	u, _ := user.NewUser("ext-123", "jdoe", "jdoe@example.com", "John", "Doe")

	eventID := uuid.NewUUID()
	u.AddEvent(eventID)
	u.AddEvent(eventID)

	if len(u.EventIDs()) != 1 {
		t.Fatalf("expected 1 owned event, got %d", len(u.EventIDs()))
	}
	if u.EventIDs()[0] != eventID {
		t.Errorf("expected %s in owned events", eventID)
	}
}
