package testutil

import (
	"testing"
	"time"

	"github.com/mkravets/eventhub/internal/domain/category"
	"github.com/mkravets/eventhub/internal/domain/event"
	"github.com/mkravets/eventhub/internal/domain/user"
	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// NewTestUser builds a user with sensible defaults for tests.
func NewTestUser(t *testing.T, externalID string) *user.User {
	t.Helper()

	u, err := user.NewUser(externalID, "testuser", "test@example.com", "Test", "User")
	if err != nil {
		t.Fatalf("failed to build test user: %v", err)
	}
	return u
}

// NewTestCategory builds a category with the given name.
func NewTestCategory(t *testing.T, name string) *category.Category {
	t.Helper()

	c, err := category.NewCategory(name)
	if err != nil {
		t.Fatalf("failed to build test category: %v", err)
	}
	return c
}

// NewTestEvent builds an event in the given category, owned by the given
// organizer.
func NewTestEvent(t *testing.T, title string, categoryID, organizerID uuid.UUID) *event.Event {
	t.Helper()

	start := time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC)
	e, err := event.NewEvent(event.Details{
		Title:         title,
		Description:   "integration test event",
		Location:      "Berlin",
		Price:         "25",
		StartDateTime: start,
		EndDateTime:   start.Add(2 * time.Hour),
		CategoryID:    categoryID,
	}, organizerID)
	if err != nil {
		t.Fatalf("failed to build test event: %v", err)
	}
	return e
}
