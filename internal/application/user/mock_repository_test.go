package user_test

import (
	"context"
	"sync"

	"github.com/mkravets/eventhub/internal/domain/errs"
	"github.com/mkravets/eventhub/internal/domain/user"
	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// mockUserRepository is an in-memory user.Repository for use case tests.
type mockUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uuid.UUID]*user.User)}
}

func (m *mockUserRepository) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errs.ErrNotFound
}

func (m *mockUserRepository) FindByExternalID(_ context.Context, externalID string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ExternalID() == externalID {
			return u, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *mockUserRepository) EnsureByExternalID(
	_ context.Context,
	candidate *user.User,
) (*user.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ExternalID() == candidate.ExternalID() {
			return u, false, nil
		}
	}
	m.users[candidate.ID()] = candidate
	return candidate, true, nil
}

func (m *mockUserRepository) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	return ok, nil
}

func (m *mockUserRepository) AppendEvent(_ context.Context, userID, eventID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return errs.ErrNotFound
	}
	u.AddEvent(eventID)
	return nil
}

func (m *mockUserRepository) save(u *user.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID()] = u
}
