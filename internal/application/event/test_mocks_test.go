package event_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	eventapp "github.com/mkravets/eventhub/internal/application/event"
	"github.com/mkravets/eventhub/internal/domain/errs"
	"github.com/mkravets/eventhub/internal/domain/event"
	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// fakeStore is an in-memory implementation of the event repository plus the
// category and organizer collaborators, mirroring the store contract the
// MongoDB implementations provide.
type fakeStore struct {
	mu sync.Mutex

	events     map[uuid.UUID]*event.Event
	seq        int // insertion order, stands in for creation-time ordering
	order      map[uuid.UUID]int
	categories map[uuid.UUID]string
	organizers map[uuid.UUID][2]string
	owned      map[uuid.UUID][]uuid.UUID

	insertErr error
	updateErr error
	findErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:     make(map[uuid.UUID]*event.Event),
		order:      make(map[uuid.UUID]int),
		categories: make(map[uuid.UUID]string),
		organizers: make(map[uuid.UUID][2]string),
		owned:      make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *fakeStore) addCategory(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewUUID()
	s.categories[id] = name
	return id
}

func (s *fakeStore) addOrganizer(first, last string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewUUID()
	s.organizers[id] = [2]string{first, last}
	return id
}

// CommandRepository

func (s *fakeStore) Insert(_ context.Context, e *event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.seq++
	s.events[e.ID()] = e
	s.order[e.ID()] = s.seq
	return nil
}

func (s *fakeStore) Load(_ context.Context, id uuid.UUID) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	// callers mutate the copy; Update persists it
	clone := *e
	return &clone, nil
}

func (s *fakeStore) Update(_ context.Context, e *event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.events[e.ID()]; !ok {
		return errs.ErrNotFound
	}
	s.events[e.ID()] = e
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return false, nil
	}
	delete(s.events, id)
	delete(s.order, id)
	return true, nil
}

// QueryRepository

func (s *fakeStore) FindByID(_ context.Context, id uuid.UUID) (*eventapp.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	e, ok := s.events[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return s.populate(e), nil
}

func (s *fakeStore) List(_ context.Context, filter eventapp.Filter) ([]*eventapp.View, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.sortedEvents(func(e *event.Event) bool {
		if filter.TitleQuery != "" &&
			!strings.Contains(strings.ToLower(e.Title()), strings.ToLower(filter.TitleQuery)) {
			return false
		}
		if !filter.CategoryID.IsZero() && e.CategoryID() != filter.CategoryID {
			return false
		}
		return true
	})

	return s.page(matched, filter.Offset, filter.Limit)
}

func (s *fakeStore) ListByOrganizer(
	_ context.Context,
	organizerID uuid.UUID,
	offset, limit int,
) ([]*eventapp.View, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.sortedEvents(func(e *event.Event) bool {
		return e.OrganizerID() == organizerID
	})
	return s.page(matched, offset, limit)
}

func (s *fakeStore) ListRelated(
	_ context.Context,
	categoryID, excludeEventID uuid.UUID,
	offset, limit int,
) ([]*eventapp.View, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.sortedEvents(func(e *event.Event) bool {
		return e.CategoryID() == categoryID && e.ID() != excludeEventID
	})
	return s.page(matched, offset, limit)
}

func (s *fakeStore) sortedEvents(keep func(*event.Event) bool) []*event.Event {
	var matched []*event.Event
	for _, e := range s.events {
		if keep(e) {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return s.order[matched[i].ID()] > s.order[matched[j].ID()]
	})
	return matched
}

func (s *fakeStore) page(matched []*event.Event, offset, limit int) ([]*eventapp.View, int, error) {
	total := len(matched)
	views := []*eventapp.View{}
	for i := offset; i < total && len(views) < limit; i++ {
		views = append(views, s.populate(matched[i]))
	}
	return views, total, nil
}

func (s *fakeStore) populate(e *event.Event) *eventapp.View {
	view := &eventapp.View{
		ID:            e.ID(),
		Title:         e.Title(),
		Description:   e.Description(),
		Location:      e.Location(),
		URL:           e.URL(),
		Price:         e.Price(),
		IsFree:        e.IsFree(),
		StartDateTime: e.StartDateTime(),
		EndDateTime:   e.EndDateTime(),
		ImageURL:      e.ImageURL(),
		Category: eventapp.CategoryRef{
			ID:   e.CategoryID(),
			Name: s.categories[e.CategoryID()],
		},
		CreatedAt: e.CreatedAt(),
	}
	if names, ok := s.organizers[e.OrganizerID()]; ok {
		view.Organizer = &eventapp.OrganizerRef{
			ID:        e.OrganizerID(),
			FirstName: names[0],
			LastName:  names[1],
		}
	}
	return view
}

// CategoryResolver

func (s *fakeStore) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.categories[id]
	return ok, nil
}

func (s *fakeStore) ResolveName(_ context.Context, name string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type pair struct {
		id   uuid.UUID
		name string
	}
	var candidates []pair
	for id, catName := range s.categories {
		if strings.Contains(strings.ToLower(catName), strings.ToLower(name)) {
			candidates = append(candidates, pair{id, catName})
		}
	}
	if len(candidates) == 0 {
		return "", errs.ErrNotFound
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].name < candidates[j].name })
	return candidates[0].id, nil
}

// organizerDirectory adapts fakeStore to eventapp.OrganizerDirectory;
// Exists on fakeStore is taken by CategoryResolver.
type organizerDirectory struct {
	store *fakeStore
}

func (d organizerDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	_, ok := d.store.organizers[id]
	return ok, nil
}

func (d organizerDirectory) AppendEvent(_ context.Context, userID, eventID uuid.UUID) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	if _, ok := d.store.organizers[userID]; !ok {
		return errs.ErrNotFound
	}
	for _, id := range d.store.owned[userID] {
		if id == eventID {
			return nil
		}
	}
	d.store.owned[userID] = append(d.store.owned[userID], eventID)
	return nil
}

// recordingRevalidator captures revalidated paths.
type recordingRevalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingRevalidator) Revalidate(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return nil
}

func (r *recordingRevalidator) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func validDetails(categoryID uuid.UUID) event.Details {
	start := time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC)
	return event.Details{
		Title:         "Go Conference",
		Description:   "Two days of talks",
		Location:      "Amsterdam",
		Price:         "99.00",
		StartDateTime: start,
		EndDateTime:   start.Add(8 * time.Hour),
		ImageURL:      "https://img.example.com/gc.png",
		CategoryID:    categoryID,
	}
}
