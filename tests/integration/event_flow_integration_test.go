//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventapp "github.com/mkravets/eventhub/internal/application/event"
	eventdomain "github.com/mkravets/eventhub/internal/domain/event"
	"github.com/mkravets/eventhub/internal/domain/uuid"
	"github.com/mkravets/eventhub/internal/infrastructure/revalidate"
	"github.com/mkravets/eventhub/tests/testutil"
)

const noticeTimeout = 5 * time.Second

// startBus wires a publisher and a subscriber bus over the same Redis
// instance and returns the channel on which received notices arrive.
func startBus(t *testing.T) (*revalidate.RedisBus, <-chan revalidate.Notice) {
	t.Helper()

	client := testutil.SetupTestRedis(t)
	channel := "revalidate:" + uuid.NewUUID().String()

	bus := revalidate.NewRedisBus(client, revalidate.WithChannel(channel))
	notices := make(chan revalidate.Notice, 8)
	require.NoError(t, bus.Subscribe(func(_ context.Context, n revalidate.Notice) error {
		notices <- n
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		_ = bus.Shutdown()
		<-done
	})

	// Give the subscription a moment to establish before publishing.
	require.Eventually(t, bus.IsRunning, noticeTimeout, 10*time.Millisecond)

	return bus, notices
}

func waitForNotice(t *testing.T, notices <-chan revalidate.Notice) revalidate.Notice {
	t.Helper()
	select {
	case n := <-notices:
		return n
	case <-time.After(noticeTimeout):
		t.Fatal("timed out waiting for revalidation notice")
		return revalidate.Notice{}
	}
}

func TestEventLifecycle_PublishesRevalidationNotices(t *testing.T) {
	r := setupRepos(t)
	bus, notices := startBus(t)
	ctx := context.Background()

	cat := testutil.NewTestCategory(t, "Technology")
	require.NoError(t, r.categories.Save(ctx, cat))

	organizer, _, err := r.users.EnsureByExternalID(ctx, testutil.NewTestUser(t, "flow-organizer"))
	require.NoError(t, err)

	create := eventapp.NewCreateEventUseCase(r.events, r.categories, r.users, bus)
	update := eventapp.NewUpdateEventUseCase(r.events, r.categories, bus)
	del := eventapp.NewDeleteEventUseCase(r.events, bus)

	start := time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC)
	created, err := create.Execute(ctx, eventapp.CreateEventCommand{
		Event: eventdomain.Details{
			Title:         "Flow Conference",
			Description:   "End to end lifecycle",
			Location:      "Berlin",
			Price:         "25",
			StartDateTime: start,
			EndDateTime:   start.Add(2 * time.Hour),
			CategoryID:    cat.ID(),
		},
		OrganizerID: organizer.ID(),
		Path:        "/events",
	})
	require.NoError(t, err)
	require.NotNil(t, created.Value)
	assert.Equal(t, "Flow Conference", created.Value.Title)
	assert.Equal(t, "Technology", created.Value.Category.Name)

	notice := waitForNotice(t, notices)
	assert.Equal(t, "/events", notice.Path)
	assert.NotEmpty(t, notice.ID)

	// The new event is appended to the organizer's event list.
	refreshed, err := r.users.FindByID(ctx, organizer.ID())
	require.NoError(t, err)
	assert.Contains(t, refreshed.EventIDs(), created.Value.ID)

	newTitle := "Flow Conference 2026"
	updated, err := update.Execute(ctx, eventapp.UpdateEventCommand{
		EventID:     created.Value.ID,
		Patch:       eventdomain.Patch{Title: &newTitle},
		RequesterID: organizer.ID(),
		Path:        "/events/" + created.Value.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Value.Title)
	assert.Equal(t, "/events/"+created.Value.ID.String(), waitForNotice(t, notices).Path)

	require.NoError(t, del.Execute(ctx, eventapp.DeleteEventCommand{
		EventID: created.Value.ID,
		Path:    "/profile",
	}))
	assert.Equal(t, "/profile", waitForNotice(t, notices).Path)

	_, err = r.events.FindByID(ctx, created.Value.ID)
	require.Error(t, err)
}

func TestUpdateEvent_RejectsNonOrganizer(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	cat := testutil.NewTestCategory(t, "Technology")
	require.NoError(t, r.categories.Save(ctx, cat))

	organizer, _, err := r.users.EnsureByExternalID(ctx, testutil.NewTestUser(t, "owner"))
	require.NoError(t, err)
	stranger, _, err := r.users.EnsureByExternalID(ctx, testutil.NewTestUser(t, "stranger"))
	require.NoError(t, err)

	ev := testutil.NewTestEvent(t, "Guarded", cat.ID(), organizer.ID())
	require.NoError(t, r.events.Insert(ctx, ev))

	update := eventapp.NewUpdateEventUseCase(r.events, r.categories, noopRevalidator{})

	newTitle := "Hijacked"
	_, err = update.Execute(ctx, eventapp.UpdateEventCommand{
		EventID:     ev.ID(),
		Patch:       eventdomain.Patch{Title: &newTitle},
		RequesterID: stranger.ID(),
		Path:        "/events",
	})
	assert.ErrorIs(t, err, eventapp.ErrNotOrganizer)

	view, err := r.events.FindByID(ctx, ev.ID())
	require.NoError(t, err)
	assert.Equal(t, "Guarded", view.Title)
}

type noopRevalidator struct{}

func (noopRevalidator) Revalidate(context.Context, string) error { return nil }
