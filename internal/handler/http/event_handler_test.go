package httphandler_test

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/eventhub/internal/application/appcore"
	eventapp "github.com/mkravets/eventhub/internal/application/event"
	"github.com/mkravets/eventhub/internal/domain/uuid"
	httphandler "github.com/mkravets/eventhub/internal/handler/http"
	"github.com/mkravets/eventhub/internal/infrastructure/httpserver"
	"github.com/mkravets/eventhub/internal/middleware"
)

// mockEventService records calls and returns canned results.
type mockEventService struct {
	createCmd  *eventapp.CreateEventCommand
	updateCmd  *eventapp.UpdateEventCommand
	deleteCmd  *eventapp.DeleteEventCommand
	listQuery  *eventapp.ListEventsQuery
	mineQuery  *eventapp.ListEventsByOrganizerQuery
	relQuery   *eventapp.ListRelatedEventsQuery
	view       *eventapp.View
	listResult eventapp.ListResult
	err        error
}

func (m *mockEventService) CreateEvent(_ context.Context, cmd eventapp.CreateEventCommand) (eventapp.Result, error) {
	m.createCmd = &cmd
	return eventapp.Result{Result: appcore.Result[*eventapp.View]{Value: m.view}}, m.err
}

func (m *mockEventService) UpdateEvent(_ context.Context, cmd eventapp.UpdateEventCommand) (eventapp.Result, error) {
	m.updateCmd = &cmd
	return eventapp.Result{Result: appcore.Result[*eventapp.View]{Value: m.view}}, m.err
}

func (m *mockEventService) DeleteEvent(_ context.Context, cmd eventapp.DeleteEventCommand) error {
	m.deleteCmd = &cmd
	return m.err
}

func (m *mockEventService) GetEvent(_ context.Context, _ eventapp.GetEventQuery) (eventapp.Result, error) {
	return eventapp.Result{Result: appcore.Result[*eventapp.View]{Value: m.view}}, m.err
}

func (m *mockEventService) ListEvents(_ context.Context, query eventapp.ListEventsQuery) (eventapp.ListResult, error) {
	m.listQuery = &query
	return m.listResult, m.err
}

func (m *mockEventService) ListEventsByOrganizer(
	_ context.Context,
	query eventapp.ListEventsByOrganizerQuery,
) (eventapp.ListResult, error) {
	m.mineQuery = &query
	return m.listResult, m.err
}

func (m *mockEventService) ListRelatedEvents(
	_ context.Context,
	query eventapp.ListRelatedEventsQuery,
) (eventapp.ListResult, error) {
	m.relQuery = &query
	return m.listResult, m.err
}

func setupAuthContext(c echo.Context, userID uuid.UUID) {
	c.Set(string(middleware.ContextKeyUserID), userID)
	c.Set(string(middleware.ContextKeyUsername), "testuser")
	c.Set(string(middleware.ContextKeyEmail), "test@example.com")
}

func sampleView() *eventapp.View {
	return &eventapp.View{
		ID:            uuid.NewUUID(),
		Title:         "Go Conference",
		StartDateTime: time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC),
		EndDateTime:   time.Date(2026, 10, 3, 21, 0, 0, 0, time.UTC),
		Category:      eventapp.CategoryRef{ID: uuid.NewUUID(), Name: "Technology"},
		Organizer:     &eventapp.OrganizerRef{ID: uuid.NewUUID(), FirstName: "Jane", LastName: "Doe"},
		CreatedAt:     time.Now(),
	}
}

func createEventBody(categoryID uuid.UUID) string {
	return `{
		"title": "Go Conference",
		"description": "A day of talks",
		"category_id": "` + categoryID.String() + `",
		"start_date_time": "2026-10-03T19:00:00Z",
		"end_date_time": "2026-10-03T21:00:00Z"
	}`
}

func TestEventHandler_Create(t *testing.T) {
	t.Run("successful create", func(t *testing.T) {
		e := echo.New()
		userID := uuid.NewUUID()
		categoryID := uuid.NewUUID()

		service := &mockEventService{view: sampleView()}
		handler := httphandler.NewEventHandler(service)

		req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/events", strings.NewReader(createEventBody(categoryID)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		setupAuthContext(c, userID)

		err := handler.Create(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusCreated, rec.Code)

		var resp httpserver.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		require.NotNil(t, service.createCmd)
		assert.Equal(t, "Go Conference", service.createCmd.Event.Title)
		assert.Equal(t, categoryID, service.createCmd.Event.CategoryID)
		assert.Equal(t, userID, service.createCmd.OrganizerID)
		assert.Equal(t, "/events", service.createCmd.Path)
	})

	t.Run("missing auth", func(t *testing.T) {
		e := echo.New()
		service := &mockEventService{view: sampleView()}
		handler := httphandler.NewEventHandler(service)

		req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/events",
			strings.NewReader(createEventBody(uuid.NewUUID())))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
		assert.Nil(t, service.createCmd)
	})

	t.Run("missing title", func(t *testing.T) {
		e := echo.New()
		service := &mockEventService{view: sampleView()}
		handler := httphandler.NewEventHandler(service)

		body := `{"category_id": "` + uuid.NewUUID().String() + `"}`
		req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/events", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		setupAuthContext(c, uuid.NewUUID())

		err := handler.Create(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("invalid category id", func(t *testing.T) {
		e := echo.New()
		service := &mockEventService{view: sampleView()}
		handler := httphandler.NewEventHandler(service)

		body := `{"title": "Go Conference", "category_id": "not-a-uuid",
			"start_date_time": "2026-10-03T19:00:00Z", "end_date_time": "2026-10-03T21:00:00Z"}`
		req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/events", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		setupAuthContext(c, uuid.NewUUID())

		err := handler.Create(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_CATEGORY_ID")
	})

	t.Run("invalid start date", func(t *testing.T) {
		e := echo.New()
		service := &mockEventService{view: sampleView()}
		handler := httphandler.NewEventHandler(service)

		body := `{"title": "Go Conference", "category_id": "` + uuid.NewUUID().String() + `",
			"start_date_time": "03.10.2026", "end_date_time": "2026-10-03T21:00:00Z"}`
		req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/events", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		setupAuthContext(c, uuid.NewUUID())

		err := handler.Create(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_START_DATE")
	})

	t.Run("unknown category maps to 422", func(t *testing.T) {
		e := echo.New()
		service := &mockEventService{err: eventapp.ErrCategoryNotFound}
		handler := httphandler.NewEventHandler(service)

		req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/events",
			strings.NewReader(createEventBody(uuid.NewUUID())))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		setupAuthContext(c, uuid.NewUUID())

		err := handler.Create(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	})
}

func TestEventHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		e := echo.New()
		view := sampleView()
		service := &mockEventService{view: view}
		handler := httphandler.NewEventHandler(service)

		req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/events/"+view.ID.String(), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(view.ID.String())

		err := handler.Get(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Go Conference")
		assert.Contains(t, rec.Body.String(), "Technology")
	})

	t.Run("invalid id", func(t *testing.T) {
		e := echo.New()
		handler := httphandler.NewEventHandler(&mockEventService{})

		req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/events/nope", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("nope")

		err := handler.Get(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		e := echo.New()
		service := &mockEventService{err: eventapp.ErrEventNotFound}
		handler := httphandler.NewEventHandler(service)

		eventID := uuid.NewUUID()
		req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/events/"+eventID.String(), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(eventID.String())

		err := handler.Get(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "EVENT_NOT_FOUND")
	})
}

func TestEventHandler_List(t *testing.T) {
	t.Run("passes search and category filters", func(t *testing.T) {
		e := echo.New()
		service := &mockEventService{
			listResult: eventapp.ListResult{Data: []*eventapp.View{sampleView()}, TotalPages: 1},
		}
		handler := httphandler.NewEventHandler(service)

		req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/events?query=conference&category=tech&page=3", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.List(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusOK, rec.Code)

		require.NotNil(t, service.listQuery)
		assert.Equal(t, "conference", service.listQuery.Query)
		assert.Equal(t, "tech", service.listQuery.CategoryName)
		assert.Equal(t, 3, service.listQuery.Page)
	})

	t.Run("invalid page defaults to 1", func(t *testing.T) {
		e := echo.New()
		service := &mockEventService{listResult: eventapp.ListResult{Data: []*eventapp.View{}}}
		handler := httphandler.NewEventHandler(service)

		req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/events?page=banana", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.List(c)
		require.NoError(t, err)
		require.NotNil(t, service.listQuery)
		assert.Equal(t, 1, service.listQuery.Page)
	})

	t.Run("passes page_size through", func(t *testing.T) {
		e := echo.New()
		service := &mockEventService{listResult: eventapp.ListResult{Data: []*eventapp.View{}}}
		handler := httphandler.NewEventHandler(service)

		req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/events?page_size=12", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.List(c)
		require.NoError(t, err)
		require.NotNil(t, service.listQuery)
		assert.Equal(t, 12, service.listQuery.PageSize)
	})

	t.Run("invalid page_size leaves the default to the service", func(t *testing.T) {
		e := echo.New()
		service := &mockEventService{listResult: eventapp.ListResult{Data: []*eventapp.View{}}}
		handler := httphandler.NewEventHandler(service)

		req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/events?page_size=-5", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.List(c)
		require.NoError(t, err)
		require.NotNil(t, service.listQuery)
		assert.Equal(t, 0, service.listQuery.PageSize)
	})
}

func TestEventHandler_ListRelated(t *testing.T) {
	e := echo.New()
	view := sampleView()
	service := &mockEventService{
		view:       view,
		listResult: eventapp.ListResult{Data: []*eventapp.View{}, TotalPages: 0},
	}
	handler := httphandler.NewEventHandler(service)

	req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/events/"+view.ID.String()+"/related?page_size=9", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(view.ID.String())

	err := handler.ListRelated(c)
	require.NoError(t, err)
	assert.Equal(t, stdhttp.StatusOK, rec.Code)

	require.NotNil(t, service.relQuery)
	assert.Equal(t, view.Category.ID, service.relQuery.CategoryID)
	assert.Equal(t, view.ID, service.relQuery.ExcludeEventID)
	assert.Equal(t, 9, service.relQuery.PageSize)
}

func TestEventHandler_ListMine(t *testing.T) {
	t.Run("lists own events", func(t *testing.T) {
		e := echo.New()
		userID := uuid.NewUUID()
		service := &mockEventService{listResult: eventapp.ListResult{Data: []*eventapp.View{sampleView()}}}
		handler := httphandler.NewEventHandler(service)

		req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/users/me/events?page=2&page_size=4", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		setupAuthContext(c, userID)

		err := handler.ListMine(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusOK, rec.Code)

		require.NotNil(t, service.mineQuery)
		assert.Equal(t, userID, service.mineQuery.OrganizerID)
		assert.Equal(t, 2, service.mineQuery.Page)
		assert.Equal(t, 4, service.mineQuery.PageSize)
	})

	t.Run("missing auth", func(t *testing.T) {
		e := echo.New()
		handler := httphandler.NewEventHandler(&mockEventService{})

		req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/users/me/events", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.ListMine(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
	})
}

func TestEventHandler_Update(t *testing.T) {
	t.Run("partial update builds patch", func(t *testing.T) {
		e := echo.New()
		userID := uuid.NewUUID()
		eventID := uuid.NewUUID()
		service := &mockEventService{view: sampleView()}
		handler := httphandler.NewEventHandler(service)

		body := `{"title": "Renamed", "is_free": true}`
		req := httptest.NewRequest(stdhttp.MethodPut, "/api/v1/events/"+eventID.String(), strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(eventID.String())
		setupAuthContext(c, userID)

		err := handler.Update(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusOK, rec.Code)

		require.NotNil(t, service.updateCmd)
		assert.Equal(t, eventID, service.updateCmd.EventID)
		assert.Equal(t, userID, service.updateCmd.RequesterID)
		require.NotNil(t, service.updateCmd.Patch.Title)
		assert.Equal(t, "Renamed", *service.updateCmd.Patch.Title)
		require.NotNil(t, service.updateCmd.Patch.IsFree)
		assert.True(t, *service.updateCmd.Patch.IsFree)
		assert.Nil(t, service.updateCmd.Patch.Description)
		assert.Nil(t, service.updateCmd.Patch.CategoryID)
	})

	t.Run("non-organizer maps to 403", func(t *testing.T) {
		e := echo.New()
		eventID := uuid.NewUUID()
		service := &mockEventService{err: eventapp.ErrNotOrganizer}
		handler := httphandler.NewEventHandler(service)

		body := `{"title": "Renamed"}`
		req := httptest.NewRequest(stdhttp.MethodPut, "/api/v1/events/"+eventID.String(), strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(eventID.String())
		setupAuthContext(c, uuid.NewUUID())

		err := handler.Update(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "NOT_ORGANIZER")
	})

	t.Run("empty title rejected", func(t *testing.T) {
		e := echo.New()
		eventID := uuid.NewUUID()
		service := &mockEventService{view: sampleView()}
		handler := httphandler.NewEventHandler(service)

		body := `{"title": ""}`
		req := httptest.NewRequest(stdhttp.MethodPut, "/api/v1/events/"+eventID.String(), strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(eventID.String())
		setupAuthContext(c, uuid.NewUUID())

		err := handler.Update(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	})
}

func TestEventHandler_Delete(t *testing.T) {
	t.Run("successful delete", func(t *testing.T) {
		e := echo.New()
		eventID := uuid.NewUUID()
		service := &mockEventService{}
		handler := httphandler.NewEventHandler(service)

		req := httptest.NewRequest(stdhttp.MethodDelete, "/api/v1/events/"+eventID.String(), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(eventID.String())
		setupAuthContext(c, uuid.NewUUID())

		err := handler.Delete(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusNoContent, rec.Code)

		require.NotNil(t, service.deleteCmd)
		assert.Equal(t, eventID, service.deleteCmd.EventID)
		assert.Equal(t, "/profile", service.deleteCmd.Path)
	})

	t.Run("missing auth", func(t *testing.T) {
		e := echo.New()
		service := &mockEventService{}
		handler := httphandler.NewEventHandler(service)

		req := httptest.NewRequest(stdhttp.MethodDelete, "/api/v1/events/"+uuid.NewUUID().String(), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Delete(c)
		require.NoError(t, err)
		assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
		assert.Nil(t, service.deleteCmd)
	})
}
