// Package httphandler contains the HTTP request handlers for the API.
package httphandler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	eventapp "github.com/mkravets/eventhub/internal/application/event"
	"github.com/mkravets/eventhub/internal/domain/event"
	"github.com/mkravets/eventhub/internal/domain/uuid"
	"github.com/mkravets/eventhub/internal/infrastructure/httpserver"
	"github.com/mkravets/eventhub/internal/middleware"
)

// Validation constants for event handler.
const (
	maxEventTitleLength       = 200
	maxEventDescriptionLength = 5000
)

// Logical paths revalidated after mutations.
const (
	eventsPath  = "/events"
	profilePath = "/profile"
)

// Event handler errors.
var (
	ErrEventTitleRequired      = errors.New("event title is required")
	ErrEventTitleTooLong       = errors.New("event title is too long")
	ErrEventDescriptionTooLong = errors.New("event description is too long")
)

// CreateEventRequest represents the request to create an event.
type CreateEventRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	URL           string `json:"url"`
	Price         string `json:"price"`
	IsFree        bool   `json:"is_free"`
	StartDateTime string `json:"start_date_time"`
	EndDateTime   string `json:"end_date_time"`
	ImageURL      string `json:"image_url"`
	CategoryID    string `json:"category_id"`
}

// UpdateEventRequest represents the request to update an event. Absent
// fields are left unchanged.
type UpdateEventRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Location      *string `json:"location"`
	URL           *string `json:"url"`
	Price         *string `json:"price"`
	IsFree        *bool   `json:"is_free"`
	StartDateTime *string `json:"start_date_time"`
	EndDateTime   *string `json:"end_date_time"`
	ImageURL      *string `json:"image_url"`
	CategoryID    *string `json:"category_id"`
}

// EventService defines the event operations the handler needs.
// Declared on the consumer side per project guidelines.
type EventService interface {
	// CreateEvent creates a new event.
	CreateEvent(ctx context.Context, cmd eventapp.CreateEventCommand) (eventapp.Result, error)

	// UpdateEvent patches an existing event.
	UpdateEvent(ctx context.Context, cmd eventapp.UpdateEventCommand) (eventapp.Result, error)

	// DeleteEvent removes an event.
	DeleteEvent(ctx context.Context, cmd eventapp.DeleteEventCommand) error

	// GetEvent fetches one populated event.
	GetEvent(ctx context.Context, query eventapp.GetEventQuery) (eventapp.Result, error)

	// ListEvents lists events with optional search and category filter.
	ListEvents(ctx context.Context, query eventapp.ListEventsQuery) (eventapp.ListResult, error)

	// ListEventsByOrganizer lists an organizer's events.
	ListEventsByOrganizer(ctx context.Context, query eventapp.ListEventsByOrganizerQuery) (eventapp.ListResult, error)

	// ListRelatedEvents lists events sharing a category.
	ListRelatedEvents(ctx context.Context, query eventapp.ListRelatedEventsQuery) (eventapp.ListResult, error)
}

// EventHandler handles event-related HTTP requests.
type EventHandler struct {
	eventService EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// RegisterRoutes registers event routes with the router.
func (h *EventHandler) RegisterRoutes(r *httpserver.Router) {
	// Browsing is public.
	r.Public().GET("/events", h.List)
	r.Public().GET("/events/:id", h.Get)
	r.Public().GET("/events/:id/related", h.ListRelated)

	// Mutations and the organizer's own listing require authentication.
	r.Auth().POST("/events", h.Create)
	r.Auth().PUT("/events/:id", h.Update)
	r.Auth().DELETE("/events/:id", h.Delete)
	r.Auth().GET("/users/me/events", h.ListMine)
}

// Create handles POST /api/v1/events.
func (h *EventHandler) Create(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	}

	var req CreateEventRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
	}

	if valErr := validateCreateEventRequest(&req); valErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "VALIDATION_ERROR", valErr.Error())
	}

	categoryID, parseErr := uuid.ParseUUID(req.CategoryID)
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_CATEGORY_ID", "invalid category ID format")
	}

	startDateTime, parseErr := parseEventTime(req.StartDateTime)
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_START_DATE", "invalid start date, expected RFC 3339")
	}

	endDateTime, parseErr := parseEventTime(req.EndDateTime)
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_END_DATE", "invalid end date, expected RFC 3339")
	}

	cmd := eventapp.CreateEventCommand{
		Event: event.Details{
			Title:         req.Title,
			Description:   req.Description,
			Location:      req.Location,
			URL:           req.URL,
			Price:         req.Price,
			IsFree:        req.IsFree,
			StartDateTime: startDateTime,
			EndDateTime:   endDateTime,
			ImageURL:      req.ImageURL,
			CategoryID:    categoryID,
		},
		OrganizerID: userID,
		Path:        eventsPath,
	}

	result, err := h.eventService.CreateEvent(c.Request().Context(), cmd)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondCreated(c, result.Value)
}

// Get handles GET /api/v1/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	eventID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_EVENT_ID", "invalid event ID format")
	}

	result, err := h.eventService.GetEvent(c.Request().Context(), eventapp.GetEventQuery{EventID: eventID})
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, result.Value)
}

// List handles GET /api/v1/events.
// Supports ?query= for title search, ?category= for category name filter,
// and ?page= / ?page_size= for pagination.
func (h *EventHandler) List(c echo.Context) error {
	query := eventapp.ListEventsQuery{
		Query:        c.QueryParam("query"),
		CategoryName: c.QueryParam("category"),
		Page:         parsePageParam(c.QueryParam("page")),
		PageSize:     parsePageSizeParam(c.QueryParam("page_size")),
	}

	result, err := h.eventService.ListEvents(c.Request().Context(), query)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, result)
}

// ListRelated handles GET /api/v1/events/:id/related.
// Lists other events in the same category, excluding the event itself.
func (h *EventHandler) ListRelated(c echo.Context) error {
	eventID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_EVENT_ID", "invalid event ID format")
	}

	got, err := h.eventService.GetEvent(c.Request().Context(), eventapp.GetEventQuery{EventID: eventID})
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	query := eventapp.ListRelatedEventsQuery{
		CategoryID:     got.Value.Category.ID,
		ExcludeEventID: eventID,
		Page:           parsePageParam(c.QueryParam("page")),
		PageSize:       parsePageSizeParam(c.QueryParam("page_size")),
	}

	result, err := h.eventService.ListRelatedEvents(c.Request().Context(), query)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, result)
}

// ListMine handles GET /api/v1/users/me/events.
// Lists the authenticated user's own events.
func (h *EventHandler) ListMine(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	}

	query := eventapp.ListEventsByOrganizerQuery{
		OrganizerID: userID,
		Page:        parsePageParam(c.QueryParam("page")),
		PageSize:    parsePageSizeParam(c.QueryParam("page_size")),
	}

	result, err := h.eventService.ListEventsByOrganizer(c.Request().Context(), query)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, result)
}

// Update handles PUT /api/v1/events/:id.
// Only the organizer may update their event.
func (h *EventHandler) Update(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	}

	eventID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_EVENT_ID", "invalid event ID format")
	}

	var req UpdateEventRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
	}

	if valErr := validateUpdateEventRequest(&req); valErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "VALIDATION_ERROR", valErr.Error())
	}

	patch, patchErr := buildEventPatch(&req)
	if patchErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "VALIDATION_ERROR", patchErr.Error())
	}

	cmd := eventapp.UpdateEventCommand{
		EventID:     eventID,
		Patch:       patch,
		RequesterID: userID,
		Path:        eventsPath,
	}

	result, err := h.eventService.UpdateEvent(c.Request().Context(), cmd)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, result.Value)
}

// Delete handles DELETE /api/v1/events/:id.
// Deleting an absent event is a silent no-op.
func (h *EventHandler) Delete(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	}

	eventID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_EVENT_ID", "invalid event ID format")
	}

	cmd := eventapp.DeleteEventCommand{
		EventID: eventID,
		Path:    profilePath,
	}

	if err := h.eventService.DeleteEvent(c.Request().Context(), cmd); err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondNoContent(c)
}

// validateCreateEventRequest validates the create request fields.
func validateCreateEventRequest(req *CreateEventRequest) error {
	if req.Title == "" {
		return ErrEventTitleRequired
	}
	if len(req.Title) > maxEventTitleLength {
		return ErrEventTitleTooLong
	}
	if len(req.Description) > maxEventDescriptionLength {
		return ErrEventDescriptionTooLong
	}
	return nil
}

// validateUpdateEventRequest validates the update request fields.
func validateUpdateEventRequest(req *UpdateEventRequest) error {
	if req.Title != nil {
		if *req.Title == "" {
			return ErrEventTitleRequired
		}
		if len(*req.Title) > maxEventTitleLength {
			return ErrEventTitleTooLong
		}
	}
	if req.Description != nil && len(*req.Description) > maxEventDescriptionLength {
		return ErrEventDescriptionTooLong
	}
	return nil
}

// buildEventPatch converts the wire request into a domain patch.
func buildEventPatch(req *UpdateEventRequest) (event.Patch, error) {
	patch := event.Patch{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		URL:         req.URL,
		Price:       req.Price,
		IsFree:      req.IsFree,
		ImageURL:    req.ImageURL,
	}

	if req.StartDateTime != nil {
		start, err := parseEventTime(*req.StartDateTime)
		if err != nil {
			return event.Patch{}, errors.New("invalid start date, expected RFC 3339")
		}
		patch.StartDateTime = &start
	}

	if req.EndDateTime != nil {
		end, err := parseEventTime(*req.EndDateTime)
		if err != nil {
			return event.Patch{}, errors.New("invalid end date, expected RFC 3339")
		}
		patch.EndDateTime = &end
	}

	if req.CategoryID != nil {
		categoryID, err := uuid.ParseUUID(*req.CategoryID)
		if err != nil {
			return event.Patch{}, errors.New("invalid category ID format")
		}
		patch.CategoryID = &categoryID
	}

	return patch, nil
}

// parseEventTime parses an RFC 3339 timestamp.
func parseEventTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

// parsePageParam parses the page query parameter, defaulting to 1.
func parsePageParam(value string) int {
	if value == "" {
		return 1
	}
	page, err := strconv.Atoi(value)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// parsePageSizeParam parses the page_size query parameter. Zero means
// unset; the use case applies its default and clamps oversized values.
func parsePageSizeParam(value string) int {
	if value == "" {
		return 0
	}
	size, err := strconv.Atoi(value)
	if err != nil || size < 1 {
		return 0
	}
	return size
}
