package httphandler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	userapp "github.com/mkravets/eventhub/internal/application/user"
	"github.com/mkravets/eventhub/internal/domain/user"
	"github.com/mkravets/eventhub/internal/infrastructure/httpserver"
	"github.com/mkravets/eventhub/internal/middleware"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID         string   `json:"id"`
	ExternalID string   `json:"external_id"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	EventIDs   []string `json:"event_ids"`
	CreatedAt  string   `json:"created_at"`
}

// UserService defines the user operations the handler needs.
// Declared on the consumer side per project guidelines.
type UserService interface {
	// GetUser gets a user by internal ID.
	GetUser(ctx context.Context, query userapp.GetUserQuery) (userapp.Result, error)
}

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	userService UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRoutes registers user routes with the router.
func (h *UserHandler) RegisterRoutes(r *httpserver.Router) {
	r.Auth().GET("/users/me", h.GetMe)
}

// GetMe handles GET /api/v1/users/me.
// Returns the current authenticated user. The auth middleware has already
// created the record if this is the subject's first request.
func (h *UserHandler) GetMe(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	}

	result, err := h.userService.GetUser(c.Request().Context(), userapp.GetUserQuery{UserID: userID})
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, ToUserResponse(result.Value))
}

// ToUserResponse converts a domain user to its API representation.
func ToUserResponse(u *user.User) UserResponse {
	eventIDs := make([]string, 0, len(u.EventIDs()))
	for _, id := range u.EventIDs() {
		eventIDs = append(eventIDs, id.String())
	}

	return UserResponse{
		ID:         u.ID().String(),
		ExternalID: u.ExternalID(),
		Username:   u.Username(),
		Email:      u.Email(),
		FirstName:  u.FirstName(),
		LastName:   u.LastName(),
		EventIDs:   eventIDs,
		CreatedAt:  u.CreatedAt().Format(time.RFC3339),
	}
}
