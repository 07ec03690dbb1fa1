package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/eventhub/internal/application/appcore"
	categoryapp "github.com/mkravets/eventhub/internal/application/category"
	eventapp "github.com/mkravets/eventhub/internal/application/event"
	userapp "github.com/mkravets/eventhub/internal/application/user"
	"github.com/mkravets/eventhub/internal/domain/errs"
)

// Response represents a standard API response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error represents an error in the API response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondJSON sends a successful JSON response.
func RespondJSON(c echo.Context, code int, data any) error {
	return c.JSON(code, Response{
		Success: true,
		Data:    data,
	})
}

// RespondOK sends a 200 OK response with data.
func RespondOK(c echo.Context, data any) error {
	return RespondJSON(c, http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data.
func RespondCreated(c echo.Context, data any) error {
	return RespondJSON(c, http.StatusCreated, data)
}

// RespondNoContent sends a 204 No Content response.
func RespondNoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// RespondError sends an error JSON response based on the error type.
func RespondError(c echo.Context, err error) error {
	statusCode, apiError := mapError(err)
	return c.JSON(statusCode, Response{
		Success: false,
		Error:   apiError,
	})
}

// RespondErrorWithCode sends an error JSON response with a specific HTTP status code.
func RespondErrorWithCode(c echo.Context, code int, errorCode, message string) error {
	return c.JSON(code, Response{
		Success: false,
		Error: &Error{
			Code:    errorCode,
			Message: message,
		},
	})
}

// mapError maps application and domain errors to HTTP status codes.
func mapError(err error) (int, *Error) {
	var validationErr *appcore.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, &Error{
			Code:    "VALIDATION_FAILED",
			Message: validationErr.Error(),
		}
	}

	switch {
	case errors.Is(err, eventapp.ErrEventNotFound),
		errors.Is(err, appcore.ErrEventNotFound):
		return http.StatusNotFound, &Error{
			Code:    "EVENT_NOT_FOUND",
			Message: "The requested event was not found",
		}

	case errors.Is(err, eventapp.ErrCategoryNotFound),
		errors.Is(err, appcore.ErrCategoryNotFound):
		return http.StatusUnprocessableEntity, &Error{
			Code:    "CATEGORY_NOT_FOUND",
			Message: "The referenced category does not exist",
		}

	case errors.Is(err, eventapp.ErrOrganizerNotFound),
		errors.Is(err, appcore.ErrOrganizerNotFound):
		return http.StatusUnprocessableEntity, &Error{
			Code:    "ORGANIZER_NOT_FOUND",
			Message: "The referenced organizer does not exist",
		}

	case errors.Is(err, categoryapp.ErrCategoryNotFound):
		return http.StatusNotFound, &Error{
			Code:    "CATEGORY_NOT_FOUND",
			Message: "The requested category was not found",
		}

	case errors.Is(err, userapp.ErrUserNotFound):
		return http.StatusNotFound, &Error{
			Code:    "USER_NOT_FOUND",
			Message: "The requested user was not found",
		}

	case errors.Is(err, errs.ErrNotFound),
		errors.Is(err, appcore.ErrNotFound):
		return http.StatusNotFound, &Error{
			Code:    "NOT_FOUND",
			Message: "The requested resource was not found",
		}

	case errors.Is(err, errs.ErrAlreadyExists),
		errors.Is(err, appcore.ErrAlreadyExists):
		return http.StatusConflict, &Error{
			Code:    "ALREADY_EXISTS",
			Message: "The resource already exists",
		}

	case errors.Is(err, errs.ErrInvalidInput),
		errors.Is(err, appcore.ErrValidationFailed):
		return http.StatusBadRequest, &Error{
			Code:    "INVALID_INPUT",
			Message: "Invalid input data",
		}

	case errors.Is(err, errs.ErrUnauthorized),
		errors.Is(err, appcore.ErrUnauthorized):
		return http.StatusUnauthorized, &Error{
			Code:    "UNAUTHORIZED",
			Message: "Authentication required",
		}

	case errors.Is(err, eventapp.ErrNotOrganizer):
		return http.StatusForbidden, &Error{
			Code:    "NOT_ORGANIZER",
			Message: "Only the event organizer may perform this action",
		}

	case errors.Is(err, errs.ErrForbidden),
		errors.Is(err, appcore.ErrForbidden):
		return http.StatusForbidden, &Error{
			Code:    "FORBIDDEN",
			Message: "Access denied",
		}

	case errors.Is(err, errs.ErrTransient):
		return http.StatusServiceUnavailable, &Error{
			Code:    "TEMPORARILY_UNAVAILABLE",
			Message: "The service is temporarily unavailable, try again",
		}

	default:
		return http.StatusInternalServerError, &Error{
			Code:    "INTERNAL_ERROR",
			Message: "An internal error occurred",
		}
	}
}
