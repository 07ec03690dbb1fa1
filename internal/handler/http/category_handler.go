package httphandler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	categoryapp "github.com/mkravets/eventhub/internal/application/category"
	"github.com/mkravets/eventhub/internal/domain/category"
	"github.com/mkravets/eventhub/internal/infrastructure/httpserver"
)

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// CategoryService defines the category operations the handler needs.
// Declared on the consumer side per project guidelines.
type CategoryService interface {
	// ListCategories lists all categories ordered by name.
	ListCategories(ctx context.Context, query categoryapp.ListCategoriesQuery) (categoryapp.ListResult, error)

	// FindCategoryByName resolves a case-insensitive partial name.
	FindCategoryByName(ctx context.Context, query categoryapp.FindCategoryByNameQuery) (categoryapp.Result, error)
}

// CategoryHandler handles category-related HTTP requests.
type CategoryHandler struct {
	categoryService CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// RegisterRoutes registers category routes with the router.
func (h *CategoryHandler) RegisterRoutes(r *httpserver.Router) {
	r.Public().GET("/categories", h.List)
	r.Public().GET("/categories/lookup", h.Lookup)
}

// List handles GET /api/v1/categories.
func (h *CategoryHandler) List(c echo.Context) error {
	result, err := h.categoryService.ListCategories(c.Request().Context(), categoryapp.ListCategoriesQuery{})
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	responses := make([]CategoryResponse, 0, len(result.Categories))
	for _, cat := range result.Categories {
		responses = append(responses, ToCategoryResponse(cat))
	}

	return httpserver.RespondOK(c, responses)
}

// Lookup handles GET /api/v1/categories/lookup?name=.
// Resolves a case-insensitive partial name to a single category.
func (h *CategoryHandler) Lookup(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "NAME_REQUIRED", "name query parameter is required")
	}

	result, err := h.categoryService.FindCategoryByName(
		c.Request().Context(),
		categoryapp.FindCategoryByNameQuery{Name: name},
	)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, ToCategoryResponse(result.Value))
}

// ToCategoryResponse converts a domain category to its API representation.
func ToCategoryResponse(cat *category.Category) CategoryResponse {
	return CategoryResponse{
		ID:        cat.ID().String(),
		Name:      cat.Name(),
		CreatedAt: cat.CreatedAt().Format(time.RFC3339),
	}
}
