package category

// Query is the base interface for category queries.
type Query interface {
	QueryName() string
}

// FindCategoryByNameQuery - case-insensitive partial name lookup.
type FindCategoryByNameQuery struct {
	Name string
}

func (q FindCategoryByNameQuery) QueryName() string { return "FindCategoryByName" }

// ListCategoriesQuery - list all categories.
type ListCategoriesQuery struct{}

func (q ListCategoriesQuery) QueryName() string { return "ListCategories" }
