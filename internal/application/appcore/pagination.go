package appcore

// Pagination defaults shared by listing use cases.
const (
	DefaultPage = 1
	MaxPageSize = 100
)

// NormalizePage returns page with the default applied when page <= 0.
func NormalizePage(page int) int {
	if page <= 0 {
		return DefaultPage
	}
	return page
}

// NormalizePageSize returns pageSize clamped to [1, MaxPageSize], with the
// given default applied when pageSize <= 0.
func NormalizePageSize(pageSize, defaultSize int) int {
	if pageSize <= 0 {
		return defaultSize
	}
	if pageSize > MaxPageSize {
		return MaxPageSize
	}
	return pageSize
}

// Skip computes the number of documents to skip for a 1-based page.
func Skip(page, pageSize int) int {
	return (page - 1) * pageSize
}

// TotalPages computes ceil(count / pageSize). Zero matches yield zero pages.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}
