package models

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items      []*T  `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	TotalPages int   `json:"totalPages"`
}

// NormalizePage clamps page and perPage to sane values and returns the
// matching SQL offset.
func NormalizePage(page, perPage int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage, (page - 1) * perPage
}

func NewPage[T any](items []*T, total int64, page, perPage int) *Page[T] {
	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return &Page[T]{Items: items, Total: total, Page: page, PerPage: perPage, TotalPages: totalPages}
}
