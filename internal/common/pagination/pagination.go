package pagination

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Page is one slice of a list plus the numbers a pager needs.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns page (1-based) of items. Pages below 1 are treated as 1,
// pages past the end come back with no items. perPage is capped at
// MaxPerPage.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	totalPages := (total + perPage - 1) / perPage

	out := []T{}
	if page <= totalPages {
		start := (page - 1) * perPage
		end := start + perPage
		if end > total {
			end = total
		}
		out = items[start:end]
	}
	return Page[T]{
		Items:      out,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}
