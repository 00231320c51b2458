package catalog

import "gorm.io/gorm" // GORM ORM library

// Page sizes
const (
	DefaultPerPage = 20  // Course list default
	MaxPerPage     = 100 // Upper bound for per_page
	ReviewsPerPage = 5   // Review list, fixed
)

// Page is one slice of a paginated query
type Page[T any] struct {
	Items      []T   `json:"items"`       // Rows of this page
	Page       int   `json:"page"`        // 1-based page number
	PerPage    int   `json:"per_page"`    // Page size
	Total      int64 `json:"total"`       // Rows across all pages
	TotalPages int   `json:"total_pages"` // Number of pages
}

// HasPrev reports whether a previous page exists
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// paginate counts the rows matched by base, then fetches the requested page
// with the extra scopes (ordering, preloads) applied to the fetch only
func paginate[T any](base *gorm.DB, page, perPage int, fetch ...func(*gorm.DB) *gorm.DB) (Page[T], error) {
	page, perPage = normalizePage(page, perPage)
	out := Page[T]{Page: page, PerPage: perPage, Items: []T{}}

	base = base.Session(&gorm.Session{}) // Reusable for both queries
	if err := base.Count(&out.Total).Error; err != nil {
		return out, classify(err)
	}
	out.TotalPages = int((out.Total + int64(perPage) - 1) / int64(perPage))
	if out.Total == 0 {
		return out, nil // Nothing to fetch
	}

	q := base
	for _, f := range fetch {
		q = f(q)
	}
	err := q.Offset((page - 1) * perPage).Limit(perPage).Find(&out.Items).Error
	return out, classify(err)
}
