package pagination

import (
	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
)

const (
	// DefaultPageSize is used when the caller does not supply page_size
	DefaultPageSize = 25

	// MaxPageSize is the largest page Docker Hub will serve
	MaxPageSize = 100

	// FirstPage is the page used when the caller does not supply one
	FirstPage = 1
)

// Params is a page/page_size request
type Params struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Offset returns the number of items that precede this page
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ValidateParams rejects negative pages and out-of-range page sizes.
// Zero values are accepted; they are filled in by ApplyDefaults.
func ValidateParams(p Params) error {
	if p.Page < 0 {
		return hubErrors.InvalidPage(p.Page)
	}
	if p.PageSize < 0 || p.PageSize > MaxPageSize {
		return hubErrors.InvalidPageSize(p.PageSize, MaxPageSize)
	}
	return nil
}

// ApplyDefaults fills in zero values
func ApplyDefaults(p Params) Params {
	if p.Page == 0 {
		p.Page = FirstPage
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Normalize validates p and applies defaults
func Normalize(p Params) (Params, error) {
	if err := ValidateParams(p); err != nil {
		return Params{}, err
	}
	return ApplyDefaults(p), nil
}

// Clip truncates items to at most pageSize entries
func Clip[T any](items []T, pageSize int) []T {
	if pageSize >= 0 && len(items) > pageSize {
		return items[:pageSize]
	}
	return items
}

// ReconcileTotal returns a total count consistent with the page that was
// actually returned. Docker Hub occasionally under-reports count, so a
// non-empty page always implies at least offset+returned items exist.
func ReconcileTotal(p Params, reported, returned int) int {
	if reported < 0 {
		reported = 0
	}
	if returned == 0 {
		return reported
	}
	if seen := p.Offset() + returned; seen > reported {
		return seen
	}
	return reported
}

// HasNextPage reports whether items remain after page p given total
func HasNextPage(p Params, total int) bool {
	return p.Offset()+p.PageSize < total
}

// TotalPages returns the number of pages of size p.PageSize needed for total items
func TotalPages(p Params, total int) int {
	if p.PageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}
