package domain

import "math"

// PaginationParams carries page/limit values from the HTTP layer to the store.
// Page is 1-indexed and capped at MaxPage; Limit is capped at MaxPageLimit.
type PaginationParams struct {
	Page  int
	Limit int
}

const (
	// DefaultPageLimit is used when the caller does not ask for a page size.
	DefaultPageLimit = 20
	// MaxPageLimit bounds a single page of fuelings.
	MaxPageLimit = 100
	// MaxPage keeps Offset from overflowing for any limit up to MaxPageLimit.
	MaxPage = math.MaxInt / MaxPageLimit
)

// NewPaginationParams builds a PaginationParams from optional query params.
// Nil pointers and non-positive values fall back to page=1, limit=20.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page >= 1 {
		p.Page = min(*page, MaxPage)
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
