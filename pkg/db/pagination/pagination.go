package pagination

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrInvalidOffset = errors.New("invalid_offset")
	ErrInvalidLimit  = errors.New("invalid_limit")
)

// Pagination carries the raw listing window from the query string. Limit is
// a pointer so an omitted parameter can be told apart from an explicit zero.
type Pagination struct {
	Offset int  `form:"offset,default=0"`
	Limit  *int `form:"limit"`
}

// Limits is the server-side window policy a request is resolved against.
type Limits struct {
	Default int
	Max     int
}

// Page is a validated window ready to be applied to a query.
type Page struct {
	Offset int
	Limit  int
}

// Resolve validates the request against the configured bounds and fills in
// the default page size when the client did not send one.
func (p Pagination) Resolve(limits Limits) (Page, error) {
	if p.Offset < 0 {
		return Page{}, ErrInvalidOffset
	}

	limit := limits.Default
	if p.Limit != nil {
		limit = *p.Limit
	}
	if limit < 1 || limit > limits.Max {
		return Page{}, ErrInvalidLimit
	}

	return Page{Offset: p.Offset, Limit: limit}, nil
}

// Apply narrows tx to the window. It matches the gorm scope signature, so
// callers can use tx.Scopes(page.Apply).
func (p Page) Apply(tx *gorm.DB) *gorm.DB {
	return tx.Offset(p.Offset).Limit(p.Limit)
}
