package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Limits and defaults shared by the CLI and the console.
const (
	DefaultLimit     = 100
	MaxLimit         = 10000
	DefaultPageSize  = 50
	MaxPageSize      = 1000
	DefaultSortOrder = SortOrderAsc

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

var (
	ErrInvalidLimit      = fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	ErrInvalidPageSize   = fmt.Errorf("page-size must be between 1 and %d", MaxPageSize)
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'price:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort field")
	ErrMixedModes        = errors.New("page and offset parameters are mutually exclusive")
)

// Params selects one slice of an ordered result set, either by offset
// (Limit, Offset) or by page (Page, PageSize). A Page above zero selects page
// mode; Limit then only caps the page.
type Params struct {
	Limit    int
	Offset   int
	Page     int
	PageSize int

	// SortField is a public field name such as "price"; empty means the
	// lister's default.
	SortField string
	SortOrder string
}

// NewParams returns offset-mode parameters with the default limit.
func NewParams() *Params {
	return &Params{Limit: DefaultLimit, SortOrder: DefaultSortOrder}
}

// PageParams returns page-mode parameters for the 1-based page.
func PageParams(page, pageSize int, sortField, sortOrder string) Params {
	if sortOrder == "" {
		sortOrder = DefaultSortOrder
	}
	return Params{Page: page, PageSize: pageSize, SortField: sortField, SortOrder: sortOrder}
}

// Validate reports the first inconsistency in p.
func (p Params) Validate() error {
	for _, f := range []struct {
		name  string
		value int
	}{{"limit", p.Limit}, {"offset", p.Offset}, {"page", p.Page}, {"page-size", p.PageSize}} {
		if f.value < 0 {
			return fmt.Errorf("%s cannot be negative", f.name)
		}
	}

	switch {
	case p.Page > 0 && p.Offset > 0:
		return ErrMixedModes
	case p.Page == 0 && p.PageSize > 0:
		return errors.New("page must be specified when using page-size: page must be >= 1")
	case p.Page > 0 && p.PageSize == 0:
		return errors.New("page-size must be specified when using page: page-size must be > 0")
	case p.PageSize > MaxPageSize:
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	case p.Limit > MaxLimit:
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, p.Limit)
	}

	if p.SortOrder != "" && p.SortOrder != SortOrderAsc && p.SortOrder != SortOrderDesc {
		return fmt.Errorf("%w: got %q", ErrInvalidSortOrder, p.SortOrder)
	}
	return nil
}

// ParseSort splits "field" or "field:order" into its parts. An empty string
// selects the default field in ascending order.
//
//nolint:nonamedreturns // field and order document the two strings.
func ParseSort(s string) (field, order string, err error) {
	if s == "" {
		return "", DefaultSortOrder, nil
	}

	field, order, hasOrder := strings.Cut(s, ":")
	field = strings.TrimSpace(field)
	order = strings.ToLower(strings.TrimSpace(order))
	if !hasOrder {
		order = DefaultSortOrder
	}

	switch {
	case strings.Contains(order, ":"):
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, s)
	case field == "":
		return "", "", ErrEmptySortField
	case order != SortOrderAsc && order != SortOrderDesc:
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}

// IsPageBased reports whether p is in page mode.
func (p Params) IsPageBased() bool {
	return p.Page > 0
}

// TotalPages returns the page count for total results in page mode, and 0
// in offset mode.
func (p Params) TotalPages(total int) int {
	if !p.IsPageBased() || total <= 0 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}

// OffsetLimit resolves p to a row offset and a row limit. A zero limit
// means no limit.
//
//nolint:nonamedreturns // offset and limit document the two ints.
func (p Params) OffsetLimit() (offset, limit int) {
	if !p.IsPageBased() {
		return p.Offset, p.Limit
	}
	limit = p.PageSize
	if p.Limit > 0 && p.Limit < limit {
		limit = p.Limit
	}
	return (p.Page - 1) * p.PageSize, limit
}

// Next returns the parameters for the following slice.
func (p Params) Next() Params {
	if p.IsPageBased() {
		p.Page++
	} else {
		p.Offset += p.Limit
	}
	return p
}
