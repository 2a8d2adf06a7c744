package pagination

import (
	"fmt"
	"sort"
	"strings"
)

// Sorter validates sort fields and maps them to storage columns.
type Sorter interface {
	// IsValidField checks if the given field name is valid for sorting.
	IsValidField(field string) bool
	// GetValidFields returns a list of valid field names for sorting.
	GetValidFields() []string
	// OrderBy returns the ORDER BY clause for field and order.
	OrderBy(field, order string) (string, error)
}

// ColumnSorter implements Sorter over a fixed field-to-column mapping.
// A tiebreak column keeps the ordering total, so pages never overlap.
type ColumnSorter struct {
	columns      map[string]string
	defaultField string
	tiebreak     string
}

// NewColumnSorter creates a sorter. defaultField is used when no field is given.
func NewColumnSorter(columns map[string]string, defaultField, tiebreak string) *ColumnSorter {
	return &ColumnSorter{columns: columns, defaultField: defaultField, tiebreak: tiebreak}
}

// NewProductSorter returns the sorter for catalog products.
func NewProductSorter() *ColumnSorter {
	return NewColumnSorter(map[string]string{
		"name":    "name",
		"sku":     "sku",
		"price":   "price_cents",
		"stock":   "stock",
		"created": "created_at",
	}, "name", "id")
}

// IsValidField checks if the field is valid for sorting.
func (s *ColumnSorter) IsValidField(field string) bool {
	_, ok := s.columns[field]
	return ok
}

// GetValidFields returns all valid sort fields.
func (s *ColumnSorter) GetValidFields() []string {
	fields := make([]string, 0, len(s.columns))
	for field := range s.columns {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// OrderBy returns an ORDER BY clause built only from whitelisted columns.
func (s *ColumnSorter) OrderBy(field, order string) (string, error) {
	if field == "" {
		field = s.defaultField
	}
	column, ok := s.columns[field]
	if !ok {
		return "", fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(s.GetValidFields(), ", "))
	}

	direction := "ASC"
	switch order {
	case "", SortOrderAsc:
	case SortOrderDesc:
		direction = "DESC"
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	clause := "ORDER BY " + column + " " + direction
	if s.tiebreak != "" && s.tiebreak != column {
		clause += ", " + s.tiebreak + " " + direction
	}
	return clause, nil
}
