package catalog

import (
	"errors"
	"strings"
	"time"
)

// Catalog errors.
var (
	ErrNotFound       = errors.New("product not found")
	ErrAlreadyExists  = errors.New("product already exists")
	ErrInvalidProduct = errors.New("invalid product")
	ErrNotConfigured  = errors.New("catalog store is not configured")
)

// Product is one inventory row. FallbackRef is shown when ImageRef cannot be loaded.
type Product struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	PriceCents  int64     `json:"price_cents"`
	Stock       int       `json:"stock"`
	ImageRef    string    `json:"image_ref,omitempty"`
	FallbackRef string    `json:"fallback_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks required fields.
func (p Product) Validate() error {
	var errs []error
	if strings.TrimSpace(p.SKU) == "" {
		errs = append(errs, errors.New("sku is required"))
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if p.PriceCents < 0 {
		errs = append(errs, errors.New("price cannot be negative"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidProduct}, errs...)...)
	}
	return nil
}

// InStock reports whether any units are available.
func (p Product) InStock() bool {
	return p.Stock > 0
}
