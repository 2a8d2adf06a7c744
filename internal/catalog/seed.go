package catalog

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Seed defaults.
const (
	DefaultSeedCount = 500
	seedThumbSize    = 16
	fallbackImage    = "fallback.png"
)

var (
	seedAdjectives = []string{"Brass", "Cedar", "Copper", "Granite", "Indigo", "Linen", "Maple", "Slate", "Walnut", "Wool"}
	seedNouns      = []string{"Lamp", "Chair", "Mug", "Shelf", "Basket", "Clock", "Vase", "Stool", "Tray", "Rug"}
)

// SeedOptions controls demo data generation.
type SeedOptions struct {
	// Count is the number of products. Zero means DefaultSeedCount.
	Count int
	// ImageBase is a directory or http(s) base URL for thumbnail refs.
	// Empty leaves refs blank.
	ImageBase string
	// BrokenEvery gives every Nth product a missing primary image with a
	// fallback. Zero disables.
	BrokenEvery int
	// Now stamps created_at. Zero means time.Now.
	Now time.Time
}

// GenerateProducts returns deterministic demo products.
func GenerateProducts(opts SeedOptions) []Product {
	count := opts.Count
	if count <= 0 {
		count = DefaultSeedCount
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	products := make([]Product, count)
	for i := range count {
		n := i + 1
		p := Product{
			SKU:        fmt.Sprintf("SKU-%05d", n),
			Name:       fmt.Sprintf("%s %s %d", seedAdjectives[i%len(seedAdjectives)], seedNouns[(i/len(seedAdjectives))%len(seedNouns)], n),
			PriceCents: int64(199 + (i*7919)%99800),
			Stock:      (i * 37) % 120,
			CreatedAt:  now.Add(-time.Duration(i) * time.Minute),
		}
		if opts.ImageBase != "" {
			p.ImageRef = joinRef(opts.ImageBase, imageName(p.SKU))
			if opts.BrokenEvery > 0 && n%opts.BrokenEvery == 0 {
				p.ImageRef = joinRef(opts.ImageBase, "missing-"+imageName(p.SKU))
				p.FallbackRef = joinRef(opts.ImageBase, fallbackImage)
			}
		}
		products[i] = p
	}
	return products
}

// Seed replaces the catalog with generated products.
func (s *Store) Seed(ctx context.Context, opts SeedOptions) (int, error) {
	if _, err := s.DeleteAll(ctx); err != nil {
		return 0, err
	}
	return s.InsertAll(ctx, GenerateProducts(opts))
}

// WriteImages writes a swatch PNG for every product plus the shared fallback
// into dir. Products with a broken primary get no file for it.
func WriteImages(dir string, products []Product) (int, error) {
	if strings.TrimSpace(dir) == "" {
		return 0, errors.New("image directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, fmt.Errorf("create image directory: %w", err)
	}

	written := 0
	write := func(name string, c color.RGBA) error {
		if err := writeSwatch(filepath.Join(dir, name), c); err != nil {
			return err
		}
		written++
		return nil
	}

	if err := write(fallbackImage, color.RGBA{R: 90, G: 90, B: 90, A: 255}); err != nil {
		return written, err
	}
	for _, p := range products {
		if p.FallbackRef != "" {
			continue
		}
		if err := write(imageName(p.SKU), swatchColor(p.SKU)); err != nil {
			return written, err
		}
	}
	return written, nil
}

func writeSwatch(path string, c color.RGBA) error {
	img := image.NewRGBA(image.Rect(0, 0, seedThumbSize, seedThumbSize))
	shade := color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 255}
	for y := range seedThumbSize {
		for x := range seedThumbSize {
			if x+y < seedThumbSize {
				img.SetRGBA(x, y, c)
			} else {
				img.SetRGBA(x, y, shade)
			}
		}
	}

	f, err := os.Create(path) //nolint:gosec // path is built from a generated name
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func swatchColor(sku string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sku))
	v := h.Sum32()
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255} //nolint:gosec // truncation intended
}

func imageName(sku string) string {
	return strings.ToLower(sku) + ".png"
}

func joinRef(base, name string) string {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return strings.TrimRight(base, "/") + "/" + name
	}
	return filepath.Join(base, name)
}
