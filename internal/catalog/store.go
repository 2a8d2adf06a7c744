package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/rshade/bizdeck/internal/catalog/migrations"
	"github.com/rshade/bizdeck/internal/pagination"
)

const productColumns = `id, sku, name, price_cents, stock, image_ref, fallback_ref, created_at`

// Store persists products in SQLite.
type Store struct {
	db     *sql.DB
	sorter *pagination.ColumnSorter
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the catalog database at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, sorter: pagination.NewProductSorter()}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Sorter returns the sort-field whitelist used by List.
func (s *Store) Sorter() pagination.Sorter {
	return s.sorter
}

// Insert stores p and returns its assigned ID.
func (s *Store) Insert(ctx context.Context, p Product) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	return insert(ctx, s.db, p)
}

// InsertAll stores products in a single transaction.
func (s *Store) InsertAll(ctx context.Context, products []Product) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	for i, p := range products {
		if _, err := insert(ctx, tx, p); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("product %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	return len(products), nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, p Product) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO products (sku, name, price_cents, stock, image_ref, fallback_ref, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(p.SKU),
		strings.TrimSpace(p.Name),
		p.PriceCents,
		p.Stock,
		strings.TrimSpace(p.ImageRef),
		strings.TrimSpace(p.FallbackRef),
		toMillis(created),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: sku %q", ErrAlreadyExists, p.SKU)
		}
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return res.LastInsertId()
}

// Get returns one product by ID.
func (s *Store) Get(ctx context.Context, id int64) (Product, error) {
	if err := s.ready(ctx); err != nil {
		return Product{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

// Count returns the number of stored products.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// List returns one page of products ordered by params' sort field. A zero
// limit returns every product after the offset.
func (s *Store) List(ctx context.Context, params pagination.Params) ([]Product, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	orderBy, err := s.sorter.OrderBy(params.SortField, params.SortOrder)
	if err != nil {
		return nil, err
	}

	offset, limit := params.OffsetLimit()
	if limit == 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products `+orderBy+` LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// ImageRefs returns every distinct non-empty primary and fallback reference.
func (s *Store) ImageRefs(ctx context.Context) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT ref FROM (
    SELECT image_ref AS ref FROM products
    UNION
    SELECT fallback_ref AS ref FROM products
) WHERE ref <> '' ORDER BY ref`)
	if err != nil {
		return nil, fmt.Errorf("list image refs: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("scan image ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// DeleteAll removes every product.
func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM products`)
	if err != nil {
		return 0, fmt.Errorf("delete products: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return ErrNotConfigured
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (Product, error) {
	var (
		p       Product
		created int64
	)
	if err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.PriceCents, &p.Stock, &p.ImageRef, &p.FallbackRef, &created,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, err
		}
		return Product{}, fmt.Errorf("scan product: %w", err)
	}
	p.CreatedAt = fromMillis(created)
	return p, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
