// Package postgres provides the durable Postgres-backed product store.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ishaan2692/search-engine/internal/catalog"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store implements catalog.Store on a single products table. Upsert uses
// ON CONFLICT DO UPDATE, so the policy is replace: the latest scrape of a
// URL always wins. Concurrent upserts to the same id serialize on the row.
type Store struct {
	pool  pool
	table string
}

// NewStore connects a pool using the provided config.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "products"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: p, table: table}, nil
}

// NewStoreWithPool constructs a Store from an existing pool (primarily for
// testing with pgxmock).
func NewStoreWithPool(p pool, table string) (*Store, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "products"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Store{pool: p, table: table}, nil
}

// EnsureSchema creates the products table when missing. The schema is fixed;
// there is no migration machinery beyond this.
func (s *Store) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	price DOUBLE PRECISION NOT NULL DEFAULT 0,
	url TEXT NOT NULL,
	image BYTEA,
	pet_type TEXT NOT NULL DEFAULT 'Other'
)`, s.table)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Upsert inserts the record or, when the id exists, overwrites every field
// with the latest scrape.
func (s *Store) Upsert(ctx context.Context, p catalog.Product) error {
	if p.ID == "" {
		return fmt.Errorf("product id is required")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (id, title, description, price, url, image, pet_type)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
	title = EXCLUDED.title,
	description = EXCLUDED.description,
	price = EXCLUDED.price,
	url = EXCLUDED.url,
	image = EXCLUDED.image,
	pet_type = EXCLUDED.pet_type`, s.table)

	args := []any{p.ID, p.Title, p.Description, p.Price, p.URL, p.Image, string(p.PetType)}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// GetAll returns every record ordered by id, giving index builds a stable
// corpus order.
func (s *Store) GetAll(ctx context.Context) ([]catalog.Product, error) {
	query := fmt.Sprintf(
		`SELECT id, title, description, price, url, image, pet_type FROM %s ORDER BY id`,
		s.table,
	)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		var p catalog.Product
		var petType string
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.URL, &p.Image, &petType); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.PetType = catalog.PetType(petType)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)
	if err := s.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// CountByPetType returns per-label record counts.
func (s *Store) CountByPetType(ctx context.Context) (map[catalog.PetType]int, error) {
	query := fmt.Sprintf(`SELECT pet_type, COUNT(*) FROM %s GROUP BY pet_type`, s.table)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count by pet type: %w", err)
	}
	defer rows.Close()

	counts := make(map[catalog.PetType]int)
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("scan pet type count: %w", err)
		}
		counts[catalog.PetType(label)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pet type counts: %w", err)
	}
	return counts, nil
}

// Clear removes every record. Irreversible.
func (s *Store) Clear(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s`, s.table)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}
	return nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}
