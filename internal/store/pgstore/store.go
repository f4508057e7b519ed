// Package pgstore provides a PostgreSQL-backed core.Store using a pgx pool.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/JonMunkholm/helprobot/internal/store/pgstore/migrations"
	"github.com/JonMunkholm/helprobot/internal/store/sqlbuild"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const errorCodeColumns = `code, title, cause_en, remedy_en, cause_fr, remedy_fr, created_at`

// PoolOptions tunes the connection pool. Zero values keep pgx defaults.
type PoolOptions struct {
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DBTX is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// Store persists brands and error codes in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	db   DBTX
}

// Open connects to databaseURL, verifies the connection and applies
// embedded migrations.
func Open(ctx context.Context, databaseURL string, opts PoolOptions) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if opts.MaxConns > 0 {
		poolConfig.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns > 0 {
		poolConfig.MinConns = int32(opts.MinConns)
	}
	if opts.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := applyMigrations(ctx, pool, migrations.FS); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{pool: pool, db: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) FindErrorCodes(ctx context.Context, filter core.ErrorCodeFilter) ([]core.ErrorCode, error) {
	cols := filter.Columns()
	if filter.Text != "" && len(cols) == 0 {
		return nil, nil
	}
	wb := sqlbuild.NewWhereBuilder(sqlbuild.Postgres)
	wb.AddSearch(filter.Text, cols)
	if !filter.CreatedSince.IsZero() {
		wb.AddCompare("created_at", ">=", filter.CreatedSince)
	}
	where, args := wb.Build()

	query := "SELECT " + errorCodeColumns + " FROM error_codes" + where + " ORDER BY code" + sqlbuild.Limit(filter.Limit)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error codes: %w", err)
	}
	out, err := pgx.CollectRows(rows, scanErrorCode)
	if err != nil {
		return nil, fmt.Errorf("collect error codes: %w", err)
	}
	return out, nil
}

func (s *Store) GetErrorCode(ctx context.Context, code string) (core.ErrorCode, error) {
	rows, err := s.db.Query(ctx, "SELECT "+errorCodeColumns+" FROM error_codes WHERE code = $1", code)
	if err != nil {
		return core.ErrorCode{}, fmt.Errorf("get error code %s: %w", code, err)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, scanErrorCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrorCode{}, core.ErrNotFound
	}
	if err != nil {
		return core.ErrorCode{}, fmt.Errorf("get error code %s: %w", code, err)
	}
	return rec, nil
}

// UpsertErrorCode relies on the unique index on code. xmax is zero only for
// a freshly inserted tuple, which tells inserts from updates apart.
func (s *Store) UpsertErrorCode(ctx context.Context, code string, f core.ErrorCodeFields) (bool, error) {
	var created bool
	err := s.db.QueryRow(ctx, `
INSERT INTO error_codes (code, title, cause_en, remedy_en, cause_fr, remedy_fr)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (code) DO UPDATE SET
    title = EXCLUDED.title,
    cause_en = EXCLUDED.cause_en,
    remedy_en = EXCLUDED.remedy_en,
    cause_fr = EXCLUDED.cause_fr,
    remedy_fr = EXCLUDED.remedy_fr
RETURNING (xmax = 0)`,
		code, f.Title, f.CauseEN, f.RemedyEN, f.CauseFR, f.RemedyFR,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upsert error code %s: %w", code, err)
	}
	return created, nil
}

func (s *Store) DeleteErrorCode(ctx context.Context, code string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM error_codes WHERE code = $1", code)
	if err != nil {
		return fmt.Errorf("delete error code %s: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) CountErrorCodes(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM error_codes").Scan(&n); err != nil {
		return 0, fmt.Errorf("count error codes: %w", err)
	}
	return n, nil
}

func (s *Store) FindBrands(ctx context.Context, filter core.BrandFilter) ([]core.Brand, error) {
	wb := sqlbuild.NewWhereBuilder(sqlbuild.Postgres)
	wb.AddSearch(filter.Text, []string{"name"})
	if filter.Active != nil {
		wb.Add("is_active", *filter.Active)
	}
	where, args := wb.Build()

	rows, err := s.db.Query(ctx, "SELECT name, is_active FROM brands"+where+" ORDER BY name"+sqlbuild.Limit(filter.Limit), args...)
	if err != nil {
		return nil, fmt.Errorf("query brands: %w", err)
	}
	out, err := pgx.CollectRows(rows, scanBrand)
	if err != nil {
		return nil, fmt.Errorf("collect brands: %w", err)
	}
	return out, nil
}

func (s *Store) GetBrand(ctx context.Context, name string) (core.Brand, error) {
	rows, err := s.db.Query(ctx, "SELECT name, is_active FROM brands WHERE name = $1", name)
	if err != nil {
		return core.Brand{}, fmt.Errorf("get brand %s: %w", name, err)
	}
	b, err := pgx.CollectExactlyOneRow(rows, scanBrand)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Brand{}, core.ErrNotFound
	}
	if err != nil {
		return core.Brand{}, fmt.Errorf("get brand %s: %w", name, err)
	}
	return b, nil
}

func (s *Store) UpsertBrand(ctx context.Context, brand core.Brand) (bool, error) {
	var created bool
	err := s.db.QueryRow(ctx, `
INSERT INTO brands (name, is_active) VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET is_active = EXCLUDED.is_active
RETURNING (xmax = 0)`,
		brand.Name, brand.IsActive,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upsert brand %s: %w", brand.Name, err)
	}
	return created, nil
}

func (s *Store) DeleteBrand(ctx context.Context, name string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM brands WHERE name = $1", name)
	if err != nil {
		return fmt.Errorf("delete brand %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanErrorCode(row pgx.CollectableRow) (core.ErrorCode, error) {
	var rec core.ErrorCode
	err := row.Scan(&rec.Code, &rec.Title, &rec.CauseEN, &rec.RemedyEN, &rec.CauseFR, &rec.RemedyFR, &rec.CreatedAt)
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, err
}

func scanBrand(row pgx.CollectableRow) (core.Brand, error) {
	var b core.Brand
	err := row.Scan(&b.Name, &b.IsActive)
	return b, err
}

var _ core.Store = (*Store)(nil)
