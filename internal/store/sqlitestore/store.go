// Package sqlitestore provides a SQLite-backed core.Store.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/JonMunkholm/helprobot/internal/store/sqlbuild"
	"github.com/JonMunkholm/helprobot/internal/store/sqlitestore/migrations"
)

const errorCodeColumns = `code, title, cause_en, remedy_en, cause_fr, remedy_fr, created_at`

// Store persists brands and error codes in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) FindErrorCodes(ctx context.Context, filter core.ErrorCodeFilter) ([]core.ErrorCode, error) {
	cols := filter.Columns()
	if filter.Text != "" && len(cols) == 0 {
		return nil, nil
	}
	wb := sqlbuild.NewWhereBuilder(sqlbuild.SQLite)
	wb.AddSearch(filter.Text, cols)
	if !filter.CreatedSince.IsZero() {
		wb.AddCompare("created_at", ">=", toMillis(filter.CreatedSince))
	}
	where, args := wb.Build()

	query := "SELECT " + errorCodeColumns + " FROM error_codes" + where + " ORDER BY code" + sqlbuild.Limit(filter.Limit)
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error codes: %w", err)
	}
	defer rows.Close()

	var out []core.ErrorCode
	for rows.Next() {
		rec, err := scanErrorCode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate error codes: %w", err)
	}
	return out, nil
}

func (s *Store) GetErrorCode(ctx context.Context, code string) (core.ErrorCode, error) {
	row := s.sqlDB.QueryRowContext(ctx, "SELECT "+errorCodeColumns+" FROM error_codes WHERE code = ?", code)
	rec, err := scanErrorCode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrorCode{}, core.ErrNotFound
	}
	return rec, err
}

// UpsertErrorCode inserts the row unless the code exists, then falls back to
// an update of the mutable fields. Each statement is atomic on its own; the
// loop covers a row deleted between the two.
func (s *Store) UpsertErrorCode(ctx context.Context, code string, f core.ErrorCodeFields) (bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		res, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO error_codes (code, title, cause_en, remedy_en, cause_fr, remedy_fr, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (code) DO NOTHING`,
			code, f.Title, f.CauseEN, f.RemedyEN, f.CauseFR, f.RemedyFR, toMillis(s.now()),
		)
		if err != nil {
			return false, fmt.Errorf("insert error code %s: %w", code, err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			return true, nil
		}

		res, err = s.sqlDB.ExecContext(ctx, `
UPDATE error_codes
SET title = ?, cause_en = ?, remedy_en = ?, cause_fr = ?, remedy_fr = ?
WHERE code = ?`,
			f.Title, f.CauseEN, f.RemedyEN, f.CauseFR, f.RemedyFR, code,
		)
		if err != nil {
			return false, fmt.Errorf("update error code %s: %w", code, err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			return false, nil
		}
	}
	return false, fmt.Errorf("upsert error code %s: row changed concurrently", code)
}

func (s *Store) DeleteErrorCode(ctx context.Context, code string) error {
	res, err := s.sqlDB.ExecContext(ctx, "DELETE FROM error_codes WHERE code = ?", code)
	if err != nil {
		return fmt.Errorf("delete error code %s: %w", code, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) CountErrorCodes(ctx context.Context) (int64, error) {
	var n int64
	if err := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM error_codes").Scan(&n); err != nil {
		return 0, fmt.Errorf("count error codes: %w", err)
	}
	return n, nil
}

func (s *Store) FindBrands(ctx context.Context, filter core.BrandFilter) ([]core.Brand, error) {
	wb := sqlbuild.NewWhereBuilder(sqlbuild.SQLite)
	wb.AddSearch(filter.Text, []string{"name"})
	if filter.Active != nil {
		wb.Add("is_active", *filter.Active)
	}
	where, args := wb.Build()

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT name, is_active FROM brands"+where+" ORDER BY name"+sqlbuild.Limit(filter.Limit), args...)
	if err != nil {
		return nil, fmt.Errorf("query brands: %w", err)
	}
	defer rows.Close()

	var out []core.Brand
	for rows.Next() {
		var b core.Brand
		if err := rows.Scan(&b.Name, &b.IsActive); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brands: %w", err)
	}
	return out, nil
}

func (s *Store) GetBrand(ctx context.Context, name string) (core.Brand, error) {
	var b core.Brand
	err := s.sqlDB.QueryRowContext(ctx, "SELECT name, is_active FROM brands WHERE name = ?", name).Scan(&b.Name, &b.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Brand{}, core.ErrNotFound
	}
	if err != nil {
		return core.Brand{}, fmt.Errorf("get brand %s: %w", name, err)
	}
	return b, nil
}

func (s *Store) UpsertBrand(ctx context.Context, brand core.Brand) (bool, error) {
	res, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO brands (name, is_active) VALUES (?, ?) ON CONFLICT (name) DO NOTHING",
		brand.Name, brand.IsActive,
	)
	if err != nil {
		return false, fmt.Errorf("insert brand %s: %w", brand.Name, err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return true, nil
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		"UPDATE brands SET is_active = ? WHERE name = ?", brand.IsActive, brand.Name,
	); err != nil {
		return false, fmt.Errorf("update brand %s: %w", brand.Name, err)
	}
	return false, nil
}

func (s *Store) DeleteBrand(ctx context.Context, name string) error {
	res, err := s.sqlDB.ExecContext(ctx, "DELETE FROM brands WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete brand %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanErrorCode(row rowScanner) (core.ErrorCode, error) {
	var (
		rec       core.ErrorCode
		createdAt int64
	)
	err := row.Scan(&rec.Code, &rec.Title, &rec.CauseEN, &rec.RemedyEN, &rec.CauseFR, &rec.RemedyFR, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrorCode{}, err
		}
		return core.ErrorCode{}, fmt.Errorf("scan error code: %w", err)
	}
	rec.CreatedAt = fromMillis(createdAt)
	return rec, nil
}

var _ core.Store = (*Store)(nil)
