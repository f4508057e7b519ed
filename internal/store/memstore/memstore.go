// Package memstore provides an in-memory core.Store.
//
// It is meant for tests and local demos; data does not survive the process.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/helprobot/internal/core"
)

// Store keeps brands and error codes in maps guarded by a single mutex.
type Store struct {
	mu     sync.RWMutex
	codes  map[string]core.ErrorCode
	brands map[string]core.Brand
	now    func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		codes:  make(map[string]core.ErrorCode),
		brands: make(map[string]core.Brand),
		now:    time.Now,
	}
}

// WithClock replaces the clock used to stamp created_at. For tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *Store) FindErrorCodes(ctx context.Context, filter core.ErrorCodeFilter) ([]core.ErrorCode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.ErrorCode
	for _, rec := range s.codes {
		if filter.Matches(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *Store) GetErrorCode(ctx context.Context, code string) (core.ErrorCode, error) {
	if err := ctx.Err(); err != nil {
		return core.ErrorCode{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.codes[code]
	if !ok {
		return core.ErrorCode{}, core.ErrNotFound
	}
	return rec, nil
}

func (s *Store) UpsertErrorCode(ctx context.Context, code string, fields core.ErrorCodeFields) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.codes[code]
	if !exists {
		rec = core.ErrorCode{Code: code, CreatedAt: s.now().UTC()}
	}
	rec.ErrorCodeFields = fields
	s.codes[code] = rec
	return !exists, nil
}

func (s *Store) DeleteErrorCode(ctx context.Context, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.codes[code]; !ok {
		return core.ErrNotFound
	}
	delete(s.codes, code)
	return nil
}

func (s *Store) CountErrorCodes(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.codes)), nil
}

func (s *Store) FindBrands(ctx context.Context, filter core.BrandFilter) ([]core.Brand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Brand
	for _, b := range s.brands {
		if filter.Matches(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *Store) GetBrand(ctx context.Context, name string) (core.Brand, error) {
	if err := ctx.Err(); err != nil {
		return core.Brand{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.brands[name]
	if !ok {
		return core.Brand{}, core.ErrNotFound
	}
	return b, nil
}

func (s *Store) UpsertBrand(ctx context.Context, brand core.Brand) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.brands[brand.Name]
	s.brands[brand.Name] = brand
	return !exists, nil
}

func (s *Store) DeleteBrand(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.brands[name]; !ok {
		return core.ErrNotFound
	}
	delete(s.brands, name)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

var _ core.Store = (*Store)(nil)
