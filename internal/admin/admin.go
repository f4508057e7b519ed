// Package admin provides the administrative operations behind the admin
// interface: listing, editing and deleting brands and error codes.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/JonMunkholm/helprobot/internal/logging"
)

// ListLimit caps the rows returned by list operations.
const ListLimit = 100

// OpTimeout bounds a single admin operation.
const OpTimeout = 30 * time.Second

// CreatedFilter is a created_at bucket of the error-code list.
type CreatedFilter string

const (
	CreatedAny   CreatedFilter = ""
	CreatedToday CreatedFilter = "today"
	CreatedPast7 CreatedFilter = "past7"
	CreatedMonth CreatedFilter = "month"
	CreatedYear  CreatedFilter = "year"
)

// CreatedFilters lists the filter choices in display order.
var CreatedFilters = []CreatedFilter{CreatedAny, CreatedToday, CreatedPast7, CreatedMonth, CreatedYear}

// Valid reports whether f is a known filter.
func (f CreatedFilter) Valid() bool {
	for _, c := range CreatedFilters {
		if f == c {
			return true
		}
	}
	return false
}

// Label is the text of the filter link.
func (f CreatedFilter) Label() string {
	switch f {
	case CreatedToday:
		return "Today"
	case CreatedPast7:
		return "Past 7 days"
	case CreatedMonth:
		return "This month"
	case CreatedYear:
		return "This year"
	default:
		return "Any date"
	}
}

// Since returns the lower created_at bound of f relative to now,
// in now's location. CreatedAny returns the zero time.
func (f CreatedFilter) Since(now time.Time) time.Time {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	switch f {
	case CreatedToday:
		return today
	case CreatedPast7:
		return today.AddDate(0, 0, -7)
	case CreatedMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	case CreatedYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}
	}
}

// ErrorCodeQuery filters the error-code list.
type ErrorCodeQuery struct {
	Search  string
	Created CreatedFilter
}

// BrandQuery filters the brand list. A nil Active lists every brand.
type BrandQuery struct {
	Search string
	Active *bool
}

// Service runs admin operations against a store and logs every change
// with the actor and IP address carried by the context.
type Service struct {
	store core.Store
	now   func() time.Time
}

// NewService creates a Service backed by store.
func NewService(store core.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock replaces the clock used by created-date filters. For tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ListErrorCodes returns up to ListLimit error codes ordered by code.
// Search matches code, title and both causes.
func (s *Service) ListErrorCodes(ctx context.Context, q ErrorCodeQuery) ([]core.ErrorCode, error) {
	if !q.Created.Valid() {
		return nil, fmt.Errorf("%w: unknown created filter %q", core.ErrInvalidInput, q.Created)
	}
	return s.store.FindErrorCodes(ctx, core.ErrorCodeFilter{
		Text:         q.Search,
		Fields:       core.SearchFields,
		CreatedSince: q.Created.Since(s.now()),
		Limit:        ListLimit,
	})
}

// GetErrorCode returns one error code or core.ErrNotFound.
func (s *Service) GetErrorCode(ctx context.Context, code string) (core.ErrorCode, error) {
	return s.store.GetErrorCode(ctx, code)
}

// CreateErrorCode adds a new error code.
// It fails with core.ErrAlreadyExists when the code is taken.
func (s *Service) CreateErrorCode(ctx context.Context, code string, fields core.ErrorCodeFields) (core.ErrorCode, error) {
	if err := core.ValidateErrorCode(code, fields); err != nil {
		return core.ErrorCode{}, err
	}
	if _, err := s.store.GetErrorCode(ctx, code); err == nil {
		return core.ErrorCode{}, fmt.Errorf("error code %s: %w", code, core.ErrAlreadyExists)
	} else if !isNotFound(err) {
		return core.ErrorCode{}, err
	}

	if _, err := s.store.UpsertErrorCode(ctx, code, fields); err != nil {
		return core.ErrorCode{}, fmt.Errorf("create error code %s: %w", code, err)
	}
	s.logChange(ctx, "error code created", "code", code)
	return s.store.GetErrorCode(ctx, code)
}

// UpdateErrorCode replaces the fields of an existing error code.
// The code itself and created_at never change.
func (s *Service) UpdateErrorCode(ctx context.Context, code string, fields core.ErrorCodeFields) (core.ErrorCode, error) {
	if err := core.ValidateErrorCode(code, fields); err != nil {
		return core.ErrorCode{}, err
	}
	if _, err := s.store.GetErrorCode(ctx, code); err != nil {
		return core.ErrorCode{}, err
	}

	if _, err := s.store.UpsertErrorCode(ctx, code, fields); err != nil {
		return core.ErrorCode{}, fmt.Errorf("update error code %s: %w", code, err)
	}
	s.logChange(ctx, "error code updated", "code", code)
	return s.store.GetErrorCode(ctx, code)
}

// DeleteErrorCode removes one error code.
func (s *Service) DeleteErrorCode(ctx context.Context, code string) error {
	if err := s.store.DeleteErrorCode(ctx, code); err != nil {
		return err
	}
	s.logChange(ctx, "error code deleted", "code", code)
	return nil
}

// ListBrands returns up to ListLimit brands ordered by name.
func (s *Service) ListBrands(ctx context.Context, q BrandQuery) ([]core.Brand, error) {
	return s.store.FindBrands(ctx, core.BrandFilter{
		Text:   q.Search,
		Active: q.Active,
		Limit:  ListLimit,
	})
}

// GetBrand returns one brand or core.ErrNotFound.
func (s *Service) GetBrand(ctx context.Context, name string) (core.Brand, error) {
	return s.store.GetBrand(ctx, name)
}

// SaveBrand creates or updates a brand and reports whether it was created.
func (s *Service) SaveBrand(ctx context.Context, b core.Brand) (bool, error) {
	if err := core.ValidateBrand(b); err != nil {
		return false, err
	}
	created, err := s.store.UpsertBrand(ctx, b)
	if err != nil {
		return false, fmt.Errorf("save brand %s: %w", b.Name, err)
	}
	s.logChange(ctx, "brand saved", "brand", b.Name, "active", b.IsActive, "created", created)
	return created, nil
}

// DeleteBrand removes one brand.
func (s *Service) DeleteBrand(ctx context.Context, name string) error {
	if err := s.store.DeleteBrand(ctx, name); err != nil {
		return err
	}
	s.logChange(ctx, "brand deleted", "brand", name)
	return nil
}

func (s *Service) logChange(ctx context.Context, msg string, args ...any) {
	logging.WithFields(ctx,
		"actor", core.GetActorFromContext(ctx),
		"ip", core.GetIPAddressFromContext(ctx),
	).Info(msg, args...)
}
