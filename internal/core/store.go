package core

import "context"

// Store is the record store for brands and error codes.
//
// Implementations must rely on the engine's unique keys for upserts so that
// concurrent writers resolve to last-write-wins per key. Upserts never modify
// CreatedAt of an existing row.
type Store interface {
	// FindErrorCodes returns error codes matching the filter, ordered by code.
	FindErrorCodes(ctx context.Context, filter ErrorCodeFilter) ([]ErrorCode, error)
	// GetErrorCode returns ErrNotFound when no row has this code.
	GetErrorCode(ctx context.Context, code string) (ErrorCode, error)
	// UpsertErrorCode inserts a row for code or updates its mutable fields.
	// created reports whether a new row was inserted.
	UpsertErrorCode(ctx context.Context, code string, fields ErrorCodeFields) (created bool, err error)
	// DeleteErrorCode returns ErrNotFound when no row has this code.
	DeleteErrorCode(ctx context.Context, code string) error
	CountErrorCodes(ctx context.Context) (int64, error)

	// FindBrands returns brands matching the filter, ordered by name.
	FindBrands(ctx context.Context, filter BrandFilter) ([]Brand, error)
	// GetBrand returns ErrNotFound when no brand has this name.
	GetBrand(ctx context.Context, name string) (Brand, error)
	// UpsertBrand inserts the brand or updates its active flag.
	UpsertBrand(ctx context.Context, brand Brand) (created bool, err error)
	// DeleteBrand returns ErrNotFound when no brand has this name.
	DeleteBrand(ctx context.Context, name string) error

	Close() error
}
