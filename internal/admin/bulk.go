package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/helprobot/internal/core"
)

type deleteFn func(ctx context.Context) error

// DeleteErrorCodes removes the selected error codes one by one and returns
// how many were deleted. Codes that no longer exist are skipped; any other
// failure stops the run.
func (s *Service) DeleteErrorCodes(ctx context.Context, codes []string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, OpTimeout)
	defer cancel()

	deletes := make([]deleteFn, len(codes))
	for i, code := range codes {
		deletes[i] = func(ctx context.Context) error { return s.DeleteErrorCode(ctx, code) }
	}
	n, err := runDeletes(ctx, deletes)
	if err != nil {
		return n, fmt.Errorf("bulk delete: %w", err)
	}
	return n, nil
}

func runDeletes(ctx context.Context, deletes []deleteFn) (int, error) {
	n := 0
	for _, del := range deletes {
		err := del(ctx)
		if errors.Is(err, core.ErrNotFound) {
			continue
		}
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound)
}
