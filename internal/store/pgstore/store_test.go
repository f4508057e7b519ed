package pgstore

import (
	"context"
	"os"
	"testing"

	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/JonMunkholm/helprobot/internal/store/storetest"
	"github.com/stretchr/testify/require"
)

// TestStore runs against a live PostgreSQL when TEST_DATABASE_URL is set.
// Tables are truncated before every subtest.
func TestStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := Open(ctx, url, PoolOptions{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	storetest.Run(t, func(t *testing.T) core.Store {
		_, err := s.pool.Exec(ctx, "TRUNCATE error_codes, brands")
		require.NoError(t, err)
		return s
	})
}

func TestOpenRejectsBadURL(t *testing.T) {
	_, err := Open(context.Background(), "postgres://%zz", PoolOptions{})
	require.Error(t, err)
}
