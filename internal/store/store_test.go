package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendFor(t *testing.T) {
	tests := []struct {
		url          string
		wantBackend  Backend
		wantLocation string
		wantErr      bool
	}{
		{url: "postgres://u:p@db:5432/help", wantBackend: BackendPostgres, wantLocation: "postgres://u:p@db:5432/help"},
		{url: "postgresql://db/help", wantBackend: BackendPostgres, wantLocation: "postgresql://db/help"},
		{url: "sqlite://data/help.db", wantBackend: BackendSQLite, wantLocation: "data/help.db"},
		{url: "file:help.db", wantBackend: BackendSQLite, wantLocation: "help.db"},
		{url: "memory://", wantBackend: BackendMemory},
		{url: "mysql://root@db/help", wantErr: true},
		{url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			backend, location, err := BackendFor(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.NotContains(t, err.Error(), "root@")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBackend, backend)
			assert.Equal(t, tt.wantLocation, location)
		})
	}
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "help.db")

	s, backend, err := Open(context.Background(), Options{URL: "sqlite://" + path})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, BackendSQLite, backend)
	n, err := s.CountErrorCodes(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenMemory(t *testing.T) {
	s, backend, err := Open(context.Background(), Options{URL: "memory://"})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, BackendMemory, backend)
}
