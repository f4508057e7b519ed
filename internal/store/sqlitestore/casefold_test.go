package sqlitestore

import (
	"database/sql/driver"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCasefold(t *testing.T) {
	tests := []struct {
		in   driver.Value
		want driver.Value
	}{
		{in: "TEMPÉRATURE ÉLEVÉE", want: "température élevée"},
		{in: []byte("ÇA"), want: "ça"},
		{in: nil, want: nil},
		{in: int64(7), want: int64(7)},
	}
	for _, tt := range tests {
		got, err := casefold(nil, []driver.Value{tt.in})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
