package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/JonMunkholm/helprobot/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) core.Store { return New() })
}

func TestWithClockStampsCreatedAt(t *testing.T) {
	at := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	s := New().WithClock(func() time.Time { return at })

	_, err := s.UpsertErrorCode(context.Background(), "SRVO-001", storetest.Servo)
	require.NoError(t, err)

	got, err := s.GetErrorCode(context.Background(), "SRVO-001")
	require.NoError(t, err)
	assert.Equal(t, at, got.CreatedAt)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().FindErrorCodes(ctx, core.ErrorCodeFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}
