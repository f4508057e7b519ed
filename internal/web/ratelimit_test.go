package web

import (
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.allow("10.0.0.1") || !rl.allow("10.0.0.1") {
		t.Fatal("first two requests should be allowed")
	}
	if rl.allow("10.0.0.1") {
		t.Error("third request in the window should be rejected")
	}
	if !rl.allow("10.0.0.2") {
		t.Error("other clients have their own bucket")
	}

	now = now.Add(61 * time.Second)
	if !rl.allow("10.0.0.1") {
		t.Error("bucket should refill after the window")
	}
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	rl.stop()
	rl.stop()
}
