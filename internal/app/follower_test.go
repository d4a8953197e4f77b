package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 64; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type countingReloader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingReloader) Reload(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.err
}

func (c *countingReloader) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestStartFollowerReloadsUntilCancelled(t *testing.T) {
	r := &countingReloader{}
	ctx, cancel := context.WithCancel(context.Background())
	StartFollower(ctx, r, 10*time.Millisecond, nil)

	deadline := time.Now().Add(2 * time.Second)
	for r.count() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("reloads = %d, want at least 3", r.count())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	time.Sleep(30 * time.Millisecond)
	stopped := r.count()
	time.Sleep(50 * time.Millisecond)
	if got := r.count(); got != stopped {
		t.Fatalf("reloads after cancel = %d, want %d", got, stopped)
	}
}

func TestStartFollowerBacksOffOnFailure(t *testing.T) {
	r := &countingReloader{err: errors.New("unavailable")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartFollower(ctx, r, 20*time.Millisecond, nil)

	// Waits of 20ms then 40ms then 80ms: at most three reloads in 150ms.
	time.Sleep(150 * time.Millisecond)
	if got := r.count(); got < 1 || got > 3 {
		t.Fatalf("reloads = %d, want 1..3 with backoff", got)
	}
}
