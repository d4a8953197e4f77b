package app

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultFollowInterval = 2 * time.Second
	maxBackoff            = 30 * time.Second
)

// Reloader re-reads persisted history. *session.Session satisfies it.
type Reloader interface {
	Reload(ctx context.Context) error
}

// StartFollower launches a background goroutine that reloads history at a
// fixed cadence so saves recorded by another process show up. Failures back
// off exponentially. It returns immediately.
func StartFollower(ctx context.Context, r Reloader, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultFollowInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if err := r.Reload(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				logger.Warn("follow reload failed", "failures", failures, "error", err)
			} else {
				failures = 0
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
