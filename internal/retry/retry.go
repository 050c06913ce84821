// Package retry wraps operations with bounded exponential-backoff retry.
// The orchestration loops are long-running and unattended; transient
// failures (store locked, network glitch) must not abort a whole run, so
// every external-facing call goes through this wrapper.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Attempts is the total number of tries, including the first one.
const Attempts = 5

// Do runs op, retrying on any error with exponential backoff: the delay
// starts at base and doubles before each subsequent attempt. The policy is
// not selective by error kind. If the final attempt fails, the last error is
// returned unchanged.
//
// The backoff sleep honors ctx and blocks only the calling goroutine.
func Do[T any](ctx context.Context, logger *slog.Logger, base time.Duration, op func() (T, error)) (T, error) {
	var zero T

	delay := base
	var lastErr error

	for attempt := 1; attempt <= Attempts; attempt++ {
		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == Attempts {
			break
		}

		logger.Warn("retrying after failure",
			"attempt", attempt,
			"max_attempts", Attempts,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return zero, lastErr
}

// DoVoid is Do for operations without a result.
func DoVoid(ctx context.Context, logger *slog.Logger, base time.Duration, op func() error) error {
	_, err := Do(ctx, logger, base, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}
