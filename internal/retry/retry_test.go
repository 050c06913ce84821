package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDo_SucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), discardLogger(), time.Millisecond, func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("expected %q, got %q", "ok", got)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDo_SucceedsOnThirdAttempt(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), discardLogger(), time.Millisecond, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDo_ExhaustsAfterFiveAttempts(t *testing.T) {
	failure := errors.New("store unavailable")
	calls := 0
	_, err := Do(context.Background(), discardLogger(), time.Millisecond, func() (int, error) {
		calls++
		return 0, failure
	})
	if calls != Attempts {
		t.Fatalf("expected %d calls, got %d", Attempts, calls)
	}
	// The last failure must be propagated unchanged.
	if err != failure {
		t.Fatalf("expected original error %v, got %v", failure, err)
	}
}

func TestDo_RetriesAnyErrorKind(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), discardLogger(), time.Millisecond, func() (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("some arbitrary failure")
		}
		return 1, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestDo_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Do(ctx, discardLogger(), time.Second, func() (int, error) {
		calls++
		return 0, errors.New("transient")
	})
	if err == nil {
		t.Fatal("expected error from cancellation, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", calls)
	}
}

func TestDoVoid_PropagatesLastError(t *testing.T) {
	failure := errors.New("still broken")
	calls := 0
	err := DoVoid(context.Background(), discardLogger(), time.Millisecond, func() error {
		calls++
		return failure
	})
	if calls != Attempts {
		t.Fatalf("expected %d calls, got %d", Attempts, calls)
	}
	if err != failure {
		t.Fatalf("expected original error %v, got %v", failure, err)
	}
}
