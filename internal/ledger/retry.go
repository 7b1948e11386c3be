package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"

	"kassabot/internal/core"
)

const maxBackoff = 30 * time.Second

// Retrier wraps a Backend with bounded exponential backoff. The spreadsheet
// API is quota-limited and the host wakes from cold starts, so transient
// failures and rate-limit responses are expected in normal operation.
//
// Backoff waits respect the context, so one slow ledger call never blocks
// other in-flight updates.
type Retrier struct {
	backend  Backend
	attempts int
	base     time.Duration
	logger   *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

var _ Backend = (*Retrier)(nil)

// NewRetrier wraps backend with up to attempts tries per call, delaying
// base<<n between tries (capped at 30s) unless the server names its own
// retry delay.
func NewRetrier(backend Backend, attempts int, base time.Duration, logger *slog.Logger) *Retrier {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrier{
		backend:  backend,
		attempts: attempts,
		base:     base,
		logger:   logger,
		sleep:    sleepCtx,
	}
}

func (r *Retrier) Append(ctx context.Context, e core.Entry) (string, error) {
	var ref string
	err := r.do(ctx, "append", func() error {
		var err error
		ref, err = r.backend.Append(ctx, e)
		return err
	})
	return ref, err
}

func (r *Retrier) Query(ctx context.Context, p core.Period) ([]core.Entry, error) {
	var entries []core.Entry
	err := r.do(ctx, "query", func() error {
		var err error
		entries, err = r.backend.Query(ctx, p)
		return err
	})
	return entries, err
}

func (r *Retrier) do(ctx context.Context, op string, call func() error) error {
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			delay := r.delayFor(lastErr, attempt)
			r.logger.Warn("retrying ledger call",
				"operation", op, "attempt", attempt, "delay", delay, "error", lastErr)
			if err := r.sleep(ctx, delay); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
		lastErr = call()
		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) {
			return fmt.Errorf("%s: %w", op, lastErr)
		}
	}
	r.logger.Error("ledger retries exhausted", "operation", op, "attempts", r.attempts, "error", lastErr)
	return fmt.Errorf("%s after %d attempts: %w: %w", op, r.attempts, ErrUnavailable, lastErr)
}

// delayFor prefers a server-supplied Retry-After over the backoff schedule.
func (r *Retrier) delayFor(err error, attempt int) time.Duration {
	if d, ok := retryAfter(err); ok {
		return d
	}
	delay := r.base << (attempt - 1)
	if delay > maxBackoff {
		delay = maxBackoff
	}
	return delay
}

// isTransient reports whether the failure is worth retrying: network
// errors, rate limiting, and server-side 5xx. Client errors are not.
func isTransient(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func retryAfter(err error) (time.Duration, bool) {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0, false
	}
	v := gerr.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d, true
		}
	}
	return 0, false
}

// sleepCtx waits for d or until the context is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
