// Package retry runs fallible operations with bounded attempts and exponential backoff.
// A server-provided retry hint on the failure replaces the computed delay.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted wraps the last failure once every attempt has been used.
var ErrExhausted = errors.New("retry attempts exhausted")

// RetryAfter is implemented by errors that carry a server retry hint.
type RetryAfter interface {
	RetryAfter() time.Duration
}

// Operation is a single attempt. Attempt numbers start at 1.
type Operation[T any] func(ctx context.Context, attempt int) (T, error)

// Attempt describes the outcome of one call to an Operation.
// Delay is the wait before the next attempt and is zero when no attempt follows.
type Attempt struct {
	Number      int
	MaxAttempts int
	Err         error
	Delay       time.Duration
}

// Failed reports whether the attempt returned an error.
func (a Attempt) Failed() bool {
	return a.Err != nil
}

// Final reports whether no further attempt follows this one.
func (a Attempt) Final() bool {
	return a.Err == nil || a.Number >= a.MaxAttempts || IsPermanent(a.Err)
}

// Policy bounds the number of attempts and shapes the backoff curve.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Attempts returns MaxAttempts, treating non-positive values as a single attempt.
func (p Policy) Attempts() int {
	return max(p.MaxAttempts, 1)
}

// Delay returns the backoff after the given failed attempt: BaseDelay * 2^attempt,
// capped at MaxDelay when MaxDelay is positive.
func (p Policy) Delay(attempt int) time.Duration {
	if p.BaseDelay <= 0 || attempt < 0 {
		return 0
	}

	d := p.BaseDelay
	for range attempt {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	return p.cap(d)
}

func (p Policy) delayFor(attempt int, err error) time.Duration {
	var hinted RetryAfter
	if errors.As(err, &hinted) {
		if hint := hinted.RetryAfter(); hint > 0 {
			return p.cap(hint)
		}
	}
	return p.Delay(attempt)
}

func (p Policy) cap(d time.Duration) time.Duration {
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Do runs op until it succeeds, returns a permanent error, or the policy runs out of attempts.
// observe, when non-nil, is called exactly once per attempt. Exhaustion and cancellation are
// reported as ErrExhausted wrapping the cause. Panics raised by op are recovered as failures.
func Do[T any](ctx context.Context, p Policy, op Operation[T], observe func(Attempt)) (T, error) {
	var zero T
	attempts := p.Attempts()

	var last error
	used := 0

	for n := 1; n <= attempts; n++ {
		used = n

		result, err := call(ctx, op, n)
		if err == nil {
			notify(observe, Attempt{Number: n, MaxAttempts: attempts})
			return result, nil
		}

		last = err
		if n == attempts || IsPermanent(err) {
			notify(observe, Attempt{Number: n, MaxAttempts: attempts, Err: err})
			break
		}

		delay := p.delayFor(n, err)
		notify(observe, Attempt{Number: n, MaxAttempts: attempts, Err: err, Delay: delay})

		if err := wait(ctx, delay); err != nil {
			return zero, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, n, err)
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, used, last)
}

func call[T any](ctx context.Context, op Operation[T], attempt int) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("attempt %d panicked: %v", attempt, r)
		}
	}()
	return op(ctx, attempt)
}

func notify(observe func(Attempt), a Attempt) {
	if observe != nil {
		observe(a)
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
