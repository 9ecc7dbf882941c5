package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/JaimeStill/scout/pkg/retry"
)

var (
	ErrTruncated       = errors.New("response exceeded token limit")
	ErrEmpty           = errors.New("empty response from model")
	ErrBlocked         = errors.New("prompt blocked by model")
	ErrInvalidResponse = errors.New("invalid response structure")
)

// CallError is a failed model call. It carries the HTTP status and any retry
// delay the server asked for.
type CallError struct {
	Op     string
	Code   int
	Status string
	Err    error
	Delay  time.Duration
}

func (e *CallError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: api error %d %s: %v", e.Op, e.Code, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// RetryAfter returns the server supplied retry delay, or zero.
func (e *CallError) RetryAfter() time.Duration {
	return e.Delay
}

// RateLimited reports whether the server rejected the call for quota reasons.
func (e *CallError) RateLimited() bool {
	return e.Code == http.StatusTooManyRequests
}

// Transient reports whether the status signals a rate limit or service fault.
func (e *CallError) Transient() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

// classify wraps a failure from the generate call. Every model failure stays
// retryable; only an expired caller context ends the retry loop early.
func classify(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return retry.Permanent(&CallError{Op: op, Err: err})
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &CallError{
			Op:     op,
			Code:   apiErr.Code,
			Status: apiErr.Status,
			Err:    errors.New(apiErr.Message),
			Delay:  retryDelay(apiErr.Details),
		}
	}

	return &CallError{Op: op, Err: err}
}

func retryDelay(details []map[string]any) time.Duration {
	for _, d := range details {
		kind, _ := d["@type"].(string)
		if !strings.HasSuffix(kind, "google.rpc.RetryInfo") {
			continue
		}
		raw, _ := d["retryDelay"].(string)
		if delay, err := time.ParseDuration(raw); err == nil && delay > 0 {
			return delay
		}
	}
	return 0
}
