package models

import (
	"errors"
	"fmt"
)

// Domain error kinds. Callers branch with errors.Is rather than
// inspecting messages; the HTTP layer maps each kind to a status.
var (
	// ErrRateLimited means the admission window is full.
	ErrRateLimited = errors.New("rate limit exceeded, please try again later")

	// ErrNoData means the upstream returned no usable data after retries.
	ErrNoData = errors.New("no data available after retries")

	// ErrInvalidRequest means the caller's input is malformed (e.g. empty batch).
	ErrInvalidRequest = errors.New("invalid request")
)

// ProviderError wraps a transport or parse fault from the upstream.
// The retry loop absorbs these; only exhaustion surfaces to callers.
type ProviderError struct {
	Symbol string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider: %s: %v", e.Symbol, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
