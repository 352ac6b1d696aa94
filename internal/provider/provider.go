// Package provider implements the gateway to external text-generation
// services. Zero or more providers are configured at startup; the gateway
// walks them in priority order with a hard per-attempt timeout and bounded
// retry, and degrades to an explicit Disabled state when no credential is
// present. Callers never see a raw transport error: every failure is typed.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDisabled is returned by Generate when no provider is configured.
// It is an expected state, not a fault: callers branch on it to keep the
// non-AI baseline working.
var ErrDisabled = errors.New("assistance disabled: no provider configured")

// Request is a single generation request, already rendered to provider
// instructions by the prompt registry.
type Request struct {
	Task        string
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Response carries the raw provider output back to the adapter.
type Response struct {
	Text     string
	Provider string
	// Fallback is true when the answering provider was not the top-priority
	// one. Adapters surface this as a Degraded result.
	Fallback bool
	Elapsed  time.Duration
}

// FailureKind classifies why a provider attempt failed.
type FailureKind string

const (
	FailureTimeout     FailureKind = "timeout"
	FailureRateLimited FailureKind = "rate_limited"
	FailureTransport   FailureKind = "transport"
	// FailureBadResponse covers HTTP-level rejections and empty completions;
	// these are not retried against the same provider.
	FailureBadResponse FailureKind = "bad_response"
)

// Failure is a typed provider error.
type Failure struct {
	Kind   FailureKind
	Status int // HTTP status when applicable, else 0
	Err    error
}

func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("%s (HTTP %d): %v", f.Kind, f.Status, f.Err)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Retryable reports whether another attempt against the same provider can
// plausibly succeed.
func (f *Failure) Retryable() bool {
	switch f.Kind {
	case FailureRateLimited, FailureTransport, FailureTimeout:
		return true
	}
	return false
}

// classify wraps an arbitrary client error into a Failure.
func classify(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Failure{Kind: FailureTimeout, Err: err}
	}
	return &Failure{Kind: FailureTransport, Err: err}
}

// statusFailure builds a Failure from an HTTP status code.
func statusFailure(status int, body string) *Failure {
	kind := FailureBadResponse
	switch {
	case status == 429:
		kind = FailureRateLimited
	case status >= 500:
		kind = FailureTransport
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return &Failure{Kind: kind, Status: status, Err: fmt.Errorf("provider rejected request: %s", strings.TrimSpace(body))}
}

// AttemptFailure records one failed attempt for the chain error report.
type AttemptFailure struct {
	Provider string
	Attempt  int
	Kind     FailureKind
	Err      error
	Elapsed  time.Duration
}

// ChainError aggregates the per-provider failures after the whole chain is
// exhausted.
type ChainError struct {
	Attempts []AttemptFailure
}

func (e *ChainError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s#%d %s: %v", a.Provider, a.Attempt, a.Kind, a.Err))
	}
	return "all providers failed: " + strings.Join(parts, "; ")
}

// Client is a single text-generation provider.
type Client interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}
