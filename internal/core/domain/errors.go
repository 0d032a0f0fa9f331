package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown request class or analysis type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnavailable indicates neither the upstream nor the static snapshot
	// could answer a query.
	ErrUnavailable = errors.New("data unavailable")

	// Upstream Errors.

	// ErrTransientUpstream matches upstream failures worth retrying:
	// timeouts, 5xx, 429 and unreachable networks.
	ErrTransientUpstream = errors.New("transient upstream failure")

	// ErrTerminalUpstream matches upstream failures that retrying cannot fix:
	// 404, authentication failures, malformed responses.
	ErrTerminalUpstream = errors.New("terminal upstream failure")

	// ErrRateLimited indicates the upstream rejected a request with 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthInvalid indicates the upstream rejected the API key.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateBudgetExhausted is internal: the caller is queued, not failed.
	ErrRateBudgetExhausted = errors.New("rate budget exhausted")

	// ErrSnapshotUnavailable indicates no static snapshot is configured.
	ErrSnapshotUnavailable = errors.New("static snapshot unavailable")
)

// FailureKind classifies a failed upstream attempt.
type FailureKind string

// Failure kinds.
const (
	FailureTimeout     FailureKind = "timeout"
	FailureServer      FailureKind = "server"
	FailureRateLimited FailureKind = "rate_limited"
	FailureUnreachable FailureKind = "unreachable"
	FailureAuth        FailureKind = "auth"
	FailureNotFound    FailureKind = "not_found"
	FailureMalformed   FailureKind = "malformed"
	FailureClient      FailureKind = "client"
)

// Retryable reports whether a failure of this kind is transient.
func (k FailureKind) Retryable() bool {
	switch k {
	case FailureTimeout, FailureServer, FailureRateLimited, FailureUnreachable:
		return true
	default:
		return false
	}
}

// UpstreamError describes one failed call to the remote records API.
type UpstreamError struct {
	Kind       FailureKind
	StatusCode int
	RetryAfter time.Duration
	Endpoint   string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("upstream %s", e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Endpoint != "" {
		msg = fmt.Sprintf("%s on %s", msg, e.Endpoint)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is lets callers match an UpstreamError against the domain sentinels.
func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrTransientUpstream:
		return e.Kind.Retryable()
	case ErrTerminalUpstream:
		return !e.Kind.Retryable()
	case ErrRateLimited:
		return e.Kind == FailureRateLimited
	case ErrNotFound:
		return e.Kind == FailureNotFound
	case ErrAuthInvalid:
		return e.Kind == FailureAuth
	default:
		return false
	}
}

// ClassifyFailure maps any error from an upstream attempt to a FailureKind.
// Deadline expiry counts as a timeout; dial and DNS errors as unreachable.
// Unknown errors are treated as malformed so they are never retried.
func ClassifyFailure(err error) FailureKind {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return FailureUnreachable
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return FailureUnreachable
	}
	return FailureMalformed
}

// RetriesExhaustedError is returned once a retryable failure outlives its policy.
type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Last
}

// UnavailableError is the structured "no data" answer handed to consumers
// when both the live and the static lookups came up empty.
type UnavailableError struct {
	Signature RequestSignature
	Live      error
	Static    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: live: %v; static: %v", e.Signature, e.Live, e.Static)
}

// Unwrap exposes both underlying causes.
func (e *UnavailableError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Live != nil {
		errs = append(errs, e.Live)
	}
	if e.Static != nil {
		errs = append(errs, e.Static)
	}
	return errs
}

// Is matches ErrUnavailable.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}
