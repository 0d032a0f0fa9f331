package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrUnavailable", ErrUnavailable},
		{"ErrTransientUpstream", ErrTransientUpstream},
		{"ErrTerminalUpstream", ErrTerminalUpstream},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrAuthInvalid", ErrAuthInvalid},
		{"ErrRateBudgetExhausted", ErrRateBudgetExhausted},
		{"ErrSnapshotUnavailable", ErrSnapshotUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestFailureKind_Retryable(t *testing.T) {
	retryable := []FailureKind{FailureTimeout, FailureServer, FailureRateLimited, FailureUnreachable}
	terminal := []FailureKind{FailureAuth, FailureNotFound, FailureMalformed, FailureClient}

	for _, k := range retryable {
		assert.True(t, k.Retryable(), k)
	}
	for _, k := range terminal {
		assert.False(t, k.Retryable(), k)
	}
}

func TestUpstreamError_Is(t *testing.T) {
	tests := []struct {
		kind     FailureKind
		matches  []error
		excludes []error
	}{
		{FailureServer, []error{ErrTransientUpstream}, []error{ErrTerminalUpstream, ErrRateLimited, ErrNotFound}},
		{FailureRateLimited, []error{ErrTransientUpstream, ErrRateLimited}, []error{ErrTerminalUpstream}},
		{FailureNotFound, []error{ErrTerminalUpstream, ErrNotFound}, []error{ErrTransientUpstream}},
		{FailureAuth, []error{ErrTerminalUpstream, ErrAuthInvalid}, []error{ErrTransientUpstream}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &UpstreamError{Kind: tt.kind, StatusCode: 500})
			for _, target := range tt.matches {
				assert.ErrorIs(t, err, target)
			}
			for _, target := range tt.excludes {
				assert.NotErrorIs(t, err, target)
			}
		})
	}
}

func TestUpstreamError_Message(t *testing.T) {
	err := &UpstreamError{Kind: FailureServer, StatusCode: 503, Endpoint: "/bill/118", Err: errors.New("boom")}
	assert.Equal(t, "upstream server (status 503) on /bill/118: boom", err.Error())
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"upstream error", &UpstreamError{Kind: FailureRateLimited}, FailureRateLimited},
		{"deadline", fmt.Errorf("attempt: %w", context.DeadlineExceeded), FailureTimeout},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, FailureUnreachable},
		{"dns", &net.DNSError{Err: "no such host", Name: "api.example"}, FailureUnreachable},
		{"unknown", errors.New("weird"), FailureMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFailure(tt.err))
		})
	}
}

func TestRetriesExhaustedError(t *testing.T) {
	last := &UpstreamError{Kind: FailureServer, StatusCode: 502}
	err := &RetriesExhaustedError{Attempts: 3, Last: last}

	assert.Contains(t, err.Error(), "3 attempts")
	assert.ErrorIs(t, err, ErrTransientUpstream)
}

func TestUnavailableError(t *testing.T) {
	err := &UnavailableError{
		Signature: "/bill/118/hr/1",
		Live:      &UpstreamError{Kind: FailureNotFound, StatusCode: 404},
		Static:    ErrNotFound,
	}

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrTerminalUpstream)
	assert.NotErrorIs(t, err, ErrTransientUpstream)
	assert.Contains(t, err.Error(), "/bill/118/hr/1")
}
