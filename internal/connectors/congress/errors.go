package congress

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/legis/internal/core/domain"
)

// congress.gov-specific errors.
var (
	// ErrConfigInvalidBaseURL indicates the base URL is not an http(s) URL.
	ErrConfigInvalidBaseURL = errors.New("congress: invalid base url")

	// ErrConfigMissingAPIKey indicates no API key was configured.
	ErrConfigMissingAPIKey = errors.New("congress: api key not configured")
)

// APIError represents a congress.gov API error response.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("congress: API error %d: %s (endpoint: %s)", e.StatusCode, e.Message, e.Endpoint)
}

// statusKind maps an HTTP status to a failure kind.
func statusKind(status int) domain.FailureKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.FailureAuth
	case status == http.StatusNotFound:
		return domain.FailureNotFound
	case status == http.StatusTooManyRequests:
		return domain.FailureRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return domain.FailureTimeout
	case status >= 500:
		return domain.FailureServer
	default:
		return domain.FailureClient
	}
}

// statusError builds the upstream error for a non-2xx response.
func statusError(resp *http.Response, body []byte, endpoint string, now time.Time) *domain.UpstreamError {
	upErr := &domain.UpstreamError{
		Kind:       statusKind(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Endpoint:   endpoint,
		Err: &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, body),
			Endpoint:   endpoint,
		},
	}
	if upErr.Kind == domain.FailureRateLimited {
		upErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), now)
	}
	return upErr
}

// errorMessage extracts the message from {"error": {"message": ...}} or
// {"error": "..."}, falling back to the status text.
func errorMessage(status int, body []byte) string {
	if obj, err := domain.ParseObject(body); err == nil {
		if msg, ok := obj.Lookup("error", "message").AsString(); ok && msg != "" {
			return msg
		}
		if msg, ok := obj.Lookup("error").AsString(); ok && msg != "" {
			return msg
		}
		if msg, ok := obj.Lookup("message").AsString(); ok && msg != "" {
			return msg
		}
	}
	return http.StatusText(status)
}

// parseRetryAfter accepts delay-seconds or an HTTP date. Returns zero when
// the header is absent or unreadable.
func parseRetryAfter(header string, now time.Time) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}
