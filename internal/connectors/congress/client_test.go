package congress

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/legis/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg, err := ParseConfig(domain.UpstreamSettings{BaseURL: srv.URL + "/v3", APIKey: "secret-key"})
	require.NoError(t, err)
	return NewClient(cfg, srv.Client(), testclock.NewClock(t0))
}

func TestClient_Fetch(t *testing.T) {
	var gotPath, gotKey, gotFormat, gotLimit string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		gotFormat = r.URL.Query().Get("format")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bills": [{"number": "1"}]}`))
	})

	q := domain.BillListQuery(118, domain.Page{Limit: 5})
	resp, err := c.Fetch(context.Background(), q)

	require.NoError(t, err)
	assert.Equal(t, "/v3/bill/118", gotPath)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "json", gotFormat)
	assert.Equal(t, "5", gotLimit)
	assert.Equal(t, q.Signature(), resp.Signature)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, t0, resp.FetchedAt)
	items, ok := resp.Body.Lookup("bills").AsArray()
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestClient_Fetch_StatusMapping(t *testing.T) {
	tests := []struct {
		status    int
		wantKind  domain.FailureKind
		transient bool
	}{
		{http.StatusUnauthorized, domain.FailureAuth, false},
		{http.StatusForbidden, domain.FailureAuth, false},
		{http.StatusNotFound, domain.FailureNotFound, false},
		{http.StatusBadRequest, domain.FailureClient, false},
		{http.StatusTooManyRequests, domain.FailureRateLimited, true},
		{http.StatusInternalServerError, domain.FailureServer, true},
		{http.StatusBadGateway, domain.FailureServer, true},
		{http.StatusGatewayTimeout, domain.FailureTimeout, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error": {"code": "X", "message": "nope"}}`))
			})

			_, err := c.Fetch(context.Background(), domain.BillQuery(domain.BillID{Congress: 118, Type: "hr", Number: "1"}))

			var upErr *domain.UpstreamError
			require.ErrorAs(t, err, &upErr)
			assert.Equal(t, tt.wantKind, upErr.Kind)
			assert.Equal(t, tt.status, upErr.StatusCode)
			assert.Equal(t, "/bill/118/hr/1", upErr.Endpoint)
			assert.Equal(t, tt.transient, errors.Is(err, domain.ErrTransientUpstream))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "nope", apiErr.Message)
		})
	}
}

func TestClient_Fetch_RetryAfter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Fetch(context.Background(), domain.ProbeQuery())

	var upErr *domain.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, 30*time.Second, upErr.RetryAfter)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestClient_Fetch_Malformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := c.Fetch(context.Background(), domain.ProbeQuery())

	var upErr *domain.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, domain.FailureMalformed, upErr.Kind)
	assert.ErrorIs(t, err, domain.ErrTerminalUpstream)
}

func TestClient_Fetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	cfg, err := ParseConfig(domain.UpstreamSettings{BaseURL: base, APIKey: "secret-key"})
	require.NoError(t, err)
	c := NewClient(cfg, nil, nil)

	_, err = c.Fetch(context.Background(), domain.ProbeQuery())

	var upErr *domain.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, domain.FailureUnreachable, upErr.Kind)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestClient_Fetch_Timeout(t *testing.T) {
	c := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Fetch(ctx, domain.ProbeQuery())

	assert.Equal(t, domain.FailureTimeout, domain.ClassifyFailure(err))
}

func TestClient_Probe(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"bills": []}`))
	})

	require.NoError(t, c.Probe(context.Background()))
	assert.Equal(t, "/v3/bill", gotPath)
}

func TestParseConfig(t *testing.T) {
	_, err := ParseConfig(domain.UpstreamSettings{BaseURL: "ftp://x", APIKey: "k"})
	assert.ErrorIs(t, err, ErrConfigInvalidBaseURL)

	_, err = ParseConfig(domain.UpstreamSettings{BaseURL: "https://api.congress.gov/v3"})
	assert.ErrorIs(t, err, ErrConfigMissingAPIKey)

	cfg, err := ParseConfig(domain.UpstreamSettings{BaseURL: "https://api.congress.gov/v3/", APIKey: " k "})
	require.NoError(t, err)
	assert.Equal(t, "https://api.congress.gov/v3", cfg.BaseURL)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseRetryAfter("", t0))
	assert.Equal(t, 5*time.Second, parseRetryAfter("5", t0))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-1", t0))
	assert.Equal(t, time.Minute, parseRetryAfter(t0.Add(time.Minute).Format(http.TimeFormat), t0))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon", t0))
}
