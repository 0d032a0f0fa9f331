package congress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/go-querystring/query"
	"github.com/juju/clock"

	"github.com/custodia-labs/legis/internal/core/domain"
	"github.com/custodia-labs/legis/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.Upstream = (*Client)(nil)

// requestParams are sent with every request.
type requestParams struct {
	APIKey string `url:"api_key"`
	Format string `url:"format"`
}

// Client calls the congress.gov v3 API.
type Client struct {
	cfg   *Config
	http  *http.Client
	clock clock.Clock
}

// NewClient creates a new congress.gov client. httpClient may be nil.
func NewClient(cfg *Config, httpClient *http.Client, clk clock.Clock) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if clk == nil {
		clk = clock.WallClock
	}
	return &Client{cfg: cfg, http: httpClient, clock: clk}
}

// Fetch performs one GET for the query.
func (c *Client) Fetch(ctx context.Context, q domain.Query) (*domain.RawResponse, error) {
	reqURL, err := c.url(q)
	if err != nil {
		return nil, &domain.UpstreamError{Kind: domain.FailureClient, Endpoint: q.Endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &domain.UpstreamError{Kind: domain.FailureClient, Endpoint: q.Endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(q.Endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, transportError(q.Endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp, body, q.Endpoint, c.clock.Now())
	}

	obj, err := domain.ParseObject(body)
	if err != nil {
		return nil, &domain.UpstreamError{
			Kind:       domain.FailureMalformed,
			StatusCode: resp.StatusCode,
			Endpoint:   q.Endpoint,
			Err:        err,
		}
	}

	return &domain.RawResponse{
		Signature:  q.Signature(),
		StatusCode: resp.StatusCode,
		Body:       obj,
		FetchedAt:  c.clock.Now(),
	}, nil
}

// Probe fetches the canary endpoint.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.Fetch(ctx, domain.ProbeQuery())
	return err
}

func (c *Client) url(q domain.Query) (string, error) {
	u, err := url.Parse(c.cfg.BaseURL + q.Endpoint)
	if err != nil {
		return "", fmt.Errorf("build url: %w", err)
	}

	values, err := query.Values(requestParams{APIKey: c.cfg.APIKey, Format: "json"})
	if err != nil {
		return "", fmt.Errorf("encode params: %w", err)
	}
	for k, v := range q.Params {
		values.Set(k, v)
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}

// transportError classifies a failed exchange. The request URL carries the
// API key, so *url.Error is unwrapped before it can reach a log line.
func transportError(endpoint string, err error) *domain.UpstreamError {
	kind := domain.ClassifyFailure(err)
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = fmt.Errorf("%s %s: %w", urlErr.Op, endpoint, urlErr.Err)
	}
	if kind == domain.FailureMalformed {
		// Anything the transport could not name is treated as the
		// upstream being unreachable.
		kind = domain.FailureUnreachable
	}
	return &domain.UpstreamError{Kind: kind, Endpoint: endpoint, Err: err}
}
