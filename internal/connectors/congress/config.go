package congress

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/legis/internal/core/domain"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes = 8 << 20

	// UserAgent identifies legis to the upstream.
	UserAgent = "legis"
)

// Config holds the parsed upstream configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// ParseConfig validates upstream settings.
func ParseConfig(s domain.UpstreamSettings) (*Config, error) {
	cfg := &Config{
		BaseURL: strings.TrimRight(strings.TrimSpace(s.BaseURL), "/"),
		APIKey:  strings.TrimSpace(s.APIKey),
		Timeout: s.Timeout,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: base url %q", ErrConfigInvalidBaseURL, s.BaseURL)
	}
	if cfg.APIKey == "" {
		return nil, ErrConfigMissingAPIKey
	}
	return cfg, nil
}
