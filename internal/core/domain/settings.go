package domain

import "time"

// UpstreamSettings holds remote records API configuration.
type UpstreamSettings struct {
	// BaseURL is the API root, e.g. "https://api.congress.gov/v3".
	BaseURL string

	// APIKey is sent with every request.
	APIKey string

	// Timeout bounds one HTTP exchange.
	Timeout time.Duration
}

// IsConfigured returns true if the upstream can be called.
func (u UpstreamSettings) IsConfigured() bool {
	return u.BaseURL != "" && u.APIKey != ""
}

// RateLimitSettings bounds outbound calls.
type RateLimitSettings struct {
	// RequestsPerWindow is the hard ceiling of admissions per Window.
	RequestsPerWindow int

	// Window is the rolling window length.
	Window time.Duration

	// Burst is the pacing bucket size.
	Burst int

	// Segmented gives every resource family its own budget.
	Segmented bool
}

// CacheSettings bounds the response cache.
type CacheSettings struct {
	// Capacity is the maximum number of entries across all shards.
	Capacity int

	// Shards is the number of independently locked partitions.
	Shards int

	// TTLs is the time-to-live per request class.
	TTLs map[RequestClass]time.Duration
}

// TTL returns the time-to-live for a class, falling back to the bill TTL.
func (c CacheSettings) TTL(class RequestClass) time.Duration {
	if ttl, ok := c.TTLs[class]; ok && ttl > 0 {
		return ttl
	}
	return DefaultCacheTTLs()[ClassBill]
}

// RetrySettings holds the retry policies per health mode.
type RetrySettings struct {
	// Normal applies while the upstream is live.
	Normal RetryPolicy

	// Degraded applies while the upstream is degraded.
	Degraded RetryPolicy
}

// HealthSettings holds the fail-over thresholds.
type HealthSettings struct {
	// WindowSize is the number of recent attempts observed.
	WindowSize int

	// MinSamples is the minimum number of outcomes before the ratio is trusted.
	MinSamples int

	// FailureThreshold is the failure ratio above which Live becomes Degraded.
	FailureThreshold float64

	// StaticAfterFailures is the consecutive failure count that moves Degraded to Static.
	StaticAfterFailures int

	// UnreachableThreshold is the consecutive unreachable count that moves Live to Degraded.
	UnreachableThreshold int

	// GracePeriod is how long Degraded may fail without a success before going Static.
	GracePeriod time.Duration

	// ProbeInterval is the spacing of canary requests while not Live.
	ProbeInterval time.Duration
}

// Settings holds all application settings.
type Settings struct {
	Upstream     UpstreamSettings
	RateLimit    RateLimitSettings
	Cache        CacheSettings
	Retry        RetrySettings
	Health       HealthSettings
	SnapshotPath string
	LogFile      string
}

// DefaultCacheTTLs returns the per-class TTLs. Rosters change rarely,
// bill status changes daily.
func DefaultCacheTTLs() map[RequestClass]time.Duration {
	return map[RequestClass]time.Duration{
		ClassBill:          10 * time.Minute,
		ClassBillList:      5 * time.Minute,
		ClassMember:        6 * time.Hour,
		ClassMemberList:    6 * time.Hour,
		ClassCommittee:     24 * time.Hour,
		ClassCommitteeList: 24 * time.Hour,
	}
}

// DefaultSettings returns settings with sensible defaults.
// The upstream publishes 5000 requests/hour; 80/minute stays below it.
func DefaultSettings() Settings {
	return Settings{
		Upstream: UpstreamSettings{
			BaseURL: "https://api.congress.gov/v3",
			Timeout: 10 * time.Second,
		},
		RateLimit: RateLimitSettings{
			RequestsPerWindow: 80,
			Window:            time.Minute,
			Burst:             4,
		},
		Cache: CacheSettings{
			Capacity: 2048,
			Shards:   8,
			TTLs:     DefaultCacheTTLs(),
		},
		Retry: RetrySettings{
			Normal: RetryPolicy{
				MaxAttempts:    3,
				BaseDelay:      250 * time.Millisecond,
				Multiplier:     2,
				Jitter:         100 * time.Millisecond,
				AttemptTimeout: 10 * time.Second,
			},
			Degraded: RetryPolicy{
				MaxAttempts:    1,
				BaseDelay:      250 * time.Millisecond,
				Multiplier:     2,
				Jitter:         100 * time.Millisecond,
				AttemptTimeout: 5 * time.Second,
			},
		},
		Health: HealthSettings{
			WindowSize:           10,
			MinSamples:           5,
			FailureThreshold:     0.5,
			StaticAfterFailures:  5,
			UnreachableThreshold: 3,
			GracePeriod:          time.Minute,
			ProbeInterval:        30 * time.Second,
		},
	}
}
