package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/legis/internal/core/domain"
	"github.com/custodia-labs/legis/internal/core/ports/driven"
	"github.com/custodia-labs/legis/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyBaseURL              = "upstream.base_url"
	keyAPIKey               = "upstream.api_key"
	keyTimeout              = "upstream.timeout"
	keyRequestsPerWindow    = "ratelimit.requests_per_window"
	keyRateWindow           = "ratelimit.window"
	keyBurst                = "ratelimit.burst"
	keySegmented            = "ratelimit.segmented"
	keyCacheCapacity        = "cache.capacity"
	keyCacheShards          = "cache.shards"
	keyCacheTTLPrefix       = "cache.ttl."
	keyMaxAttempts          = "retry.max_attempts"
	keyBaseDelay            = "retry.base_delay"
	keyMultiplier           = "retry.multiplier"
	keyJitter               = "retry.jitter"
	keyAttemptTimeout       = "retry.attempt_timeout"
	keyDegradedMaxAttempts  = "retry.degraded_max_attempts"
	keyWindowSize           = "health.window_size"
	keyMinSamples           = "health.min_samples"
	keyFailureThreshold     = "health.failure_threshold_percent"
	keyStaticAfterFailures  = "health.static_after_failures"
	keyUnreachableThreshold = "health.unreachable_threshold"
	keyGracePeriod          = "health.grace_period"
	keyProbeInterval        = "health.probe_interval"
	keySnapshotPath         = "snapshot.path"
	keyLogFile              = "log.file"
)

// API key environment overrides, checked in order.
var apiKeyEnv = []string{"LEGIS_API_KEY", "CONGRESS_API_KEY"}

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindBool
	kindDuration
)

func settingKinds() map[string]settingKind {
	kinds := map[string]settingKind{
		keyBaseURL:              kindString,
		keyAPIKey:               kindString,
		keyTimeout:              kindDuration,
		keyRequestsPerWindow:    kindInt,
		keyRateWindow:           kindDuration,
		keyBurst:                kindInt,
		keySegmented:            kindBool,
		keyCacheCapacity:        kindInt,
		keyCacheShards:          kindInt,
		keyMaxAttempts:          kindInt,
		keyBaseDelay:            kindDuration,
		keyMultiplier:           kindInt,
		keyJitter:               kindDuration,
		keyAttemptTimeout:       kindDuration,
		keyDegradedMaxAttempts:  kindInt,
		keyWindowSize:           kindInt,
		keyMinSamples:           kindInt,
		keyFailureThreshold:     kindInt,
		keyStaticAfterFailures:  kindInt,
		keyUnreachableThreshold: kindInt,
		keyGracePeriod:          kindDuration,
		keyProbeInterval:        kindDuration,
		keySnapshotPath:         kindString,
		keyLogFile:              kindString,
	}
	for _, class := range domain.AllRequestClasses() {
		if class != domain.ClassProbe {
			kinds[keyCacheTTLPrefix+string(class)] = kindDuration
		}
	}
	return kinds
}

// SettingsService maps the flat configuration keys onto domain.Settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current settings. Unset or unparsable keys keep their
// defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings()

	settings := &domain.Settings{
		Upstream: domain.UpstreamSettings{
			BaseURL: s.getString(keyBaseURL, d.Upstream.BaseURL),
			APIKey:  s.apiKey(),
			Timeout: s.getDuration(keyTimeout, d.Upstream.Timeout),
		},
		RateLimit: domain.RateLimitSettings{
			RequestsPerWindow: s.getInt(keyRequestsPerWindow, d.RateLimit.RequestsPerWindow),
			Window:            s.getDuration(keyRateWindow, d.RateLimit.Window),
			Burst:             s.getInt(keyBurst, d.RateLimit.Burst),
			Segmented:         s.getBool(keySegmented, d.RateLimit.Segmented),
		},
		Cache: domain.CacheSettings{
			Capacity: s.getInt(keyCacheCapacity, d.Cache.Capacity),
			Shards:   s.getInt(keyCacheShards, d.Cache.Shards),
			TTLs:     make(map[domain.RequestClass]time.Duration, len(d.Cache.TTLs)),
		},
		Retry: domain.RetrySettings{
			Normal: domain.RetryPolicy{
				MaxAttempts:    s.getInt(keyMaxAttempts, d.Retry.Normal.MaxAttempts),
				BaseDelay:      s.getDuration(keyBaseDelay, d.Retry.Normal.BaseDelay),
				Multiplier:     float64(s.getInt(keyMultiplier, int(d.Retry.Normal.Multiplier))),
				Jitter:         s.getDuration(keyJitter, d.Retry.Normal.Jitter),
				AttemptTimeout: s.getDuration(keyAttemptTimeout, d.Retry.Normal.AttemptTimeout),
			},
		},
		Health: domain.HealthSettings{
			WindowSize:           s.getInt(keyWindowSize, d.Health.WindowSize),
			MinSamples:           s.getInt(keyMinSamples, d.Health.MinSamples),
			FailureThreshold:     float64(s.getInt(keyFailureThreshold, int(d.Health.FailureThreshold*100))) / 100,
			StaticAfterFailures:  s.getInt(keyStaticAfterFailures, d.Health.StaticAfterFailures),
			UnreachableThreshold: s.getInt(keyUnreachableThreshold, d.Health.UnreachableThreshold),
			GracePeriod:          s.getDuration(keyGracePeriod, d.Health.GracePeriod),
			ProbeInterval:        s.getDuration(keyProbeInterval, d.Health.ProbeInterval),
		},
		SnapshotPath: s.configStore.GetString(keySnapshotPath),
		LogFile:      s.configStore.GetString(keyLogFile),
	}

	for class, ttl := range d.Cache.TTLs {
		settings.Cache.TTLs[class] = s.getDuration(keyCacheTTLPrefix+string(class), ttl)
	}

	// The degraded policy shares the normal backoff shape with fewer attempts.
	settings.Retry.Degraded = settings.Retry.Normal
	settings.Retry.Degraded.MaxAttempts = s.getInt(keyDegradedMaxAttempts, d.Retry.Degraded.MaxAttempts)
	settings.Retry.Degraded.AttemptTimeout = min(settings.Retry.Normal.AttemptTimeout, d.Retry.Degraded.AttemptTimeout)

	return settings, nil
}

// Set validates and persists a single setting.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds()[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	value = strings.TrimSpace(value)
	var typed any
	switch kind {
	case kindString:
		typed = value
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		if key == keyFailureThreshold && n > 100 {
			return fmt.Errorf("%w: %s must be between 0 and 100", domain.ErrInvalidInput, key)
		}
		typed = int64(n)
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		typed = b
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: %s must be a duration such as 30s or 5m", domain.ErrInvalidInput, key)
		}
		typed = d.String()
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every recognised setting key, sorted.
func (s *SettingsService) Keys() []string {
	kinds := settingKinds()
	keys := make([]string, 0, len(kinds))
	for k := range kinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (s *SettingsService) apiKey() string {
	for _, name := range apiKeyEnv {
		if v := s.getenv(name); v != "" {
			return v
		}
	}
	return s.configStore.GetString(keyAPIKey)
}

func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getInt(key string, def int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, def bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, def time.Duration) time.Duration {
	raw := s.configStore.GetString(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
