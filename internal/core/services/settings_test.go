package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/legis/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/legis/internal/core/domain"
)

func newTestSettings(values map[string]any) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStoreFrom(values)
	svc := NewSettingsService(store)
	svc.getenv = func(string) string { return "" }
	return svc, store
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	svc, _ := newTestSettings(nil)

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	svc, _ := newTestSettings(map[string]any{
		"upstream.base_url":                "https://api.example.test/v3",
		"upstream.api_key":                 "from-config",
		"upstream.timeout":                 "3s",
		"ratelimit.requests_per_window":    int64(10),
		"ratelimit.segmented":              true,
		"cache.capacity":                   int64(128),
		"cache.ttl.member":                 "1h",
		"retry.max_attempts":               int64(5),
		"retry.attempt_timeout":            "2s",
		"retry.degraded_max_attempts":      int64(2),
		"health.failure_threshold_percent": int64(25),
		"health.probe_interval":            "10s",
		"snapshot.path":                    "/var/lib/legis/snapshot.json",
		"log.file":                         "/tmp/legis.log",
	})

	s, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.test/v3", s.Upstream.BaseURL)
	assert.Equal(t, "from-config", s.Upstream.APIKey)
	assert.Equal(t, 3*time.Second, s.Upstream.Timeout)
	assert.Equal(t, 10, s.RateLimit.RequestsPerWindow)
	assert.True(t, s.RateLimit.Segmented)
	assert.Equal(t, 128, s.Cache.Capacity)
	assert.Equal(t, time.Hour, s.Cache.TTL(domain.ClassMember))
	assert.Equal(t, 10*time.Minute, s.Cache.TTL(domain.ClassBill))
	assert.Equal(t, 5, s.Retry.Normal.MaxAttempts)
	assert.Equal(t, 2*time.Second, s.Retry.Normal.AttemptTimeout)
	assert.Equal(t, 2, s.Retry.Degraded.MaxAttempts)
	assert.Equal(t, 2*time.Second, s.Retry.Degraded.AttemptTimeout, "degraded timeout never exceeds the normal one")
	assert.InDelta(t, 0.25, s.Health.FailureThreshold, 1e-9)
	assert.Equal(t, 10*time.Second, s.Health.ProbeInterval)
	assert.Equal(t, "/var/lib/legis/snapshot.json", s.SnapshotPath)
	assert.Equal(t, "/tmp/legis.log", s.LogFile)
}

func TestSettingsService_Get_UnparsableDurationKeepsDefault(t *testing.T) {
	svc, _ := newTestSettings(map[string]any{"health.grace_period": "soon"})

	s, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultSettings().Health.GracePeriod, s.Health.GracePeriod)
}

func TestSettingsService_Get_APIKeyFromEnvironment(t *testing.T) {
	svc, _ := newTestSettings(map[string]any{"upstream.api_key": "from-config"})
	env := map[string]string{"CONGRESS_API_KEY": "congress-env"}
	svc.getenv = func(k string) string { return env[k] }

	s, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "congress-env", s.Upstream.APIKey)

	env["LEGIS_API_KEY"] = "legis-env"
	s, err = svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "legis-env", s.Upstream.APIKey, "LEGIS_API_KEY wins")
}

func TestSettingsService_Set(t *testing.T) {
	svc, store := newTestSettings(nil)

	require.NoError(t, svc.Set("retry.max_attempts", " 4 "))
	require.NoError(t, svc.Set("ratelimit.segmented", "true"))
	require.NoError(t, svc.Set("health.grace_period", "90s"))
	require.NoError(t, svc.Set("cache.ttl.committee", "48h"))
	require.NoError(t, svc.Set("upstream.base_url", "https://mirror.example.test"))

	assert.Equal(t, 4, store.GetInt("retry.max_attempts"))
	assert.True(t, store.GetBool("ratelimit.segmented"))
	assert.Equal(t, "1m30s", store.GetString("health.grace_period"))

	s, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 4, s.Retry.Normal.MaxAttempts)
	assert.Equal(t, 90*time.Second, s.Health.GracePeriod)
	assert.Equal(t, 48*time.Hour, s.Cache.TTL(domain.ClassCommittee))
	assert.Equal(t, "https://mirror.example.test", s.Upstream.BaseURL)
}

func TestSettingsService_Set_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "search.mode", "hybrid"},
		{"probe ttl", "cache.ttl.probe", "1m"},
		{"non-integer", "cache.capacity", "lots"},
		{"negative integer", "retry.max_attempts", "-1"},
		{"threshold above 100", "health.failure_threshold_percent", "150"},
		{"bad bool", "ratelimit.segmented", "sometimes"},
		{"bad duration", "upstream.timeout", "5 minutes"},
		{"negative duration", "health.probe_interval", "-5s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestSettings(nil)

			err := svc.Set(tt.key, tt.value)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			_, ok := store.Get(tt.key)
			assert.False(t, ok, "rejected values are not stored")
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	svc, _ := newTestSettings(nil)

	keys := svc.Keys()

	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, "upstream.api_key")
	assert.Contains(t, keys, "cache.ttl.bill")
	assert.Contains(t, keys, "health.probe_interval")
	assert.NotContains(t, keys, "cache.ttl.probe")
}

func TestSettingsService_GetDefaults(t *testing.T) {
	svc, _ := newTestSettings(nil)

	assert.Equal(t, domain.DefaultSettings(), svc.GetDefaults())
}
