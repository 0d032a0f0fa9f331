package driving

import "github.com/custodia-labs/legis/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, merged over the defaults.
	Get() (*domain.Settings, error)

	// Set validates and persists a single setting by its dotted key.
	Set(key, value string) error

	// Keys returns every recognised setting key, sorted.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
