// Package services implements the driving port interfaces.
//
// RecordService is the data access facade: it routes every query through
// the response cache, the rate-limited and retried upstream, and the static
// snapshot according to the mode reported by HealthMonitor. AnalysisService
// prepares canonical bill text for the analysis collaborator, and
// SettingsService maps the flat configuration keys onto domain.Settings.
//
// Services depend only on ports; adapters are wired in cmd/legis.
package services
