package domain

import "time"

// HealthMode is the upstream routing mode.
type HealthMode string

// Health modes.
const (
	// ModeLive routes every query to the upstream.
	ModeLive HealthMode = "live"

	// ModeDegraded still calls the upstream, with a stricter retry policy.
	ModeDegraded HealthMode = "degraded"

	// ModeStatic bypasses the upstream and serves the static snapshot.
	ModeStatic HealthMode = "static"
)

// IsValid returns true if the mode is recognised.
func (m HealthMode) IsValid() bool {
	switch m {
	case ModeLive, ModeDegraded, ModeStatic:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m HealthMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m HealthMode) Description() string {
	switch m {
	case ModeLive:
		return "Live (upstream healthy)"
	case ModeDegraded:
		return "Degraded (upstream unreliable)"
	case ModeStatic:
		return "Static (using offline data)"
	default:
		return "Unknown"
	}
}

// HealthStatus is a point-in-time view of the upstream health state.
type HealthStatus struct {
	Mode                HealthMode `json:"mode"`
	WindowSize          int        `json:"window_size"`
	Successes           int        `json:"successes"`
	Failures            int        `json:"failures"`
	FailureRatio        float64    `json:"failure_ratio"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	LastTransition      time.Time  `json:"last_transition"`
	LastSuccess         time.Time  `json:"last_success,omitempty"`
	LastProbe           time.Time  `json:"last_probe,omitempty"`
	LastProbeError      string     `json:"last_probe_error,omitempty"`
}

// Transition records one mode change.
type Transition struct {
	From   HealthMode
	To     HealthMode
	At     time.Time
	Reason string
}
