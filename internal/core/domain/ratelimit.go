package domain

import "time"

// Ticket is the proof that an outbound call was admitted by the rate limiter.
type Ticket struct {
	ID         string
	Class      RequestClass
	Budget     string
	AdmittedAt time.Time
	Waited     time.Duration
}

// RateBudgetStats is a point-in-time view of one rate budget.
type RateBudgetStats struct {
	Budget        string        `json:"budget"`
	Ceiling       int           `json:"ceiling"`
	Effective     int           `json:"effective"`
	Window        time.Duration `json:"window"`
	InWindow      int           `json:"in_window"`
	Waiting       int           `json:"waiting"`
	PenaltyUntil  time.Time     `json:"penalty_until,omitempty"`
	BlockedUntil  time.Time     `json:"blocked_until,omitempty"`
	TotalAdmitted int64         `json:"total_admitted"`
}
