package domain

import "time"

// CacheEntry is a stored canonical value.
// An entry is valid iff now < StoredAt+TTL; expired entries are logically
// absent even while they still occupy memory.
type CacheEntry struct {
	Signature RequestSignature
	Value     any
	StoredAt  time.Time
	TTL       time.Duration
}

// ExpiresAt returns the instant the entry stops being valid.
func (e CacheEntry) ExpiresAt() time.Time {
	return e.StoredAt.Add(e.TTL)
}

// Valid reports whether the entry may be served at now.
func (e CacheEntry) Valid(now time.Time) bool {
	return now.Before(e.ExpiresAt())
}
