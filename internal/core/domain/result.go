package domain

// Origin records which source answered a query.
type Origin string

// Origins.
const (
	OriginLive   Origin = "live"
	OriginCache  Origin = "cache"
	OriginStatic Origin = "static"
)

// Result is what the facade hands to consumers: a canonical value plus
// enough context to show a "using offline data" notice.
type Result[T any] struct {
	// Value is the canonical record or list of records.
	Value T

	// Origin is the source that produced Value.
	Origin Origin

	// Mode is the health mode at the time of the query.
	Mode HealthMode

	// Degraded is true when Value came from the static snapshot or the
	// upstream is not fully healthy.
	Degraded bool

	// CacheBypassed is true when the cache was not consulted.
	CacheBypassed bool

	// Diagnostics lists fields the canonicalizer had to default.
	Diagnostics []Diagnostic

	// Signature identifies the logical request.
	Signature RequestSignature
}
