package driven

import (
	"time"

	"github.com/custodia-labs/legis/internal/core/domain"
)

// CacheStore holds canonical values keyed by request signature.
// Reads never block on the network. A Get that returns ok=true returns an
// entry that was valid at the moment of the call.
type CacheStore interface {
	// Get returns the entry for sig if present and unexpired.
	Get(sig domain.RequestSignature) (domain.CacheEntry, bool)

	// Put stores value under sig for ttl. Concurrent puts for the same
	// signature resolve by completion order.
	Put(sig domain.RequestSignature, value any, ttl time.Duration)

	// Invalidate removes the entry for sig.
	Invalidate(sig domain.RequestSignature)

	// InvalidatePrefix removes every entry whose signature starts with
	// prefix and returns how many were removed.
	InvalidatePrefix(prefix string) int

	// Len returns the number of physically stored entries.
	Len() int
}
