// Package domain defines the core entities of the legislative data layer.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Bill, Member, Committee: canonical records handed to consumers
//   - Object / Value: the semi-structured tree of a raw upstream payload
//   - Query / RequestSignature: the identity of a logical request
//   - CacheEntry, Ticket, RetryPolicy, HealthStatus: resilience state
//   - Result: a canonical value plus where it came from
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
