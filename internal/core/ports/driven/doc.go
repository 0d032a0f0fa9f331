// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Upstream: Fetches raw records from the remote legislative API
//   - RateLimiter: Admits outbound upstream calls
//   - Canonicalizer: Transforms raw records into canonical records
//   - CacheStore: Bounded, TTL-checked response cache
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SnapshotStore: Static offline dataset. Without it, failed live
//     lookups are reported as unavailable instead of falling back.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
