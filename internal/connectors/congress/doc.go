// Package congress provides the congress.gov API client and the outbound
// rate limiter that fronts it.
//
// The client performs exactly one HTTP exchange per call and maps every
// failure to a *domain.UpstreamError. Retries, caching and fail-over live
// in the core services.
//
// The rate limiter combines two strategies: a token bucket paces requests
// smoothly, and a rolling admission log enforces the hard ceiling of N
// requests per window. Waiters are served first-come-first-served.
package congress
