// Package connectors holds the clients for remote record sources. Each
// connector implements driven.Upstream and driven.RateLimiter for one API.
//
// Only congress.gov is wired today; see the congress subpackage.
package connectors
