// Package normalisers holds the implementations of driven.Canonicalizer.
// Each normaliser turns one upstream's raw payloads into canonical records
// and knows nothing about transport or caching.
package normalisers
