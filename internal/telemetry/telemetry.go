// Package telemetry declares the OpenTelemetry instruments legis records.
// No exporter is configured here; the embedding process installs a
// MeterProvider if it wants the numbers.
package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/custodia-labs/legis"

var (
	cacheLookups      metric.Int64Counter
	cacheEvictions    metric.Int64Counter
	upstreamAttempts  metric.Int64Counter
	rateLimitWaits    metric.Int64Counter
	healthTransitions metric.Int64Counter
	snapshotServed    metric.Int64Counter
)

func init() {
	meter := otel.Meter(meterName)

	var err error

	cacheLookups, err = meter.Int64Counter(
		"legis.cache.lookups",
		metric.WithDescription("Cache lookups by result (hit or miss)"),
	)
	if err != nil {
		log.Fatalf("failed to create cache.lookups counter: %v", err)
	}

	cacheEvictions, err = meter.Int64Counter(
		"legis.cache.evictions",
		metric.WithDescription("Cache entries removed by reason"),
	)
	if err != nil {
		log.Fatalf("failed to create cache.evictions counter: %v", err)
	}

	upstreamAttempts, err = meter.Int64Counter(
		"legis.upstream.attempts",
		metric.WithDescription("Upstream attempts by request class and outcome"),
	)
	if err != nil {
		log.Fatalf("failed to create upstream.attempts counter: %v", err)
	}

	rateLimitWaits, err = meter.Int64Counter(
		"legis.ratelimit.waits",
		metric.WithDescription("Admissions that had to wait for rate budget"),
	)
	if err != nil {
		log.Fatalf("failed to create ratelimit.waits counter: %v", err)
	}

	healthTransitions, err = meter.Int64Counter(
		"legis.health.transitions",
		metric.WithDescription("Upstream health mode transitions"),
	)
	if err != nil {
		log.Fatalf("failed to create health.transitions counter: %v", err)
	}

	snapshotServed, err = meter.Int64Counter(
		"legis.snapshot.served",
		metric.WithDescription("Queries answered from the static snapshot by reason"),
	)
	if err != nil {
		log.Fatalf("failed to create snapshot.served counter: %v", err)
	}
}

// RecordCacheLookup counts one cache lookup.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("result", result)))
}

// RecordCacheEviction counts one removed cache entry. reason is
// "expired", "capacity" or "invalidated".
func RecordCacheEviction(reason string) {
	cacheEvictions.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordUpstreamAttempt counts one upstream attempt. outcome is "ok" or a
// failure kind.
func RecordUpstreamAttempt(ctx context.Context, class, outcome string) {
	upstreamAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("class", class),
		attribute.String("outcome", outcome),
	))
}

// RecordRateLimitWait counts one admission that waited for budget.
func RecordRateLimitWait(budget string) {
	rateLimitWaits.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("budget", budget)))
}

// RecordHealthTransition counts one mode change.
func RecordHealthTransition(from, to string) {
	healthTransitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// RecordSnapshotServed counts one query answered offline. reason is
// "static_mode" or "fallback".
func RecordSnapshotServed(ctx context.Context, reason string) {
	snapshotServed.Add(ctx, 1,
		metric.WithAttributes(attribute.String("reason", reason)))
}
