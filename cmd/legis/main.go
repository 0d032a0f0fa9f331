// Command legis queries US legislative records.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/clock"

	"github.com/custodia-labs/legis/internal/adapters/driven/config/file"
	"github.com/custodia-labs/legis/internal/adapters/driven/snapshot"
	"github.com/custodia-labs/legis/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/legis/internal/adapters/driving/cli"
	"github.com/custodia-labs/legis/internal/connectors/congress"
	"github.com/custodia-labs/legis/internal/core/domain"
	"github.com/custodia-labs/legis/internal/core/ports/driven"
	"github.com/custodia-labs/legis/internal/core/services"
	"github.com/custodia-labs/legis/internal/logger"
	normaliser "github.com/custodia-labs/legis/internal/normalisers/congress"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, version, func(opts cli.Options) (*cli.Services, error) {
		return bootstrap(ctx, opts)
	})
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the adapters into the services from the stored settings.
func bootstrap(parent context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	logCloser, err := logger.Configure(settings.LogFile)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(parent)
	var closers []func()
	closeAll := func() {
		cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		_ = logCloser.Close()
	}

	cache := memory.NewCacheStore(settings.Cache.Capacity, settings.Cache.Shards, clock.WallClock)
	cache.Start()
	closers = append(closers, func() { _ = cache.Close() })

	limiter := congress.NewRateLimiter(settings.RateLimit, clock.WallClock)

	var upstream driven.Upstream
	var prober driven.Upstream
	cfg, err := congress.ParseConfig(settings.Upstream)
	switch {
	case errors.Is(err, congress.ErrConfigMissingAPIKey):
		logger.Warn("no API key configured; answers come from the snapshot only")
		upstream = keyless{}
	case err != nil:
		closeAll()
		return nil, err
	default:
		client := congress.NewClient(cfg, nil, clock.WallClock)
		upstream, prober = client, client
	}

	health := services.NewHealthMonitor(settings.Health, clock.WallClock, prober, limiter)
	health.OnTransition(func(t domain.Transition) {
		logger.Info("upstream mode %s -> %s: %s", t.From, t.To, t.Reason)
	})
	go health.Run(ctx)

	var snapshotStore driven.SnapshotStore
	if settings.SnapshotPath != "" {
		opened, err := snapshot.Open(settings.SnapshotPath)
		if err != nil {
			// Live data still works without a snapshot.
			logger.Warn("snapshot unavailable: %v", err)
		} else {
			snapshotStore = opened.Store
			closers = append(closers, func() { _ = opened.Close() })
			if opened.Watcher != nil {
				go func() { _ = opened.Watcher.Run(ctx) }()
			}
		}
	}

	canon := normaliser.New()
	retrier := services.NewRetrier(limiter, health, clock.WallClock)
	records := services.NewRecordService(upstream, canon, cache, snapshotStore, health, retrier, *settings)

	return &cli.Services{
		Records:  records,
		Health:   health,
		Analysis: services.NewAnalysisService(records, canon),
		Settings: settingsService,
		Close:    closeAll,
	}, nil
}

// keyless stands in for the congress.gov client when no API key is set.
type keyless struct{}

func (keyless) Fetch(_ context.Context, q domain.Query) (*domain.RawResponse, error) {
	return nil, &domain.UpstreamError{
		Kind:     domain.FailureAuth,
		Endpoint: q.Endpoint,
		Err:      fmt.Errorf("%w: set upstream.api_key or LEGIS_API_KEY", congress.ErrConfigMissingAPIKey),
	}
}
