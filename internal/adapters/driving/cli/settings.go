package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/legis/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the settings stored in config.toml.

The API key can also be supplied through LEGIS_API_KEY or CONGRESS_API_KEY,
which take precedence over the file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Changes one setting by its dotted key.

Examples:
  legis config set upstream.api_key YOUR_KEY
  legis config set cache.ttl.bill 15m
  legis config set health.failure_threshold_percent 40
  legis config set snapshot.path ~/.legis/data/snapshot.db

Run "legis config keys" for every recognised key.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List recognised setting keys",
	RunE:  runConfigKeys,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	apiKey := "(not set)"
	if settings.Upstream.APIKey != "" {
		apiKey = maskAPIKey(settings.Upstream.APIKey)
	}

	if jsonOutput {
		masked := *settings
		masked.Upstream.APIKey = apiKey
		return writeJSON(cmd, masked)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Upstream]")
	cmd.Printf("  Base URL: %s\n", settings.Upstream.BaseURL)
	cmd.Printf("  API Key: %s\n", apiKey)
	cmd.Printf("  Timeout: %s\n", settings.Upstream.Timeout)
	cmd.Println()

	cmd.Println("[Rate limit]")
	rl := settings.RateLimit
	cmd.Printf("  Ceiling: %d per %s (burst %d)\n", rl.RequestsPerWindow, rl.Window, rl.Burst)
	cmd.Printf("  Segmented budgets: %s\n", yesNo(rl.Segmented))
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Capacity: %d entries in %d shards\n", settings.Cache.Capacity, settings.Cache.Shards)
	classes := make([]domain.RequestClass, 0, len(settings.Cache.TTLs))
	for class := range settings.Cache.TTLs {
		classes = append(classes, class)
	}
	slices.Sort(classes)
	for _, class := range classes {
		cmd.Printf("  TTL %s: %s\n", class, settings.Cache.TTLs[class])
	}
	cmd.Println()

	cmd.Println("[Retry]")
	p := settings.Retry.Normal
	cmd.Printf("  Attempts: %d (degraded: %d)\n", p.MaxAttempts, settings.Retry.Degraded.MaxAttempts)
	cmd.Printf("  Backoff: %s x%.0f, jitter up to %s\n", p.BaseDelay, p.Multiplier, p.Jitter)
	cmd.Printf("  Attempt timeout: %s\n", p.AttemptTimeout)
	cmd.Println()

	cmd.Println("[Health]")
	h := settings.Health
	cmd.Printf("  Window: %d outcomes (min %d), degrade above %.0f%% failures\n",
		h.WindowSize, h.MinSamples, h.FailureThreshold*100)
	cmd.Printf("  Static after: %d consecutive failures, %d unreachable, or %s without success\n",
		h.StaticAfterFailures, h.UnreachableThreshold, h.GracePeriod)
	cmd.Printf("  Probe interval: %s\n", h.ProbeInterval)
	cmd.Println()

	cmd.Println("[Snapshot]")
	cmd.Printf("  Path: %s\n", orNotSet(settings.SnapshotPath))
	cmd.Println()

	cmd.Println("[Log]")
	cmd.Printf("  File: %s\n", orNotSet(settings.LogFile))

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s updated.\n", args[0])
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	keys := settingsService.Keys()
	if jsonOutput {
		return writeJSON(cmd, keys)
	}
	for _, k := range keys {
		cmd.Println(k)
	}
	return nil
}

// maskAPIKey masks an API key for display, showing only first/last 4 chars.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
