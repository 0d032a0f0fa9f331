// Package cli provides the legis command line interface.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/legis/internal/core/domain"
	"github.com/custodia-labs/legis/internal/core/ports/driving"
	"github.com/custodia-labs/legis/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	verbose    bool
	jsonOutput bool
	configDir  string
)

// Services wired in by the bootstrap function.
var (
	recordService   driving.RecordService
	healthService   driving.HealthService
	analysisService driving.AnalysisService
	settingsService driving.SettingsService
)

// skipServices marks commands that run without the data services.
const skipServices = "skip-services"

// Services holds the driving ports the commands call.
type Services struct {
	Records  driving.RecordService
	Health   driving.HealthService
	Analysis driving.AnalysisService
	Settings driving.SettingsService

	// Close releases whatever the bootstrap opened. May be nil.
	Close func()
}

// Options are the global flag values handed to the bootstrap function.
type Options struct {
	ConfigDir string
	Verbose   bool
}

// BootstrapFunc builds the services once the global flags are parsed.
type BootstrapFunc func(opts Options) (*Services, error)

var (
	bootstrap     BootstrapFunc
	closeServices func()
)

var rootCmd = &cobra.Command{
	Use:   "legis",
	Short: "Query US legislative records",
	Long: `legis reads bills, members and committees from the congress.gov API.

Responses are cached, calls are rate limited and retried, and when the API
is unreachable answers come from a local snapshot instead.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupServices,
	PersistentPostRunE: teardownServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.legis)")
}

// Execute runs the root command. ctx is cancelled to stop long-running
// commands such as mcp serve.
func Execute(ctx context.Context, v string, fn BootstrapFunc) error {
	if v != "" {
		version = v
	}
	bootstrap = fn
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

// SetServices installs services directly, bypassing the bootstrap function.
func SetServices(s *Services) {
	recordService = s.Records
	healthService = s.Health
	analysisService = s.Analysis
	settingsService = s.Settings
	closeServices = s.Close
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if cmd.Annotations[skipServices] == "true" || bootstrap == nil || recordService != nil {
		return nil
	}

	s, err := bootstrap(Options{ConfigDir: configDir, Verbose: verbose})
	if err != nil {
		return err
	}
	SetServices(s)
	return nil
}

func teardownServices(_ *cobra.Command, _ []string) error {
	if closeServices != nil {
		closeServices()
		closeServices = nil
	}
	return nil
}

// writeJSON prints v as indented JSON.
func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// resultEnvelope is the JSON shape of every record query.
type resultEnvelope[T any] struct {
	Data          T                   `json:"data"`
	Origin        domain.Origin       `json:"origin"`
	Mode          domain.HealthMode   `json:"mode"`
	Degraded      bool                `json:"degraded"`
	CacheBypassed bool                `json:"cache_bypassed"`
	Diagnostics   []domain.Diagnostic `json:"diagnostics"`
}

// printResult writes a query result as JSON or through render, followed by
// the offline notice when the answer is degraded.
func printResult[T any](cmd *cobra.Command, res domain.Result[T], render func(*cobra.Command, T)) error {
	if jsonOutput {
		return writeJSON(cmd, resultEnvelope[T]{
			Data:          res.Value,
			Origin:        res.Origin,
			Mode:          res.Mode,
			Degraded:      res.Degraded,
			CacheBypassed: res.CacheBypassed,
			Diagnostics:   res.Diagnostics,
		})
	}

	render(cmd, res.Value)
	printNotice(cmd, res.Origin, res.Mode, res.Degraded)
	if verbose && len(res.Diagnostics) > 0 {
		cmd.PrintErrf("%d field(s) defaulted:\n", len(res.Diagnostics))
		for _, d := range res.Diagnostics {
			cmd.PrintErrf("  %s: %s\n", d.Field, d.Reason)
		}
	}
	return nil
}

func printNotice(cmd *cobra.Command, origin domain.Origin, mode domain.HealthMode, degraded bool) {
	if !degraded {
		return
	}
	if origin == domain.OriginStatic {
		cmd.PrintErrf("\nNote: using offline data. The live API is unavailable (%s).\n", mode.Description())
		return
	}
	cmd.PrintErrf("\nNote: the live API is unreliable (%s); data may be delayed.\n", mode.Description())
}

// explain turns service errors into messages for the terminal.
func explain(err error) error {
	var unavailable *domain.UnavailableError
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnsupportedType):
		return err
	case errors.As(err, &unavailable):
		return fmt.Errorf("no data for %s: the live API is unavailable and the offline snapshot has no copy", unavailable.Signature)
	default:
		return err
	}
}
