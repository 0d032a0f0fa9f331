package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/legis/internal/core/domain"
)

var statusProbe bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show upstream health and rate budgets",
	Long: `Shows the upstream health mode, the recent failure ratio and the state
of every outbound rate budget.

With --probe a canary request is sent first. A successful probe is the only
way back to live mode once the API has been marked unavailable.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusProbe, "probe", false, "send a canary request before reporting")
	rootCmd.AddCommand(statusCmd)
}

type statusOutput struct {
	Health  domain.HealthStatus      `json:"health"`
	Budgets []domain.RateBudgetStats `json:"rate_budgets"`
	Probe   string                   `json:"probe,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if healthService == nil {
		return errors.New("health service not configured")
	}

	out := statusOutput{Health: healthService.Status()}
	if statusProbe {
		status, err := healthService.Probe(cmd.Context())
		out.Health = status
		out.Probe = "ok"
		if err != nil {
			out.Probe = err.Error()
		}
	}
	out.Budgets = healthService.RateBudgets()

	if jsonOutput {
		return writeJSON(cmd, out)
	}

	h := out.Health
	cmd.Println("Upstream")
	cmd.Println("========")
	cmd.Printf("  Mode:                 %s\n", h.Mode.Description())
	cmd.Printf("  Recent outcomes:      %d ok / %d failed (window %d)\n", h.Successes, h.Failures, h.WindowSize)
	cmd.Printf("  Failure ratio:        %.0f%%\n", h.FailureRatio*100)
	cmd.Printf("  Consecutive failures: %d\n", h.ConsecutiveFailures)
	cmd.Printf("  Last transition:      %s\n", since(h.LastTransition))
	cmd.Printf("  Last success:         %s\n", since(h.LastSuccess))
	if !h.LastProbe.IsZero() {
		cmd.Printf("  Last probe:           %s\n", since(h.LastProbe))
	}
	if h.LastProbeError != "" {
		cmd.Printf("  Last probe error:     %s\n", h.LastProbeError)
	}
	if out.Probe != "" {
		cmd.Printf("  Probe:                %s\n", out.Probe)
	}

	cmd.Println()
	cmd.Println("Rate budgets")
	cmd.Println("============")
	if len(out.Budgets) == 0 {
		cmd.Println("  (none)")
	}
	for _, b := range out.Budgets {
		cmd.Printf("  %-10s %d/%d per %s (effective %d), %d waiting\n",
			b.Budget, b.InWindow, b.Ceiling, b.Window, b.Effective, b.Waiting)
		if !b.BlockedUntil.IsZero() {
			cmd.Printf("             blocked until %s\n", b.BlockedUntil.Format(time.TimeOnly))
		}
	}
	return nil
}

// since formats t relative to now.
func since(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t).Round(time.Second)
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%s ago", d)
}
