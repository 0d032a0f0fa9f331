package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the response cache",
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate [prefix]",
	Short: "Drop cached responses",
	Long: `Drops cached responses whose request signature starts with prefix.
Without a prefix every entry is dropped.

Examples:
  legis cache invalidate /bill/118
  legis cache invalidate /member`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCacheInvalidate,
}

func init() {
	cacheCmd.AddCommand(cacheInvalidateCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheInvalidate(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}

	n := recordService.Invalidate(prefix)
	if jsonOutput {
		return writeJSON(cmd, map[string]any{"prefix": prefix, "removed": n})
	}
	cmd.Printf("Removed %d cached response(s).\n", n)
	return nil
}
