package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/legis/internal/core/domain"
)

var analyseType string

var analyseCmd = &cobra.Command{
	Use:   "analyse [bill-id]",
	Short: "Prepare a bill for analysis",
	Long: `Renders the canonical text of a bill for an analysis assistant.

Types: summary, impact, comparison, legal.

Example:
  legis analyse 118-hr-1234 --type impact`,
	Aliases: []string{"analyze"},
	Args:    cobra.ExactArgs(1),
	RunE:    runAnalyse,
}

func init() {
	analyseCmd.Flags().StringVarP(&analyseType, "type", "t", string(domain.AnalysisSummary),
		"analysis type ("+strings.Join(analysisTypeNames(), ", ")+")")
	rootCmd.AddCommand(analyseCmd)
}

func runAnalyse(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	req, err := analysisService.Prepare(cmd.Context(), args[0], analyseType)
	if err != nil {
		return explain(err)
	}

	if jsonOutput {
		return writeJSON(cmd, req)
	}

	cmd.Print(req.Text)
	if req.Degraded {
		cmd.PrintErrln("\nNote: prepared from offline data.")
	}
	return nil
}

func analysisTypeNames() []string {
	types := domain.AllAnalysisTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}
