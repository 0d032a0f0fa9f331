package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/legis/internal/core/domain"
)

var committeesChamber string

var committeeCmd = &cobra.Command{
	Use:   "committee [chamber] [code]",
	Short: "Show a committee",
	Long: `Shows one committee by chamber (house, senate or joint) and system code.

Example:
  legis committee house hsag00`,
	Args: cobra.ExactArgs(2),
	RunE: runCommittee,
}

var committeesCmd = &cobra.Command{
	Use:   "committees",
	Short: "List the committees of a chamber",
	RunE:  runCommittees,
}

func init() {
	committeesCmd.Flags().StringVar(&committeesChamber, "chamber", "house", "house, senate or joint")
	rootCmd.AddCommand(committeeCmd)
	rootCmd.AddCommand(committeesCmd)
}

func runCommittee(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	res, err := recordService.GetCommittee(cmd.Context(), args[0], args[1])
	if err != nil {
		return explain(err)
	}
	return printResult(cmd, res, renderCommittee)
}

func runCommittees(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	res, err := recordService.ListCommittees(cmd.Context(), committeesChamber)
	if err != nil {
		return explain(err)
	}
	return printResult(cmd, res, renderCommitteeList)
}

func renderCommittee(cmd *cobra.Command, c domain.Committee) {
	cmd.Println(c.Name)
	cmd.Printf("  Code:    %s\n", c.Code)
	cmd.Printf("  Chamber: %s\n", c.Chamber)
	if c.Type != "" {
		cmd.Printf("  Type:    %s\n", c.Type)
	}
	if c.ParentCode != "" {
		cmd.Printf("  Parent:  %s\n", c.ParentCode)
	}
	cmd.Printf("  Current: %s\n", yesNo(c.Current))
	if len(c.Subcommittees) > 0 {
		cmd.Println()
		cmd.Println("Subcommittees:")
		for _, sub := range c.Subcommittees {
			cmd.Printf("  %-8s %s\n", sub.Code, sub.Name)
		}
	}
}

func renderCommitteeList(cmd *cobra.Command, committees []domain.Committee) {
	if len(committees) == 0 {
		cmd.Println("No committees found.")
		return
	}
	for _, c := range committees {
		cmd.Printf("  %-8s %s\n", c.Code, c.Name)
	}
	cmd.Printf("\n%d committee(s)\n", len(committees))
}
