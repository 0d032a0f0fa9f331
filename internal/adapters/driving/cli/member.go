package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/legis/internal/core/domain"
)

var membersState string

var memberCmd = &cobra.Command{
	Use:   "member [bioguide-id]",
	Short: "Show a member of Congress",
	Args:  cobra.ExactArgs(1),
	RunE:  runMember,
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List the current members of a state",
	Long: `Lists the members currently representing a state, by postal code.

Example:
  legis members --state IL`,
	RunE: runMembers,
}

func init() {
	membersCmd.Flags().StringVarP(&membersState, "state", "s", "", "two-letter state code (required)")
	rootCmd.AddCommand(memberCmd)
	rootCmd.AddCommand(membersCmd)
}

func runMember(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	res, err := recordService.GetMember(cmd.Context(), args[0])
	if err != nil {
		return explain(err)
	}
	return printResult(cmd, res, renderMember)
}

func runMembers(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}
	if membersState == "" {
		return errors.New("--state is required")
	}

	res, err := recordService.MembersByState(cmd.Context(), membersState)
	if err != nil {
		return explain(err)
	}
	return printResult(cmd, res, renderMemberList)
}

func renderMember(cmd *cobra.Command, m domain.Member) {
	cmd.Println(m.Name)
	cmd.Printf("  Bioguide ID: %s\n", m.BioguideID)
	if m.PartyName != "" {
		cmd.Printf("  Party:       %s\n", m.PartyName)
	}
	cmd.Printf("  State:       %s\n", m.State)
	if m.District > 0 {
		cmd.Printf("  District:    %d\n", m.District)
	}
	if m.Chamber != "" {
		cmd.Printf("  Chamber:     %s\n", m.Chamber)
	}
	cmd.Printf("  Current:     %s\n", yesNo(m.Current))
	if len(m.Terms) > 0 {
		cmd.Println()
		cmd.Println("Terms:")
		for _, t := range m.Terms {
			cmd.Printf("  %d  %-7s %s\n", t.Congress, t.Chamber, t.State)
		}
	}
}

func renderMemberList(cmd *cobra.Command, members []domain.Member) {
	if len(members) == 0 {
		cmd.Println("No members found.")
		return
	}
	for _, m := range members {
		party := m.Party
		if party == "" {
			party = "-"
		}
		cmd.Printf("  %-8s %-3s %-7s %s\n", m.BioguideID, party, m.Chamber, m.Name)
	}
	cmd.Printf("\n%d member(s)\n", len(members))
}
