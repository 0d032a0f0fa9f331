package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/legis/internal/core/domain"
)

var (
	billsCongress int
	billsLimit    int
	billsOffset   int
)

var billCmd = &cobra.Command{
	Use:   "bill [bill-id]",
	Short: "Show a bill",
	Long: `Shows one bill by its ID, written <congress>-<type>-<number>.

Examples:
  legis bill 118-hr-1234
  legis bill 117-sjres-5 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runBill,
}

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "List the bills of a congress",
	RunE:  runBills,
}

func init() {
	billsCmd.Flags().IntVarP(&billsCongress, "congress", "c", 0, "congress number (required)")
	billsCmd.Flags().IntVarP(&billsLimit, "limit", "n", domain.DefaultPageLimit, "maximum number of bills")
	billsCmd.Flags().IntVar(&billsOffset, "offset", 0, "number of bills to skip")
	rootCmd.AddCommand(billCmd)
	rootCmd.AddCommand(billsCmd)
}

func runBill(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	res, err := recordService.GetBill(cmd.Context(), args[0])
	if err != nil {
		return explain(err)
	}
	return printResult(cmd, res, renderBill)
}

func runBills(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}
	if billsCongress <= 0 {
		return errors.New("--congress is required")
	}

	res, err := recordService.ListBills(cmd.Context(), billsCongress, domain.Page{Limit: billsLimit, Offset: billsOffset})
	if err != nil {
		return explain(err)
	}
	return printResult(cmd, res, renderBillList)
}

func renderBill(cmd *cobra.Command, b domain.Bill) {
	cmd.Printf("%s %s: %s\n", strings.ToUpper(b.Type), b.Number, b.Title)
	cmd.Println(strings.Repeat("=", min(len(b.Title)+len(b.Number)+len(b.Type)+3, 72)))
	cmd.Printf("  ID:          %s\n", b.ID)
	cmd.Printf("  Congress:    %d\n", b.Congress)
	if b.OriginChamber != "" {
		cmd.Printf("  Origin:      %s\n", b.OriginChamber)
	}
	if !b.IntroducedDate.IsZero() {
		cmd.Printf("  Introduced:  %s\n", b.IntroducedDate.Format(dateLayout))
	}
	if b.Sponsor.Name != "" {
		cmd.Printf("  Sponsor:     %s\n", b.Sponsor.Name)
	}
	cmd.Printf("  Cosponsors:  %d\n", b.CosponsorCount)
	cmd.Printf("  Stage:       %s\n", b.Stage)
	cmd.Printf("  Active:      %s\n", yesNo(b.IsActive))
	if b.LatestAction.Text != "" {
		cmd.Printf("  Latest:      %s %s\n", formatDate(b.LatestAction.Date), b.LatestAction.Text)
	}
	if b.PolicyArea != "" {
		cmd.Printf("  Policy area: %s\n", b.PolicyArea)
	}
	if len(b.Subjects) > 0 {
		cmd.Printf("  Subjects:    %s\n", strings.Join(b.Subjects, ", "))
	}
	if len(b.Timeline) > 0 {
		cmd.Println()
		cmd.Println("Timeline:")
		for _, m := range b.Timeline {
			cmd.Printf("  %s  [%s] %s\n", formatDate(m.Date), m.Category, m.Text)
		}
	}
}

func renderBillList(cmd *cobra.Command, bills []domain.Bill) {
	if len(bills) == 0 {
		cmd.Println("No bills found.")
		return
	}
	for _, b := range bills {
		cmd.Printf("  %-16s %-14s %s\n", b.ID, b.Stage, b.Title)
	}
	cmd.Printf("\n%d bill(s)\n", len(bills))
}

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "----------"
	}
	return t.Format(dateLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
