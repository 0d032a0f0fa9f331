package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/legis/internal/adapters/driven/snapshot"
	"github.com/custodia-labs/legis/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/legis/internal/core/domain"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage offline snapshots",
	Annotations: map[string]string{
		skipServices: "true",
	},
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import [json-file] [db-file]",
	Short: "Build a SQLite snapshot from a JSON snapshot",
	Long: `Reads a JSON snapshot in canonical form and writes it into a SQLite
database that legis can open read-only. An existing database is replaced.

Point snapshot.path at either file to use it as the offline source.

Example:
  legis snapshot import congress-118.json ~/.legis/data/snapshot.db`,
	Args: cobra.ExactArgs(2),
	Annotations: map[string]string{
		skipServices: "true",
	},
	RunE: runSnapshotImport,
}

var snapshotInspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show what a snapshot contains",
	Args:  cobra.ExactArgs(1),
	Annotations: map[string]string{
		skipServices: "true",
	},
	RunE: runSnapshotInspect,
}

func init() {
	snapshotCmd.AddCommand(snapshotImportCmd)
	snapshotCmd.AddCommand(snapshotInspectCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshotImport(cmd *cobra.Command, args []string) error {
	snap, err := snapshot.Load(args[0])
	if err != nil {
		return err
	}

	store, err := sqlite.Create(args[1])
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Import(cmd.Context(), snap); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	counts, err := store.Counts(cmd.Context())
	if err != nil {
		return err
	}
	return printCounts(cmd, store.Path(), snap.GeneratedAt.Format(dateLayout), counts)
}

func runSnapshotInspect(cmd *cobra.Command, args []string) error {
	if snapshot.IsDatabase(args[0]) {
		store, err := sqlite.OpenReadOnly(args[0])
		if err != nil {
			return err
		}
		defer store.Close()

		generated, err := store.GeneratedAt(cmd.Context())
		if err != nil {
			return err
		}
		counts, err := store.Counts(cmd.Context())
		if err != nil {
			return err
		}
		return printCounts(cmd, args[0], generated.Format(dateLayout), counts)
	}

	snap, err := snapshot.Load(args[0])
	if err != nil {
		return err
	}
	return printCounts(cmd, args[0], snap.GeneratedAt.Format(dateLayout), snap.Counts())
}

func printCounts(cmd *cobra.Command, path, generated string, counts map[domain.RecordKind]int) error {
	if jsonOutput {
		return writeJSON(cmd, map[string]any{
			"path":         path,
			"generated_at": generated,
			"counts":       counts,
		})
	}

	cmd.Printf("Snapshot %s (generated %s)\n", path, generated)
	cmd.Printf("  Bills:      %d\n", counts[domain.KindBill])
	cmd.Printf("  Members:    %d\n", counts[domain.KindMember])
	cmd.Printf("  Committees: %d\n", counts[domain.KindCommittee])
	return nil
}
