package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-boxstats/internal/storage"
)

var (
	dropForce   bool
	dropDerived bool
)

// dropCmd deletes the database, or with --derived just the computed state.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the database or its derived state",
	Long:  "Permanently delete the SQLite database, or with --derived keep the parsed game cache and clear only totals, the applied ledger, and milestone events.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().BoolVar(&dropDerived, "derived", false, "clear derived state only, keep cached games")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	if dropDerived {
		db, err := storage.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()
		if err := db.ClearDerived(); err != nil {
			return fmt.Errorf("clear derived state: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Cleared totals, applied ledger, and milestone events.")
		return nil
	}

	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}
