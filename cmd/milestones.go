package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-boxstats/internal/milestone"
	"github.com/pable/go-boxstats/internal/report"
	"github.com/pable/go-boxstats/internal/storage"
)

var milestonesCatalog bool

var milestonesCmd = &cobra.Command{
	Use:   "milestones",
	Short: "List fired milestone events",
	Args:  cobra.NoArgs,
	RunE:  runMilestones,
}

func init() {
	milestonesCmd.Flags().BoolVar(&milestonesCatalog, "catalog", false, "print the tier catalog instead of fired events")
}

func runMilestones(cmd *cobra.Command, args []string) error {
	if milestonesCatalog {
		report.PrintCatalog(os.Stdout, milestone.Catalog())
		return nil
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	events, err := db.ListMilestones()
	if err != nil {
		return fmt.Errorf("list milestones: %w", err)
	}
	if len(events) == 0 {
		fmt.Fprintln(os.Stdout, "No milestones fired yet.")
		return nil
	}
	report.PrintMilestoneTable(os.Stdout, events)
	return nil
}
