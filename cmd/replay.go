package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-boxstats/internal/pipeline"
	"github.com/pable/go-boxstats/internal/report"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Rebuild totals and milestones from the game cache",
	Long:  "Drop all derived state (totals, applied ledger, milestone events) and reapply every cached game in date order. Source documents are not read.",
	Args:  cobra.NoArgs,
	RunE:  runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	p, db, err := newPipeline(1)
	if err != nil {
		return err
	}
	defer db.Close()

	sum, err := p.Run("", pipeline.ModeReplay)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	report.PrintBatchSummary(os.Stdout, sum)
	return nil
}
