package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-boxstats/internal/report"
)

var reparseDir string

var reparseCmd = &cobra.Command{
	Use:   "reparse <game-id>...",
	Short: "Re-parse specific games and rebuild derived state",
	Long:  "Drop the named games from the cache, re-parse their source documents from --dir, then replay everything so totals and milestones stay consistent.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReparse,
}

func init() {
	reparseCmd.Flags().StringVar(&reparseDir, "dir", ".", "directory holding the source documents")
}

func runReparse(cmd *cobra.Command, args []string) error {
	p, db, err := newPipeline(1)
	if err != nil {
		return err
	}
	defer db.Close()

	sum, err := p.Reparse(args, reparseDir)
	if err != nil {
		return fmt.Errorf("reparse: %w", err)
	}
	report.PrintBatchSummary(os.Stdout, sum)
	return nil
}
