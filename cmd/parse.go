package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-boxstats/internal/pipeline"
	"github.com/pable/go-boxstats/internal/report"
)

var parseWorkers int

var parseCmd = &cobra.Command{
	Use:   "parse <dir>",
	Short: "Parse and cache box scores without touching totals",
	Long:  "Detect formats, parse documents, resolve identities, and cache the records. Cumulative totals and milestones are left alone; run 'boxstats replay' to fold cached games in.",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().IntVar(&parseWorkers, "workers", 4, "parallel parse workers")
}

func runParse(cmd *cobra.Command, args []string) error {
	p, db, err := newPipeline(parseWorkers)
	if err != nil {
		return err
	}
	defer db.Close()

	sum, err := p.Run(args[0], pipeline.ModeParseOnly)
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}
	report.PrintBatchSummary(os.Stdout, sum)
	return nil
}
