package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-boxstats/internal/format"
	"github.com/pable/go-boxstats/internal/pipeline"
	"github.com/pable/go-boxstats/internal/report"
	"github.com/pable/go-boxstats/internal/storage"
)

var processWorkers int

var processCmd = &cobra.Command{
	Use:   "process <dir>",
	Short: "Parse, cache, and aggregate every box score under a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().IntVar(&processWorkers, "workers", 4, "parallel parse workers")
}

// newPipeline opens storage and wires the full stage chain. Callers own
// the returned DB handle.
func newPipeline(workers int) (*pipeline.Pipeline, *storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	detector, err := format.NewDetector()
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("build detector: %w", err)
	}
	resolver, err := newResolver()
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return &pipeline.Pipeline{
		DB:       db,
		Detector: detector,
		Resolver: resolver,
		Log:      newLogger(),
		Workers:  workers,
	}, db, nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	p, db, err := newPipeline(processWorkers)
	if err != nil {
		return err
	}
	defer db.Close()

	sum, err := p.Run(args[0], pipeline.ModeFull)
	if err != nil {
		return fmt.Errorf("process %s: %w", args[0], err)
	}
	report.PrintBatchSummary(os.Stdout, sum)
	return nil
}
