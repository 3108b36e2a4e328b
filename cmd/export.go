package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-boxstats/internal/storage"
)

var (
	exportStat   string
	exportScope  string
	exportSeason int
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stat leaderboard as CSV",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportStat, "stat", "h", "stat key (h, hr, rbi, p_so, ...)")
	exportCmd.Flags().StringVar(&exportScope, "scope", "season", "season or career")
	exportCmd.Flags().IntVar(&exportSeason, "season", 0, "season year (season scope only)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := db.StatLeaders(exportStat, exportScope, exportSeason, 0)
	if err != nil {
		return fmt.Errorf("query leaders: %w", err)
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"key", "name", "team", "games", exportStat}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{r.Key, r.Name, r.Team, strconv.Itoa(r.Games), strconv.Itoa(r.Value)}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stdout, "Wrote %d rows to %s\n", len(rows), exportOut)
	}
	return nil
}
