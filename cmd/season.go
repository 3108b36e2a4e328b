package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-boxstats/internal/model"
	"github.com/pable/go-boxstats/internal/report"
	"github.com/pable/go-boxstats/internal/storage"
)

var seasonYear int

var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Show cumulative season totals for every player",
	Args:  cobra.NoArgs,
	RunE:  runSeason,
}

func init() {
	seasonCmd.Flags().IntVar(&seasonYear, "year", 0, "season year (default: latest stored)")
}

func runSeason(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	seasonStats, _, err := db.LoadTotals()
	if err != nil {
		return fmt.Errorf("load totals: %w", err)
	}
	if len(seasonStats) == 0 {
		fmt.Fprintln(os.Stdout, "No totals stored yet.")
		return nil
	}

	year := seasonYear
	if year == 0 {
		for y := range seasonStats {
			if y > year {
				year = y
			}
		}
		if year == 0 {
			year = time.Now().Year()
		}
	}

	stats := seasonStats[year]
	if len(stats) == 0 {
		years := make([]int, 0, len(seasonStats))
		for y := range seasonStats {
			years = append(years, y)
		}
		sort.Ints(years)
		return fmt.Errorf("no totals for %d (stored seasons: %v)", year, years)
	}

	ptrs := make([]*model.CumulativeStat, len(stats))
	for i := range stats {
		ptrs[i] = &stats[i]
	}
	fmt.Fprintf(os.Stdout, "\nSeason %d (%d players):\n", year, len(ptrs))
	report.PrintCumulativeTable(os.Stdout, ptrs)
	return nil
}
