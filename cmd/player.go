package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-boxstats/internal/model"
	"github.com/pable/go-boxstats/internal/report"
	"github.com/pable/go-boxstats/internal/storage"
)

var playerCmd = &cobra.Command{
	Use:   "player <name-or-key>",
	Short: "Show one player's season and career totals",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	query := strings.ToLower(strings.Join(args, " "))

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	seasonStats, careerStats, err := db.LoadTotals()
	if err != nil {
		return fmt.Errorf("load totals: %w", err)
	}

	matches := func(c *model.CumulativeStat) bool {
		return c.Key == query || strings.Contains(strings.ToLower(c.Name), query)
	}

	found := false
	for year, stats := range seasonStats {
		var hits []*model.CumulativeStat
		for i := range stats {
			if matches(&stats[i]) {
				hits = append(hits, &stats[i])
			}
		}
		if len(hits) > 0 {
			found = true
			fmt.Fprintf(os.Stdout, "\nSeason %d:\n", year)
			report.PrintCumulativeTable(os.Stdout, hits)
		}
	}

	var career []*model.CumulativeStat
	for i := range careerStats {
		if matches(&careerStats[i]) {
			career = append(career, &careerStats[i])
		}
	}
	if len(career) > 0 {
		found = true
		fmt.Fprintln(os.Stdout, "\nCareer:")
		report.PrintCumulativeTable(os.Stdout, career)
	}

	if !found {
		fmt.Fprintf(os.Stdout, "No totals found for %q.\n", query)
	}
	return nil
}
