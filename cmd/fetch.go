package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-boxstats/internal/milb"
	"github.com/pable/go-boxstats/internal/report"
)

var (
	fetchSportID int
	fetchTeamID  int
	fetchDate    string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [gamePk]",
	Short: "Fetch minor league box scores from the stats API",
	Long:  "Fetch one game by its pk, or all final games for one team and date, from the MLB Stats API; convert them to canonical records and run them through cache and aggregation.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchSportID, "sport", 11, "sport id (11=AAA 12=AA 13=High-A 14=A)")
	fetchCmd.Flags().IntVar(&fetchTeamID, "team", 0, "stats API team id")
	fetchCmd.Flags().StringVar(&fetchDate, "date", "", "game date (YYYY-MM-DD)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	client := milb.NewClient()

	var games []milb.ScheduleGame
	if len(args) == 1 {
		pk, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid game pk %q", args[0])
		}
		g, err := client.GetGame(pk)
		if err != nil {
			return fmt.Errorf("fetch game %d: %w", pk, err)
		}
		games = []milb.ScheduleGame{*g}
	} else {
		if fetchTeamID == 0 || fetchDate == "" {
			return fmt.Errorf("either a game pk argument or both --team and --date are required")
		}
		var err error
		games, err = client.GetSchedule(fetchSportID, fetchTeamID, fetchDate)
		if err != nil {
			return fmt.Errorf("fetch schedule: %w", err)
		}
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games scheduled.")
		return nil
	}

	p, db, err := newPipeline(1)
	if err != nil {
		return err
	}
	defer db.Close()

	for i := range games {
		g := &games[i]
		if !g.Final() {
			fmt.Fprintf(os.Stdout, "Skipping game %d: not final\n", g.GamePk)
			continue
		}
		box, err := client.GetBoxScore(g.GamePk)
		if err != nil {
			return fmt.Errorf("fetch box score %d: %w", g.GamePk, err)
		}
		rec, err := milb.ToRecord(g, box)
		if err != nil {
			return fmt.Errorf("convert game %d: %w", g.GamePk, err)
		}
		sum, err := p.ProcessOne(rec)
		if err != nil {
			return err
		}
		report.PrintGameSummary(os.Stdout, rec.Meta)
		report.PrintBatchSummary(os.Stdout, sum)
	}
	return nil
}
