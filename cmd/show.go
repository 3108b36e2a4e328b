package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-boxstats/internal/report"
	"github.com/pable/go-boxstats/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <game-id>",
	Short: "Show one cached game's box score",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rec, err := db.LoadGame(args[0])
	if err != nil {
		return fmt.Errorf("load game: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("game %s not cached", args[0])
	}

	report.PrintGameSummary(os.Stdout, rec.Meta)
	fmt.Fprintln(os.Stdout, "Batting:")
	report.PrintBattingTable(os.Stdout, rec.Batting)
	fmt.Fprintln(os.Stdout, "\nPitching:")
	report.PrintPitchingTable(os.Stdout, rec.Pitching)
	return nil
}
