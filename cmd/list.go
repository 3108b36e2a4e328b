package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-boxstats/internal/report"
	"github.com/pable/go-boxstats/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cached games",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	metas, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(metas) == 0 {
		fmt.Fprintln(os.Stdout, "No games cached yet. Run 'boxstats process <dir>' to add some.")
		return nil
	}
	report.PrintGameList(os.Stdout, metas)
	return nil
}
