package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-boxstats/internal/registry"
	"github.com/pable/go-boxstats/internal/resolve"
	"github.com/pable/go-boxstats/internal/roster"
)

var (
	dbPath       string
	teamsPath    string
	rostersDir   string
	registryPath string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "boxstats",
	Short: "Baseball box score ingestion tool",
	Long:  "Parse box score documents from multiple sources, normalize identities, and track cumulative stats and milestones.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".boxstats", "boxstats.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&teamsPath, "teams", "", "path to team alias table (JSON)")
	rootCmd.PersistentFlags().StringVar(&rostersDir, "rosters", "", "directory of roster CSV files")
	rootCmd.PersistentFlags().StringVar(&registryPath, "registry", "", "path to cross-league register CSV")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(reparseCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(seasonCmd)
	rootCmd.AddCommand(milestonesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(sqlCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// newLogger builds the console logger every command shares.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// newResolver loads whatever reference data the flags point at. Absent
// flags disable the corresponding lookup rather than failing.
func newResolver() (*resolve.Resolver, error) {
	r := &resolve.Resolver{Log: newLogger()}
	if teamsPath != "" {
		table, err := resolve.LoadTeamTable(teamsPath)
		if err != nil {
			return nil, fmt.Errorf("load team table: %w", err)
		}
		r.Teams = table
	}
	if rostersDir != "" {
		set, err := roster.LoadDir(rostersDir)
		if err != nil {
			return nil, fmt.Errorf("load rosters: %w", err)
		}
		r.Rosters = set
	}
	if registryPath != "" {
		reg, err := registry.Load(registryPath)
		if err != nil {
			return nil, fmt.Errorf("load register: %w", err)
		}
		r.Register = reg
	}
	return r, nil
}
