// Package main is the entry point for the boxstats CLI tool, which
// ingests baseball box scores from several source formats and tracks
// cumulative player stats and milestones.
package main

import "github.com/pable/go-boxstats/cmd"

func main() {
	cmd.Execute()
}
