package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-boxstats/internal/milestone"
	"github.com/pable/go-boxstats/internal/model"
	"github.com/pable/go-boxstats/internal/pipeline"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintGameSummary prints a one-line header for a game.
func PrintGameSummary(w io.Writer, m model.GameMeta) {
	venue := m.Venue
	if venue == "" {
		venue = "?"
	}
	fmt.Fprintf(w, "\n%s  |  %s %d – %s %d  |  Venue: %s  |  Format: %s  |  ID: %s\n\n",
		m.Date, m.AwayRaw, m.AwayScore, m.HomeRaw, m.HomeScore, venue, m.Format, m.GameID)
}

// PrintBattingTable prints a game's batting lines, away side first.
func PrintBattingTable(w io.Writer, lines []model.BattingLine) {
	table := newTable(w)
	table.Header("PLAYER", "TEAM", "POS", "AB", "R", "H", "RBI", "BB", "SO", "2B", "3B", "HR", "SB", "LOB")

	for i := range lines {
		b := &lines[i]
		table.Append(
			b.Player.DisplayName(),
			string(b.Team),
			b.Position,
			strconv.Itoa(b.AtBats),
			strconv.Itoa(b.Runs),
			strconv.Itoa(b.Hits),
			strconv.Itoa(b.RBI),
			strconv.Itoa(b.Walks),
			strconv.Itoa(b.Strikeouts),
			strconv.Itoa(b.Doubles),
			strconv.Itoa(b.Triples),
			strconv.Itoa(b.HomeRuns),
			strconv.Itoa(b.StolenBases),
			strconv.Itoa(b.LeftOnBase),
		)
	}
	table.Render()
}

// PrintPitchingTable prints a game's pitching lines.
func PrintPitchingTable(w io.Writer, lines []model.PitchingLine) {
	table := newTable(w)
	table.Header("PLAYER", "TEAM", "IP", "H", "R", "ER", "BB", "SO", "NP", "DEC")

	for i := range lines {
		p := &lines[i]
		np := "-"
		if p.Pitches > 0 {
			np = strconv.Itoa(p.Pitches)
		}
		table.Append(
			p.Player.DisplayName(),
			string(p.Team),
			p.InningsPitched(),
			strconv.Itoa(p.Hits),
			strconv.Itoa(p.Runs),
			strconv.Itoa(p.EarnedRuns),
			strconv.Itoa(p.Walks),
			strconv.Itoa(p.Strikeouts),
			np,
			p.Decision,
		)
	}
	table.Render()
}

// PrintGameList prints cached game metadata, one row per game.
func PrintGameList(w io.Writer, metas []model.GameMeta) {
	table := newTable(w)
	table.Header("DATE", "AWAY", "HOME", "SCORE", "FORMAT", "SOURCE", "GAME_ID")
	for _, m := range metas {
		table.Append(
			m.Date,
			m.AwayRaw,
			m.HomeRaw,
			fmt.Sprintf("%d–%d", m.AwayScore, m.HomeScore),
			string(m.Format),
			m.Source.String(),
			m.GameID,
		)
	}
	table.Render()
}

// PrintCumulativeTable prints season or career totals, most hits first.
func PrintCumulativeTable(w io.Writer, stats []*model.CumulativeStat) {
	sorted := make([]*model.CumulativeStat, len(stats))
	copy(sorted, stats)
	sort.Slice(sorted, func(i, j int) bool {
		hi, hj := sorted[i].Get(model.StatHits), sorted[j].Get(model.StatHits)
		if hi != hj {
			return hi > hj
		}
		return sorted[i].Key < sorted[j].Key
	})

	table := newTable(w)
	table.Header("PLAYER", "TEAM", "G", "AB", "R", "H", "AVG", "RBI", "BB", "SO", "HR", "SB", "IP", "ERA", "P_SO", "W-L", "SV")

	for _, c := range sorted {
		avg := "-"
		if c.Get(model.StatAtBats) > 0 {
			avg = fmt.Sprintf("%.3f", c.BattingAvg())
		}
		ip, era := "-", "-"
		if outs := c.Get(model.StatOuts); outs > 0 {
			ip = fmt.Sprintf("%d.%d", outs/3, outs%3)
			era = fmt.Sprintf("%.2f", c.ERA())
		}
		table.Append(
			c.Name,
			string(c.Team),
			strconv.Itoa(c.Games),
			strconv.Itoa(c.Get(model.StatAtBats)),
			strconv.Itoa(c.Get(model.StatRuns)),
			strconv.Itoa(c.Get(model.StatHits)),
			avg,
			strconv.Itoa(c.Get(model.StatRBI)),
			strconv.Itoa(c.Get(model.StatWalks)),
			strconv.Itoa(c.Get(model.StatStrikeouts)),
			strconv.Itoa(c.Get(model.StatHomeRuns)),
			strconv.Itoa(c.Get(model.StatStolenBases)),
			ip,
			era,
			strconv.Itoa(c.Get(model.StatPitchKs)),
			fmt.Sprintf("%d-%d", c.Get(model.StatWins), c.Get(model.StatLosses)),
			strconv.Itoa(c.Get(model.StatSaves)),
		)
	}
	table.Render()
}

// PrintMilestones prints fired events as highlighted call-outs.
func PrintMilestones(w io.Writer, events []model.MilestoneEvent) {
	if len(events) == 0 {
		return
	}
	bold := color.New(color.FgYellow, color.Bold)
	fmt.Fprintln(w)
	for _, ev := range events {
		scope := ""
		if ev.Scope == model.ScopeCareer {
			scope = " career"
		}
		bold.Fprintf(w, "  ★ %s reached %s%s %s (now %d) in %s\n",
			ev.Name, ev.Tier, scope, ev.Category, ev.Value, ev.GameID)
	}
	fmt.Fprintln(w)
}

// PrintMilestoneTable prints stored events as a table.
func PrintMilestoneTable(w io.Writer, events []model.MilestoneEvent) {
	table := newTable(w)
	table.Header("GAME", "PLAYER", "TEAM", "CATEGORY", "TIER", "SCOPE", "VALUE")
	for _, ev := range events {
		table.Append(
			ev.GameID,
			ev.Name,
			string(ev.Team),
			ev.Category,
			ev.Tier,
			string(ev.Scope),
			strconv.Itoa(ev.Value),
		)
	}
	table.Render()
}

// PrintBatchSummary prints the outcome of a pipeline run, with failures
// and unresolved names called out in color.
func PrintBatchSummary(w io.Writer, sum *pipeline.Summary) {
	fmt.Fprintf(w, "\nScanned %d documents: %d parsed, %d reused, %d applied, %d duplicates skipped\n",
		sum.Scanned, sum.Parsed, sum.Reused, sum.Applied, sum.Duplicates)

	if len(sum.Unresolved) > 0 {
		warn := color.New(color.FgYellow)
		warn.Fprintf(w, "\n%d unresolved names:\n", len(sum.Unresolved))
		for _, u := range sum.Unresolved {
			fmt.Fprintf(w, "  - %s\n", u)
		}
	}
	if len(sum.Failures) > 0 {
		bad := color.New(color.FgRed)
		bad.Fprintf(w, "\n%d documents failed:\n", len(sum.Failures))
		for _, f := range sum.Failures {
			fmt.Fprintf(w, "  - %s: %v\n", f.Path, f.Err)
		}
	}
	PrintMilestones(w, sum.Milestones)
}

// PrintCatalog prints the milestone catalog.
func PrintCatalog(w io.Writer, catalog []milestone.Category) {
	table := newTable(w)
	table.Header("CATEGORY", "STAT", "SCOPE", "TIERS")
	for _, cat := range catalog {
		tiers := ""
		for i, t := range cat.Tiers {
			if i > 0 {
				tiers += " / "
			}
			tiers += strconv.Itoa(t)
		}
		table.Append(cat.Name, string(cat.Stat), string(cat.Scope), tiers)
	}
	table.Render()
}
