package boxscore

import (
	"testing"

	"github.com/pable/go-boxstats/internal/model"
)

const formatBDoc = `Hawks (3-1) -vs- Owls (2-2)
April 12, 2024
Player AB R H RBI BB SO LOB                    Player AB R H RBI BB SO LOB
Garcia ss 4 1 2 1 0 1 2 Lee cf 3 0 1 0 1 0 1
Brown 3b 4 1 1 0 0 2 1 Price c 4 1 1 1 0 1 3
Cruz dh 3 1 2 1 0 0 0
Nash rf 3 0 1 0 0 2 0
Totals 31 5 9 5 2 8 6 Totals 30 2 6 2 3 7 8
Score by Innings
Hawks 2 0 3 - 5 9 1
Owls 0 2 0 - 2 6 2
Hawks IP H R ER BB SO WP BK HBP IBB AB BF FO GO NP
Diaz (W, 4-1) 7.0 5 2 2 2 8 0 0 1 0 26 29 6 7 101
Owls IP H R ER BB SO WP BK HBP IBB AB BF FO GO NP
Snyder (L, 2-3) 6.0 8 5 5 2 6 1 0 0 0 27 30 4 8 98
Win: Diaz (4-1)
Loss: Snyder (2-3)
`

func parseFormatB(t *testing.T, text string) *model.GameRecord {
	t.Helper()
	rec, err := (&formatBParser{}).Parse(RawDocument{Text: text})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return rec
}

func TestFormatBMetadata(t *testing.T) {
	rec := parseFormatB(t, formatBDoc)
	m := rec.Meta

	if m.Date != "2024-04-12" {
		t.Errorf("date = %q, want 2024-04-12", m.Date)
	}
	if m.AwayRaw != "Hawks" || m.HomeRaw != "Owls" {
		t.Errorf("teams = %q -vs- %q, want Hawks -vs- Owls", m.AwayRaw, m.HomeRaw)
	}
	if m.AwayScore != 5 || m.HomeScore != 2 {
		t.Errorf("score = %d-%d, want 5-2 (from the linescore)", m.AwayScore, m.HomeScore)
	}
}

func TestFormatBLinescore(t *testing.T) {
	rec := parseFormatB(t, formatBDoc)

	if len(rec.Teams) != 2 {
		t.Fatalf("got %d team lines, want 2", len(rec.Teams))
	}
	away, home := rec.Teams[0], rec.Teams[1]
	if away.Home || away.RawName != "Hawks" || away.Runs != 5 || away.Hits != 9 || away.Errors != 1 {
		t.Errorf("away linescore = %+v", away)
	}
	if !home.Home || home.RawName != "Owls" || home.Runs != 2 || home.Hits != 6 || home.Errors != 2 {
		t.Errorf("home linescore = %+v", home)
	}
}

func TestFormatBSideBySideBatting(t *testing.T) {
	rec := parseFormatB(t, formatBDoc)

	if len(rec.Batting) != 6 {
		t.Fatalf("got %d batting lines, want 6", len(rec.Batting))
	}

	garcia := rec.Batting[0]
	if garcia.Player.RawName != "Garcia" || garcia.Position != "ss" || garcia.Team != "Hawks" {
		t.Errorf("garcia row = %q %s team %q", garcia.Player.RawName, garcia.Position, garcia.Team)
	}
	if garcia.AtBats != 4 || garcia.Hits != 2 || garcia.Strikeouts != 1 || garcia.LeftOnBase != 2 {
		t.Errorf("garcia line = %d ab %d h %d so %d lob",
			garcia.AtBats, garcia.Hits, garcia.Strikeouts, garcia.LeftOnBase)
	}

	lee := rec.Batting[1]
	if lee.Player.RawName != "Lee" || lee.Team != "Owls" {
		t.Errorf("lee row = %q team %q, want home side of the shared line", lee.Player.RawName, lee.Team)
	}

	// Lone rows alternate to whichever column is behind.
	cruz := findBatter(t, rec, "Cruz")
	if cruz.Team != "Hawks" {
		t.Errorf("cruz team = %q, want Hawks (away column longer)", cruz.Team)
	}
	nash := findBatter(t, rec, "Nash")
	if nash.Team != "Owls" {
		t.Errorf("nash team = %q, want Owls (home column catching up)", nash.Team)
	}
}

func TestFormatBPitching(t *testing.T) {
	rec := parseFormatB(t, formatBDoc)

	if len(rec.Pitching) != 2 {
		t.Fatalf("got %d pitching lines, want 2", len(rec.Pitching))
	}

	diaz := rec.Pitching[0]
	if diaz.Player.RawName != "Diaz" || diaz.Decision != "W" || diaz.Team != "Hawks" {
		t.Errorf("diaz row = %q %s team %q", diaz.Player.RawName, diaz.Decision, diaz.Team)
	}
	if diaz.Outs != 21 || diaz.Strikeouts != 8 {
		t.Errorf("diaz = %d outs %d k, want 21 and 8", diaz.Outs, diaz.Strikeouts)
	}
	if diaz.AtBats != 26 || diaz.BattersFaced != 29 || diaz.Pitches != 101 {
		t.Errorf("diaz tail columns = %d ab %d bf %d np", diaz.AtBats, diaz.BattersFaced, diaz.Pitches)
	}

	snyder := rec.Pitching[1]
	if snyder.Decision != "L" || snyder.Team != "Owls" {
		t.Errorf("snyder = %s team %q", snyder.Decision, snyder.Team)
	}
}

func TestFormatBMissingLinescore(t *testing.T) {
	doc := `Hawks (3-1) -vs- Owls (2-2)
April 12, 2024
Player AB R H RBI BB SO LOB
Garcia ss 4 1 2 1 0 1 2
`
	_, err := (&formatBParser{}).Parse(RawDocument{Text: doc})
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("got %v, want ParseError", err)
	}
	if len(perr.Missing) != 1 || perr.Missing[0] != "final_score" {
		t.Errorf("missing = %v, want [final_score]", perr.Missing)
	}
}

func findBatter(t *testing.T, rec *model.GameRecord, name string) model.BattingLine {
	t.Helper()
	for _, b := range rec.Batting {
		if b.Player.RawName == name {
			return b
		}
	}
	t.Fatalf("no batting line for %s", name)
	return model.BattingLine{}
}

func TestFormatBSaveAnnotation(t *testing.T) {
	fr := &fieldReader{perr: &ParseError{}}
	pl := parseBPitchingLine("Mejia (SV, 12) 1.0 0 0 0 0 2 0 0 0 0 3 3 0 1 14", fr)
	if pl == nil {
		t.Fatal("line did not parse")
	}
	if pl.Player.RawName != "Mejia" || pl.Decision != "S" {
		t.Errorf("row = %q decision %q, want Mejia with decision S", pl.Player.RawName, pl.Decision)
	}
	if pl.Outs != 3 {
		t.Errorf("outs = %d, want 3", pl.Outs)
	}
}
