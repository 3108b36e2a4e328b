package boxscore

import (
	"testing"

	"github.com/pable/go-boxstats/internal/model"
)

// Home team first in the title and tables, matching real Pointstreak pages.
const pointstreakDoc = `<html>
<head><title>Bears vs. Ducks - Boxscore</title></head>
<body>
<p>06/15/2024</p>
<p>Location: Riverfront Stadium</p>
<span class="nova-boxscore__record">3</span>
<span class="nova-boxscore__record">6</span>
<table class="nova-stats-table">
<tr><td>1st</td><td>Ortiz singled to left</td></tr>
<tr><td>1st</td><td>Webb doubled, Ortiz scored</td></tr>
<tr><td>2nd</td><td>Cole flied out</td></tr>
</table>
<table class="nova-stats-table">
<tr><th>#</th><th>Player</th><th>Pos</th><th>AB</th><th>R</th><th>H</th><th>RBI</th><th>BB</th><th>K</th><th>AVG</th></tr>
<tr><td>8</td><td>Cole, Max</td><td>CF</td><td>4</td><td>1</td><td>2</td><td>0</td><td>0</td><td>1</td><td>.315</td></tr>
<tr><td>15</td><td>Reed, Tim</td><td>C</td><td>3</td><td>2</td><td>1</td><td>1</td><td>1</td><td>0</td><td>.268</td></tr>
<tr><td></td><td>Totals</td><td></td><td>32</td><td>3</td><td>8</td><td>3</td><td>2</td><td>6</td><td></td></tr>
</table>
<table class="nova-stats-table">
<tr><th>#</th><th>Player</th><th>Pos</th><th>AB</th><th>R</th><th>H</th><th>RBI</th><th>BB</th><th>K</th><th>AVG</th></tr>
<tr><td>12</td><td>Ortiz, Leo</td><td>SS</td><td>5</td><td>2</td><td>3</td><td>2</td><td>1</td><td>0</td><td>.350</td></tr>
<tr><td>24</td><td>Webb, Sam</td><td>1B</td><td>4</td><td>1</td><td>1</td><td>1</td><td>0</td><td>2</td><td>.280</td></tr>
<tr><td></td><td>Totals</td><td></td><td>36</td><td>6</td><td>11</td><td>6</td><td>3</td><td>5</td><td></td></tr>
</table>
<table class="nova-stats-table">
<tr><th>#</th><th>Pitcher</th><th>IP</th><th>H</th><th>R</th><th>ER</th><th>BB</th><th>K</th><th>ERA</th></tr>
<tr><td>21</td><td>Fox, Dan</td><td>6.1</td><td>9</td><td>6</td><td>5</td><td>2</td><td>4</td><td>4.50</td></tr>
<tr><td>40</td><td>Pike, Ron</td><td>2.2</td><td>2</td><td>0</td><td>0</td><td>1</td><td>3</td><td>1.10</td></tr>
</table>
<table class="nova-stats-table">
<tr><th>#</th><th>Pitcher</th><th>IP</th><th>H</th><th>R</th><th>ER</th><th>BB</th><th>K</th><th>ERA</th></tr>
<tr><td>33</td><td>Hart, Joe</td><td>9.0</td><td>5</td><td>3</td><td>3</td><td>1</td><td>7</td><td>2.95</td></tr>
<tr><td></td><td>Totals</td><td>9.0</td><td>5</td><td>3</td><td>3</td><td>1</td><td>7</td><td></td></tr>
</table>
</body>
</html>`

func parsePointstreak(t *testing.T) *model.GameRecord {
	t.Helper()
	rec, err := (&pointstreakParser{}).Parse(RawDocument{Text: pointstreakDoc})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return rec
}

func TestPointstreakMetadata(t *testing.T) {
	rec := parsePointstreak(t)
	m := rec.Meta

	if m.AwayRaw != "Ducks" || m.HomeRaw != "Bears" {
		t.Errorf("teams = %q at %q, want Ducks at Bears (title is home-first)", m.AwayRaw, m.HomeRaw)
	}
	if m.AwayScore != 6 || m.HomeScore != 3 {
		t.Errorf("score = %d-%d, want 6-3", m.AwayScore, m.HomeScore)
	}
	if m.Date != "2024-06-15" {
		t.Errorf("date = %q, want 2024-06-15", m.Date)
	}
	if m.Venue != "Riverfront Stadium" {
		t.Errorf("venue = %q", m.Venue)
	}
	if m.Source != model.SourcePartner {
		t.Errorf("source = %s, want partner", m.Source)
	}
}

func TestPointstreakBattingAwayFirst(t *testing.T) {
	rec := parsePointstreak(t)

	if len(rec.Batting) != 4 {
		t.Fatalf("got %d batting lines, want 4 (totals rows skipped)", len(rec.Batting))
	}
	// Canonical order flips the page's home-first tables.
	if rec.Batting[0].Player.RawName != "Ortiz, Leo" || rec.Batting[0].Team != "Ducks" {
		t.Errorf("first line = %q team %q, want away leadoff", rec.Batting[0].Player.RawName, rec.Batting[0].Team)
	}
	if rec.Batting[3].Player.RawName != "Reed, Tim" || rec.Batting[3].Team != "Bears" {
		t.Errorf("last line = %q team %q, want home", rec.Batting[3].Player.RawName, rec.Batting[3].Team)
	}

	ortiz := rec.Batting[0]
	if ortiz.Number != "12" || ortiz.Position != "ss" {
		t.Errorf("ortiz = #%s %s", ortiz.Number, ortiz.Position)
	}
	if ortiz.AtBats != 5 || ortiz.Hits != 3 || ortiz.RBI != 2 || ortiz.Walks != 1 {
		t.Errorf("ortiz line = %d ab %d h %d rbi %d bb", ortiz.AtBats, ortiz.Hits, ortiz.RBI, ortiz.Walks)
	}
}

func TestPointstreakPitching(t *testing.T) {
	rec := parsePointstreak(t)

	if len(rec.Pitching) != 3 {
		t.Fatalf("got %d pitching lines, want 3", len(rec.Pitching))
	}
	hart := rec.Pitching[0]
	if hart.Player.RawName != "Hart, Joe" || hart.Team != "Ducks" {
		t.Errorf("first pitcher = %q team %q, want away starter", hart.Player.RawName, hart.Team)
	}
	if hart.Outs != 27 || hart.Strikeouts != 7 {
		t.Errorf("hart = %d outs %d k", hart.Outs, hart.Strikeouts)
	}

	fox := rec.Pitching[1]
	if fox.Player.RawName != "Fox, Dan" || fox.Outs != 19 {
		t.Errorf("fox = %q %d outs, want 19 (6.1 innings)", fox.Player.RawName, fox.Outs)
	}
	pike := rec.Pitching[2]
	if pike.Outs != 8 || pike.Walks != 1 {
		t.Errorf("pike = %d outs %d bb", pike.Outs, pike.Walks)
	}
}

// The play-by-play table shares the stats-table class but only has two
// cells per row; it must not shift the batting/pitching table indexes.
func TestPointstreakSkipsPlayByPlayTable(t *testing.T) {
	rec := parsePointstreak(t)

	for _, b := range rec.Batting {
		if b.Player.RawName == "1st" || b.Player.RawName == "2nd" {
			t.Fatalf("play-by-play row parsed as batter: %q", b.Player.RawName)
		}
	}
	if rec.Teams[0].RawName != "Ducks" || rec.Teams[0].Runs != 6 {
		t.Errorf("away team line = %+v", rec.Teams[0])
	}
}
