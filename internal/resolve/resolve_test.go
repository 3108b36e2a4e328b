package resolve

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/pable/go-boxstats/internal/model"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	tt, err := NewTeamTable([]TeamEntry{
		{ID: "vmi", Name: "VMI", Aliases: []string{"Virginia Military"}},
		{ID: "virginia", Name: "Virginia", Aliases: []string{"UVA"}},
	})
	if err != nil {
		t.Fatalf("NewTeamTable: %v", err)
	}
	return &Resolver{Teams: tt, Rosters: testRosters(t), Log: zerolog.Nop()}
}

func sampleRecord() *model.GameRecord {
	return &model.GameRecord{
		Meta: model.GameMeta{
			Date:       "2024-03-02",
			AwayRaw:    "VMI",
			HomeRaw:    "Virginia",
			GameNumber: 2,
			AwayScore:  9,
			HomeScore:  4,
		},
		Batting: []model.BattingLine{
			{Player: model.Identity{RawName: "Ford, Trey", State: model.Unresolved}, Team: "Virginia", Hits: 3},
			{Player: model.Identity{RawName: "Mystery, Guy", State: model.Unresolved}, Team: "Virginia"},
		},
		Pitching: []model.PitchingLine{
			{Player: model.Identity{RawName: "Doyle", State: model.Unresolved}, Team: "Virginia", Outs: 27},
		},
		Teams: []model.TeamLine{
			{RawName: "VMI", Runs: 9},
			{RawName: "Virginia", Home: true, Runs: 4},
		},
	}
}

func TestResolveGameAssignsIDs(t *testing.T) {
	r := testResolver(t)
	rec := sampleRecord()

	problems := r.ResolveGame(rec)

	if rec.Meta.GameID != "2024-03-02_vmi_virginia_g2" {
		t.Errorf("game id = %q", rec.Meta.GameID)
	}
	if rec.Meta.AwayTeam != "vmi" || rec.Meta.HomeTeam != "virginia" {
		t.Errorf("teams = %q/%q", rec.Meta.AwayTeam, rec.Meta.HomeTeam)
	}
	if rec.Teams[1].Team != "virginia" {
		t.Errorf("home team line id = %q", rec.Teams[1].Team)
	}

	ford := rec.Batting[0]
	if ford.Team != "virginia" {
		t.Errorf("ford team = %q, want resolved id", ford.Team)
	}
	if ford.Player.State != model.Resolved || ford.Player.FullName != "Trey Ford" {
		t.Errorf("ford identity = %+v", ford.Player)
	}
	if ford.Player.PlayerID == "" {
		t.Error("ford has no player id")
	}

	doyle := rec.Pitching[0]
	if doyle.Player.State != model.Resolved || doyle.Player.FullName != "Ben Doyle" {
		t.Errorf("doyle identity = %+v", doyle.Player)
	}

	// The only problem is the fabricated batter.
	if len(problems) != 1 {
		t.Fatalf("problems = %v, want 1", problems)
	}
	p := problems[0]
	if p.Kind != "player" || p.Raw != "Mystery, Guy" || p.GameID != rec.Meta.GameID {
		t.Errorf("problem = %+v", p)
	}
	if rec.Batting[1].Player.State != model.Unresolved {
		t.Errorf("mystery state = %v", rec.Batting[1].Player.State)
	}
}

func TestResolveGameUnresolvedTeamKeepsSlug(t *testing.T) {
	r := testResolver(t)
	rec := sampleRecord()
	rec.Meta.AwayRaw = "Nowhere A&M"
	rec.Teams[0].RawName = "Nowhere A&M"
	rec.Batting = rec.Batting[:1]
	rec.Pitching = nil

	problems := r.ResolveGame(rec)

	if rec.Meta.GameID != "2024-03-02_nowhere-a-m_virginia_g2" {
		t.Errorf("game id = %q", rec.Meta.GameID)
	}
	foundTeam := false
	for _, p := range problems {
		if p.Kind == "team" && p.Raw == "Nowhere A&M" && p.GameID == rec.Meta.GameID {
			foundTeam = true
		}
	}
	if !foundTeam {
		t.Errorf("no team problem reported: %v", problems)
	}
}

// Identities already resolved upstream (API records) pass through untouched.
func TestResolveGameSkipsPreResolved(t *testing.T) {
	r := testResolver(t)
	rec := sampleRecord()
	rec.Batting = []model.BattingLine{{
		Player: model.Identity{PlayerID: "milb:12345", FullName: "Api Player", State: model.Resolved},
		Team:   "Virginia",
	}}
	rec.Pitching = nil

	r.ResolveGame(rec)

	got := rec.Batting[0].Player
	if got.PlayerID != "milb:12345" || got.FullName != "Api Player" {
		t.Errorf("pre-resolved identity changed: %+v", got)
	}
}
