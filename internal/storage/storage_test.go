package storage

import (
	"errors"
	"testing"

	"github.com/pable/go-boxstats/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleGame(gameID string) *model.GameRecord {
	return &model.GameRecord{
		Meta: model.GameMeta{
			GameID:    gameID,
			Date:      "2024-03-02",
			AwayTeam:  "vmi",
			HomeTeam:  "virginia",
			AwayRaw:   "VMI",
			HomeRaw:   "Virginia",
			AwayScore: 9,
			HomeScore: 4,
			Format:    model.FormatA,
			Source:    model.SourceNCAA,
		},
		Batting: []model.BattingLine{{
			Player: model.Identity{PlayerID: "ford--tre000", FullName: "Trey Ford", State: model.Resolved},
			Team:   "virginia",
			AtBats: 5, Hits: 3,
		}},
		Teams: []model.TeamLine{
			{Team: "vmi", RawName: "VMI", Runs: 9},
			{Team: "virginia", RawName: "Virginia", Home: true, Runs: 4},
		},
	}
}

func mustSave(t *testing.T, db *DB, rec *model.GameRecord) {
	t.Helper()
	if err := db.SaveGame(rec); err != nil {
		t.Fatalf("SaveGame %s: %v", rec.Meta.GameID, err)
	}
}

// ---- game cache ----

func TestSaveAndLoadGame(t *testing.T) {
	db := openMemDB(t)
	rec := sampleGame("2024-03-02_vmi_virginia")
	mustSave(t, db, rec)

	exists, err := db.GameExists(rec.Meta.GameID)
	if err != nil || !exists {
		t.Fatalf("GameExists = (%v, %v), want true", exists, err)
	}

	got, err := db.LoadGame(rec.Meta.GameID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if got.Meta.AwayScore != 9 || got.Meta.Format != model.FormatA {
		t.Errorf("meta round trip = %+v", got.Meta)
	}
	if len(got.Batting) != 1 || got.Batting[0].Player.FullName != "Trey Ford" {
		t.Errorf("batting round trip = %+v", got.Batting)
	}
	if got.Batting[0].Player.State != model.Resolved {
		t.Errorf("resolution state lost: %v", got.Batting[0].Player.State)
	}
}

func TestLoadGameAbsent(t *testing.T) {
	db := openMemDB(t)
	got, err := db.LoadGame("nope")
	if err != nil || got != nil {
		t.Errorf("LoadGame(absent) = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestSaveGameOverwrites(t *testing.T) {
	db := openMemDB(t)
	rec := sampleGame("2024-03-02_vmi_virginia")
	mustSave(t, db, rec)

	rec.Meta.HomeScore = 7
	mustSave(t, db, rec)

	got, err := db.LoadGame(rec.Meta.GameID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if got.Meta.HomeScore != 7 {
		t.Errorf("home score after overwrite = %d, want 7", got.Meta.HomeScore)
	}
	games, err := db.ListGames()
	if err != nil || len(games) != 1 {
		t.Errorf("ListGames = %d games, want 1", len(games))
	}
}

func TestLoadGameCorruptJSON(t *testing.T) {
	db := openMemDB(t)
	rec := sampleGame("2024-03-02_vmi_virginia")
	mustSave(t, db, rec)

	if _, err := db.conn.Exec(
		"UPDATE games SET record_json = ? WHERE game_id = ?",
		"{not json", rec.Meta.GameID); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	_, err := db.LoadGame(rec.Meta.GameID)
	if !errors.Is(err, ErrCacheCorrupt) {
		t.Errorf("LoadGame(corrupt) = %v, want ErrCacheCorrupt", err)
	}
}

func TestLoadGameIDMismatchIsCorrupt(t *testing.T) {
	db := openMemDB(t)
	mustSave(t, db, sampleGame("2024-03-02_vmi_virginia"))
	mustSave(t, db, sampleGame("2024-09-09_other_game"))

	// Swap the stored JSON so the row's id disagrees with the payload.
	if _, err := db.conn.Exec(`
		UPDATE games SET record_json =
			(SELECT record_json FROM games WHERE game_id = '2024-09-09_other_game')
		WHERE game_id = '2024-03-02_vmi_virginia'`); err != nil {
		t.Fatalf("swap rows: %v", err)
	}

	_, err := db.LoadGame("2024-03-02_vmi_virginia")
	if !errors.Is(err, ErrCacheCorrupt) {
		t.Errorf("mismatched payload = %v, want ErrCacheCorrupt", err)
	}
}

func TestListGamesOrdered(t *testing.T) {
	db := openMemDB(t)
	mustSave(t, db, sampleGame("2024-03-03_a_b"))
	g := sampleGame("2024-03-01_a_b")
	g.Meta.Date = "2024-03-01"
	mustSave(t, db, g)

	games, err := db.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(games) != 2 || games[0].GameID != "2024-03-01_a_b" {
		t.Errorf("order = %v", games)
	}
	if games[0].Source != model.SourceNCAA {
		t.Errorf("source round trip = %v", games[0].Source)
	}
}

func TestDeleteGameClearsLedger(t *testing.T) {
	db := openMemDB(t)
	rec := sampleGame("2024-03-02_vmi_virginia")
	mustSave(t, db, rec)
	if err := db.MarkApplied(rec.Meta.GameID); err != nil {
		t.Fatalf("MarkApplied: %v", err)
	}

	if err := db.DeleteGame(rec.Meta.GameID); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	exists, _ := db.GameExists(rec.Meta.GameID)
	if exists {
		t.Error("game still cached after delete")
	}
	applied, err := db.AppliedGames()
	if err != nil || len(applied) != 0 {
		t.Errorf("applied ledger = %v, want empty", applied)
	}
}

// ---- totals ----

func TestTotalsRoundTrip(t *testing.T) {
	db := openMemDB(t)

	seasonStat := &model.CumulativeStat{
		Key: "ford--tre000", Name: "Trey Ford", Team: "virginia",
		Scope: model.ScopeSeason, Games: 12,
		Totals: map[model.Stat]int{model.StatHits: 24, model.StatHomeRuns: 5},
	}
	careerStat := &model.CumulativeStat{
		Key: "ford--tre000", Name: "Trey Ford", Team: "virginia",
		Scope: model.ScopeCareer, Games: 48,
		Totals: map[model.Stat]int{model.StatHits: 88},
	}
	if err := db.SaveTotals([]*model.CumulativeStat{seasonStat, careerStat}, 2024); err != nil {
		t.Fatalf("SaveTotals: %v", err)
	}

	seasons, career, err := db.LoadTotals()
	if err != nil {
		t.Fatalf("LoadTotals: %v", err)
	}
	if len(seasons[2024]) != 1 {
		t.Fatalf("season entries = %v", seasons)
	}
	got := seasons[2024][0]
	if got.Games != 12 || got.Totals[model.StatHits] != 24 || got.Totals[model.StatHomeRuns] != 5 {
		t.Errorf("season round trip = %+v", got)
	}
	if len(career) != 1 || career[0].Totals[model.StatHits] != 88 {
		t.Errorf("career round trip = %+v", career)
	}
}

func TestSaveTotalsReplaces(t *testing.T) {
	db := openMemDB(t)
	c := &model.CumulativeStat{
		Key: "k", Name: "N", Scope: model.ScopeSeason, Games: 1,
		Totals: map[model.Stat]int{model.StatHits: 2},
	}
	if err := db.SaveTotals([]*model.CumulativeStat{c}, 2024); err != nil {
		t.Fatalf("SaveTotals: %v", err)
	}
	c.Games = 2
	c.Totals[model.StatHits] = 5
	if err := db.SaveTotals([]*model.CumulativeStat{c}, 2024); err != nil {
		t.Fatalf("SaveTotals again: %v", err)
	}

	seasons, _, err := db.LoadTotals()
	if err != nil {
		t.Fatalf("LoadTotals: %v", err)
	}
	if got := seasons[2024][0]; got.Games != 2 || got.Totals[model.StatHits] != 5 {
		t.Errorf("after replace = %+v", got)
	}
}

// ---- milestones ----

func TestMilestonesRoundTripAndReplay(t *testing.T) {
	db := openMemDB(t)
	ev := model.MilestoneEvent{
		Category: "hits", Tier: "25", Scope: model.ScopeSeason,
		Key: "ford--tre000", Name: "Trey Ford", Team: "virginia",
		GameID: "2024-03-02_vmi_virginia", Value: 26,
	}
	if err := db.InsertMilestones([]model.MilestoneEvent{ev}); err != nil {
		t.Fatalf("InsertMilestones: %v", err)
	}
	// Replaying the same event must not duplicate it.
	if err := db.InsertMilestones([]model.MilestoneEvent{ev}); err != nil {
		t.Fatalf("InsertMilestones replay: %v", err)
	}

	events, err := db.ListMilestones()
	if err != nil {
		t.Fatalf("ListMilestones: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0] != ev {
		t.Errorf("round trip = %+v, want %+v", events[0], ev)
	}
}

// ---- derived-state reset ----

func TestClearDerivedKeepsGameCache(t *testing.T) {
	db := openMemDB(t)
	rec := sampleGame("2024-03-02_vmi_virginia")
	mustSave(t, db, rec)
	if err := db.MarkApplied(rec.Meta.GameID); err != nil {
		t.Fatalf("MarkApplied: %v", err)
	}
	if err := db.SaveTotals([]*model.CumulativeStat{{
		Key: "k", Scope: model.ScopeSeason, Totals: map[model.Stat]int{model.StatHits: 1},
	}}, 2024); err != nil {
		t.Fatalf("SaveTotals: %v", err)
	}

	if err := db.ClearDerived(); err != nil {
		t.Fatalf("ClearDerived: %v", err)
	}

	exists, _ := db.GameExists(rec.Meta.GameID)
	if !exists {
		t.Error("game cache cleared; replay needs it")
	}
	applied, _ := db.AppliedGames()
	seasons, career, _ := db.LoadTotals()
	if len(applied) != 0 || len(seasons) != 0 || len(career) != 0 {
		t.Errorf("derived state survived: %v / %v / %v", applied, seasons, career)
	}
}

// ---- leaderboards and raw queries ----

func TestStatLeaders(t *testing.T) {
	db := openMemDB(t)
	stats := []*model.CumulativeStat{
		{Key: "a", Name: "A", Scope: model.ScopeSeason, Games: 10, Totals: map[model.Stat]int{model.StatHits: 20}},
		{Key: "b", Name: "B", Scope: model.ScopeSeason, Games: 10, Totals: map[model.Stat]int{model.StatHits: 31}},
		{Key: "c", Name: "C", Scope: model.ScopeSeason, Games: 10, Totals: map[model.Stat]int{model.StatHits: 5}},
	}
	if err := db.SaveTotals(stats, 2024); err != nil {
		t.Fatalf("SaveTotals: %v", err)
	}

	rows, err := db.StatLeaders("h", "season", 2024, 2)
	if err != nil {
		t.Fatalf("StatLeaders: %v", err)
	}
	if len(rows) != 2 || rows[0].Key != "b" || rows[1].Key != "a" {
		t.Errorf("leaders = %v", rows)
	}
	if rows[0].Value != 31 {
		t.Errorf("top value = %d", rows[0].Value)
	}
}

func TestQueryRawRejectsWrites(t *testing.T) {
	db := openMemDB(t)
	if _, _, err := db.QueryRaw("DELETE FROM games"); err == nil {
		t.Fatal("mutating statement accepted")
	}
	cols, rows, err := db.QueryRaw("SELECT COUNT(*) AS n FROM games")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 1 || cols[0] != "n" || len(rows) != 1 || rows[0][0] != "0" {
		t.Errorf("result = %v %v", cols, rows)
	}
}
