package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pable/go-boxstats/internal/model"
)

// GameExists returns true if a game with the given id is already cached.
func (db *DB) GameExists(gameID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM games WHERE game_id = ?", gameID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveGame caches a parsed game record. Uses INSERT OR REPLACE so a
// re-parse overwrites the whole record.
func (db *DB) SaveGame(rec *model.GameRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", rec.Meta.GameID, err)
	}
	// Round-trip before writing; a record that cannot decode must never
	// enter the cache.
	var check model.GameRecord
	if err := json.Unmarshal(raw, &check); err != nil || check.Meta.GameID != rec.Meta.GameID {
		return fmt.Errorf("encode game %s: round-trip failed", rec.Meta.GameID)
	}
	_, err = db.conn.Exec(`
		INSERT OR REPLACE INTO games(
			game_id, game_date, game_number, venue,
			away_team, home_team, away_raw, home_raw,
			away_score, home_score, format, source, source_path, record_json)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.Meta.GameID, rec.Meta.Date, rec.Meta.GameNumber, rec.Meta.Venue,
		string(rec.Meta.AwayTeam), string(rec.Meta.HomeTeam), rec.Meta.AwayRaw, rec.Meta.HomeRaw,
		rec.Meta.AwayScore, rec.Meta.HomeScore, string(rec.Meta.Format), rec.Meta.Source.String(),
		rec.Meta.SourcePath, string(raw),
	)
	return err
}

// LoadGame returns a cached record, nil when absent, ErrCacheCorrupt
// when the stored JSON fails validation.
func (db *DB) LoadGame(gameID string) (*model.GameRecord, error) {
	var raw string
	err := db.conn.QueryRow("SELECT record_json FROM games WHERE game_id = ?", gameID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec model.GameRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrCacheCorrupt)
	}
	if rec.Meta.GameID != gameID {
		return nil, fmt.Errorf("game %s: id mismatch: %w", gameID, ErrCacheCorrupt)
	}
	return &rec, nil
}

// ListGames returns cached game metadata ordered by date then game id.
func (db *DB) ListGames() ([]model.GameMeta, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, game_date, game_number, venue,
		       away_team, home_team, away_raw, home_raw,
		       away_score, home_score, format, source, source_path
		FROM games ORDER BY game_date, game_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GameMeta
	for rows.Next() {
		var m model.GameMeta
		var away, home, format, source string
		if err := rows.Scan(&m.GameID, &m.Date, &m.GameNumber, &m.Venue,
			&away, &home, &m.AwayRaw, &m.HomeRaw,
			&m.AwayScore, &m.HomeScore, &format, &source, &m.SourcePath); err != nil {
			return nil, err
		}
		m.AwayTeam = model.TeamID(away)
		m.HomeTeam = model.TeamID(home)
		m.Format = model.Format(format)
		m.Source = parseSource(source)
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteGame removes one cached record plus its applied-ledger entry so
// the game can be re-parsed and re-counted from scratch.
func (db *DB) DeleteGame(gameID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM games WHERE game_id = ?", gameID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM applied_games WHERE game_id = ?", gameID); err != nil {
		return err
	}
	return tx.Commit()
}

// MarkApplied records that a game's stats are folded into the totals.
func (db *DB) MarkApplied(gameID string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO applied_games(game_id, applied_at) VALUES (?, ?)",
		gameID, time.Now().UTC().Format(time.RFC3339))
	return err
}

// AppliedGames returns the ids of every counted game.
func (db *DB) AppliedGames() ([]string, error) {
	rows, err := db.conn.Query("SELECT game_id FROM applied_games ORDER BY game_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// SaveTotals writes the full cumulative state in one transaction,
// replacing existing rows for the same (key, scope, season).
func (db *DB) SaveTotals(stats []*model.CumulativeStat, season int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	playerStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO players(key, scope, season, name, team, games)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer playerStmt.Close()

	totalStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO totals(key, scope, season, stat, value)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer totalStmt.Close()

	for _, c := range stats {
		yr := season
		if c.Scope == model.ScopeCareer {
			yr = 0
		}
		if _, err := playerStmt.Exec(c.Key, string(c.Scope), yr, c.Name, string(c.Team), c.Games); err != nil {
			return fmt.Errorf("save player %s: %w", c.Key, err)
		}
		for stat, v := range c.Totals {
			if _, err := totalStmt.Exec(c.Key, string(c.Scope), yr, string(stat), v); err != nil {
				return fmt.Errorf("save total %s/%s: %w", c.Key, stat, err)
			}
		}
	}
	return tx.Commit()
}

// LoadTotals reconstructs all persisted cumulative stats: season entries
// grouped by year, plus the career entries.
func (db *DB) LoadTotals() (map[int][]model.CumulativeStat, []model.CumulativeStat, error) {
	type entryKey struct {
		key    string
		scope  string
		season int
	}
	entries := make(map[entryKey]*model.CumulativeStat)

	rows, err := db.conn.Query("SELECT key, scope, season, name, team, games FROM players")
	if err != nil {
		return nil, nil, err
	}
	for rows.Next() {
		var ek entryKey
		var name, team string
		var games int
		if err := rows.Scan(&ek.key, &ek.scope, &ek.season, &name, &team, &games); err != nil {
			rows.Close()
			return nil, nil, err
		}
		entries[ek] = &model.CumulativeStat{
			Key: ek.key, Name: name, Team: model.TeamID(team),
			Scope: model.Scope(ek.scope), Games: games,
			Totals: make(map[model.Stat]int),
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	rows, err = db.conn.Query("SELECT key, scope, season, stat, value FROM totals")
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ek entryKey
		var stat string
		var value int
		if err := rows.Scan(&ek.key, &ek.scope, &ek.season, &stat, &value); err != nil {
			return nil, nil, err
		}
		if c, ok := entries[ek]; ok {
			c.Totals[model.Stat(stat)] = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	seasonStats := make(map[int][]model.CumulativeStat)
	var career []model.CumulativeStat
	for ek, c := range entries {
		if c.Scope == model.ScopeCareer {
			career = append(career, *c)
		} else {
			seasonStats[ek.season] = append(seasonStats[ek.season], *c)
		}
	}
	return seasonStats, career, nil
}

// InsertMilestones stores fired events. The primary key absorbs replays.
func (db *DB) InsertMilestones(events []model.MilestoneEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO milestone_events(
			category, tier, scope, key, name, team, game_id, value)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		_, err = stmt.Exec(ev.Category, ev.Tier, string(ev.Scope), ev.Key,
			ev.Name, string(ev.Team), ev.GameID, ev.Value)
		if err != nil {
			return fmt.Errorf("insert milestone %s/%s: %w", ev.Category, ev.Key, err)
		}
	}
	return tx.Commit()
}

// ListMilestones returns every stored event ordered by game then category.
func (db *DB) ListMilestones() ([]model.MilestoneEvent, error) {
	rows, err := db.conn.Query(`
		SELECT category, tier, scope, key, name, team, game_id, value
		FROM milestone_events ORDER BY game_id, category, key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MilestoneEvent
	for rows.Next() {
		var ev model.MilestoneEvent
		var scope, team string
		if err := rows.Scan(&ev.Category, &ev.Tier, &scope, &ev.Key,
			&ev.Name, &team, &ev.GameID, &ev.Value); err != nil {
			return nil, err
		}
		ev.Scope = model.Scope(scope)
		ev.Team = model.TeamID(team)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// ClearDerived drops totals, the applied ledger, and milestone events
// while keeping the parsed game cache. Used before a replay.
func (db *DB) ClearDerived() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, table := range []string{"players", "totals", "applied_games", "milestone_events"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func parseSource(s string) model.Source {
	switch s {
	case "NCAA":
		return model.SourceNCAA
	case "MiLB":
		return model.SourceMiLB
	case "Partner":
		return model.SourcePartner
	default:
		return model.SourceUnknown
	}
}
