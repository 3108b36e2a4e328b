package storage

import (
	"fmt"
	"strings"
)

// LeaderRow is one identity's value for a single stat, used by
// leaderboards and the CSV exporter.
type LeaderRow struct {
	Key   string
	Name  string
	Team  string
	Games int
	Value int
}

// StatLeaders returns identities ranked by one counting stat within a
// scope. season is ignored for career scope. limit <= 0 means all rows.
func (db *DB) StatLeaders(stat, scope string, season, limit int) ([]LeaderRow, error) {
	if scope == "career" {
		season = 0
	}
	query := `
		SELECT t.key, p.name, p.team, p.games, t.value
		FROM totals t
		JOIN players p ON p.key = t.key AND p.scope = t.scope AND p.season = t.season
		WHERE t.stat = ? AND t.scope = ? AND t.season = ?
		ORDER BY t.value DESC, t.key`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := db.conn.Query(query, stat, scope, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderRow
	for rows.Next() {
		var r LeaderRow
		if err := rows.Scan(&r.Key, &r.Name, &r.Team, &r.Games, &r.Value); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary read-only statement and returns column
// names plus stringified rows. Mutating statements are rejected.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(query))
	if !strings.HasPrefix(trimmed, "SELECT") && !strings.HasPrefix(trimmed, "WITH") {
		return nil, nil, fmt.Errorf("only SELECT queries allowed")
	}
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		raw := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range raw {
			switch x := v.(type) {
			case nil:
				rec[i] = ""
			case []byte:
				rec[i] = string(x)
			default:
				rec[i] = fmt.Sprintf("%v", x)
			}
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}
