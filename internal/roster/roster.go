// Package roster loads team roster CSVs into the immutable reference tables
// the identity resolver matches against. Rosters are loaded once at startup
// and never mutated during a run.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pable/go-boxstats/internal/model"
)

// Player is one roster entry.
type Player struct {
	ID        model.PlayerID
	FirstName string
	LastName  string
	FullName  string
	Number    string
	Position  string
	Class     string // Fr/So/Jr/Sr for NCAA rosters
	Bats      string
	Throws    string
	Hometown  string
	Team      model.TeamID
	Season    int
}

// Roster is one team's players for one season.
type Roster struct {
	Team    model.TeamID
	Season  int
	Players []Player
}

// Set is every loaded roster, indexed for resolution.
type Set struct {
	rosters map[rosterKey]*Roster
	byLast  map[string][]*Player
}

type rosterKey struct {
	team   model.TeamID
	season int
}

// csv column order: name, number, position, class, bats, throws, hometown.
var csvColumns = []string{"name", "number", "position", "class", "bats", "throws", "hometown"}

var filenameRe = regexp.MustCompile(`^(\d{4})_(.+)$`)

// LoadDir loads every *.csv roster in dir. Filenames carry the season and
// team id: 2024_virginia.csv. An unreadable directory is fatal: resolving
// against partial reference data silently corrupts identities.
func LoadDir(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read roster dir: %w", err)
	}

	set := &Set{
		rosters: make(map[rosterKey]*Roster),
		byLast:  make(map[string][]*Player),
	}

	n := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		base := strings.TrimSuffix(e.Name(), ".csv")
		m := filenameRe.FindStringSubmatch(base)
		if m == nil {
			continue // not a season_team roster file
		}
		season, _ := strconv.Atoi(m[1])
		team := model.TeamID(m[2])

		r, err := loadFile(filepath.Join(dir, e.Name()), team, season)
		if err != nil {
			return nil, fmt.Errorf("load roster %s: %w", e.Name(), err)
		}
		set.add(r)
		n++
	}
	if n == 0 {
		return nil, fmt.Errorf("no roster files in %s", dir)
	}
	return set, nil
}

func loadFile(path string, team model.TeamID, season int) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col, headerless := indexColumns(header)

	r := &Roster{Team: team, Season: season}
	seq := make(map[string]int) // id stem -> next disambiguation sequence
	addRow := func(rec []string) {
		name := field(rec, col, "name")
		if name == "" {
			return
		}
		first, last := SplitName(name)
		p := Player{
			FirstName: first,
			LastName:  last,
			FullName:  name,
			Number:    field(rec, col, "number"),
			Position:  field(rec, col, "position"),
			Class:     field(rec, col, "class"),
			Bats:      field(rec, col, "bats"),
			Throws:    field(rec, col, "throws"),
			Hometown:  field(rec, col, "hometown"),
			Team:      team,
			Season:    season,
		}
		stem := idStem(first, last)
		p.ID = model.PlayerID(fmt.Sprintf("%s%03d", stem, seq[stem]))
		seq[stem]++
		r.Players = append(r.Players, p)
	}
	if headerless {
		addRow(header)
	}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		addRow(rec)
	}
	return r, nil
}

// indexColumns maps header names to indexes. A first row without a "name"
// column marks a headerless file, which uses the documented column order
// and keeps its first row as data.
func indexColumns(header []string) (map[string]int, bool) {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["name"]; ok {
		return col, false
	}
	col = make(map[string]int, len(csvColumns))
	for i, c := range csvColumns {
		col[c] = i
	}
	return col, true
}

func field(rec []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (s *Set) add(r *Roster) {
	s.rosters[rosterKey{r.Team, r.Season}] = r
	for i := range r.Players {
		p := &r.Players[i]
		key := strings.ToLower(p.LastName)
		if key != "" {
			s.byLast[key] = append(s.byLast[key], p)
		}
	}
}

// ForTeam returns the roster for a team and season, nil when absent.
func (s *Set) ForTeam(team model.TeamID, season int) *Roster {
	return s.rosters[rosterKey{team, season}]
}

// ByLastName returns every loaded player with the given last name,
// case-insensitive, across all rosters.
func (s *Set) ByLastName(last string) []*Player {
	return s.byLast[strings.ToLower(last)]
}

// Teams lists the loaded (team, season) pairs, for startup diagnostics.
func (s *Set) Teams() []string {
	var out []string
	for k := range s.rosters {
		out = append(out, fmt.Sprintf("%s/%d", k.team, k.season))
	}
	return out
}

// SplitName breaks "First [Middle] Last [Jr.]" into first/last, keeping
// generational suffixes with the last name.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(strings.TrimSpace(full))
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return "", parts[0]
	}
	suffixes := map[string]bool{"jr": true, "jr.": true, "sr": true, "sr.": true, "ii": true, "iii": true, "iv": true, "v": true}
	if suffixes[strings.ToLower(parts[len(parts)-1])] && len(parts) > 2 {
		return strings.Join(parts[:len(parts)-2], " "), parts[len(parts)-2] + " " + parts[len(parts)-1]
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

// idStem builds the register-style id stem: first six letters of the last
// name dash-padded, then the first three of the first name.
func idStem(first, last string) string {
	clean := func(s string) string {
		var b strings.Builder
		for _, r := range strings.ToLower(s) {
			if r >= 'a' && r <= 'z' {
				b.WriteRune(r)
			}
		}
		return b.String()
	}
	l := clean(last)
	if len(l) > 6 {
		l = l[:6]
	}
	for len(l) < 6 {
		l += "-"
	}
	f := clean(first)
	if len(f) > 3 {
		f = f[:3]
	}
	for len(f) < 3 {
		f += "-"
	}
	return l + f
}
