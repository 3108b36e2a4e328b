package resolve

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pable/go-boxstats/internal/model"
)

// TeamEntry is one canonical team in the reference table.
type TeamEntry struct {
	ID      model.TeamID `json:"id"`
	Name    string       `json:"name"`
	Aliases []string     `json:"aliases"`
	Stadium string       `json:"stadium,omitempty"`
	League  string       `json:"league,omitempty"`
}

// TeamTable maps raw team names to canonical identities. Resolution is
// exact-match first, then a normalization pass (case folding, punctuation
// stripping, known-abbreviation expansion). There is no fuzzy fallback:
// a wrong team merge silently corrupts win/loss and roster data, so an
// unknown name stays unresolved and is reported for operator review.
type TeamTable struct {
	entries []TeamEntry
	exact   map[string]model.TeamID
	norm    map[string]model.TeamID
}

// abbrevExpansions applied token-wise during normalization.
var abbrevExpansions = map[string]string{
	"st":    "state",
	"st.":   "state",
	"univ":  "university",
	"univ.": "university",
	"so":    "southern",
	"no":    "northern",
}

// LoadTeamTable reads the canonical team table. A missing or unreadable
// table is fatal before any processing starts.
func LoadTeamTable(path string) (*TeamTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read team table: %w", err)
	}
	var entries []TeamEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse team table: %w", err)
	}
	return NewTeamTable(entries)
}

// NewTeamTable indexes the entries. Duplicate names or aliases across teams
// are a configuration error.
func NewTeamTable(entries []TeamEntry) (*TeamTable, error) {
	t := &TeamTable{
		entries: entries,
		exact:   make(map[string]model.TeamID),
		norm:    make(map[string]model.TeamID),
	}
	for _, e := range entries {
		if e.ID == "" || e.Name == "" {
			return nil, fmt.Errorf("team table entry missing id or name: %+v", e)
		}
		names := append([]string{e.Name, string(e.ID)}, e.Aliases...)
		for _, n := range names {
			if prev, dup := t.exact[n]; dup && prev != e.ID {
				return nil, fmt.Errorf("team alias %q claimed by both %s and %s", n, prev, e.ID)
			}
			t.exact[n] = e.ID
			nk := normalizeTeamName(n)
			if prev, dup := t.norm[nk]; dup && prev != e.ID {
				return nil, fmt.Errorf("team alias %q normalizes into both %s and %s", n, prev, e.ID)
			}
			t.norm[nk] = e.ID
		}
	}
	return t, nil
}

// Resolve maps a raw team name to its canonical id. ok=false means
// unresolved; the caller reports it, never guesses.
func (t *TeamTable) Resolve(raw string) (model.TeamID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if id, ok := t.exact[raw]; ok {
		return id, true
	}
	if id, ok := t.norm[normalizeTeamName(raw)]; ok {
		return id, true
	}
	return "", false
}

// Entry returns the full table entry for a canonical id.
func (t *TeamTable) Entry(id model.TeamID) (TeamEntry, bool) {
	for _, e := range t.entries {
		if e.ID == id {
			return e, true
		}
	}
	return TeamEntry{}, false
}

func normalizeTeamName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, ".", "")
	name = strings.ReplaceAll(name, "'", "")
	name = strings.ReplaceAll(name, "-", " ")
	fields := strings.Fields(name)
	for i, f := range fields {
		if exp, ok := abbrevExpansions[f]; ok && i > 0 {
			// Leading tokens stay: "St. John's" is not "State John's".
			fields[i] = exp
		}
	}
	return strings.Join(fields, " ")
}
