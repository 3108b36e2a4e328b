// Package aggregate maintains the cumulative season and career totals
// that milestone detection reads. Application is idempotent at the game
// level: a game id is applied at most once per store lifetime.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/pable/go-boxstats/internal/model"
)

// DuplicateGameError reports an attempt to apply an already-counted game.
type DuplicateGameError struct {
	GameID string
}

func (e *DuplicateGameError) Error() string {
	return fmt.Sprintf("game %s already applied", e.GameID)
}

type seasonKey struct {
	key    string
	season int
}

// Store accumulates counting stats per identity. Counting totals only
// ever grow; the only way down is a full clear and replay.
type Store struct {
	season  map[seasonKey]*model.CumulativeStat
	career  map[string]*model.CumulativeStat
	applied map[string]bool
}

func New() *Store {
	return &Store{
		season:  make(map[seasonKey]*model.CumulativeStat),
		career:  make(map[string]*model.CumulativeStat),
		applied: make(map[string]bool),
	}
}

// Applied reports whether a game id has already been counted.
func (s *Store) Applied(gameID string) bool {
	return s.applied[gameID]
}

// AppliedGames returns the counted game ids in sorted order.
func (s *Store) AppliedGames() []string {
	ids := make([]string, 0, len(s.applied))
	for id := range s.applied {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Apply folds one game into the running totals and returns the
// per-identity deltas it contributed, sorted by identity key. A second
// Apply with the same game id fails with DuplicateGameError and leaves
// every total untouched.
func (s *Store) Apply(rec *model.GameRecord) ([]model.Delta, error) {
	gameID := rec.Meta.GameID
	if gameID == "" {
		return nil, fmt.Errorf("apply game: empty game id")
	}
	if s.applied[gameID] {
		return nil, &DuplicateGameError{GameID: gameID}
	}

	// ---- Pass 1: collect per-identity deltas from the stat lines. ----

	type contribution struct {
		name   string
		team   model.TeamID
		totals map[model.Stat]int
	}
	contrib := make(map[string]*contribution)
	get := func(id model.Identity, team model.TeamID) *contribution {
		key := id.Key()
		c := contrib[key]
		if c == nil {
			c = &contribution{name: id.DisplayName(), team: team, totals: make(map[model.Stat]int)}
			contrib[key] = c
		}
		return c
	}

	for i := range rec.Batting {
		b := &rec.Batting[i]
		c := get(b.Player, b.Team)
		c.totals[model.StatGamesPlayed] = 1
		addStat(c.totals, model.StatAtBats, b.AtBats)
		addStat(c.totals, model.StatRuns, b.Runs)
		addStat(c.totals, model.StatHits, b.Hits)
		addStat(c.totals, model.StatRBI, b.RBI)
		addStat(c.totals, model.StatWalks, b.Walks)
		addStat(c.totals, model.StatStrikeouts, b.Strikeouts)
		addStat(c.totals, model.StatDoubles, b.Doubles)
		addStat(c.totals, model.StatTriples, b.Triples)
		addStat(c.totals, model.StatHomeRuns, b.HomeRuns)
		addStat(c.totals, model.StatStolenBases, b.StolenBases)
		addStat(c.totals, model.StatTotalBases, b.TotalBases())
	}
	for i := range rec.Pitching {
		p := &rec.Pitching[i]
		c := get(p.Player, p.Team)
		c.totals[model.StatGamesPlayed] = 1
		addStat(c.totals, model.StatOuts, p.Outs)
		addStat(c.totals, model.StatPitchHits, p.Hits)
		addStat(c.totals, model.StatPitchRuns, p.Runs)
		addStat(c.totals, model.StatEarnedRuns, p.EarnedRuns)
		addStat(c.totals, model.StatPitchWalks, p.Walks)
		addStat(c.totals, model.StatPitchKs, p.Strikeouts)
		addStat(c.totals, model.StatPitches, p.Pitches)
		switch p.Decision {
		case "W":
			addStat(c.totals, model.StatWins, 1)
		case "L":
			addStat(c.totals, model.StatLosses, 1)
		case "S":
			addStat(c.totals, model.StatSaves, 1)
		}
	}

	// ---- Pass 2: fold deltas into season and career totals. ----

	season := seasonOf(rec.Meta.Date)
	keys := make([]string, 0, len(contrib))
	for k := range contrib {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	deltas := make([]model.Delta, 0, len(keys))
	for _, key := range keys {
		c := contrib[key]

		sc := s.seasonStat(key, season)
		cc := s.careerStat(key)
		for _, dst := range []*model.CumulativeStat{sc, cc} {
			dst.Name = c.name
			if c.team != "" {
				dst.Team = c.team
			}
			dst.Games++
			for stat, n := range c.totals {
				if stat == model.StatGamesPlayed {
					continue
				}
				dst.Totals[stat] += n
			}
		}
		deltas = append(deltas, model.Delta{Key: key, GameID: gameID, Totals: c.totals})
	}

	s.applied[gameID] = true
	return deltas, nil
}

func (s *Store) seasonStat(key string, season int) *model.CumulativeStat {
	sk := seasonKey{key, season}
	c := s.season[sk]
	if c == nil {
		c = &model.CumulativeStat{Key: key, Scope: model.ScopeSeason, Totals: make(map[model.Stat]int)}
		s.season[sk] = c
	}
	return c
}

func (s *Store) careerStat(key string) *model.CumulativeStat {
	c := s.career[key]
	if c == nil {
		c = &model.CumulativeStat{Key: key, Scope: model.ScopeCareer, Totals: make(map[model.Stat]int)}
		s.career[key] = c
	}
	return c
}

// Season returns the running season totals for one identity, nil when
// the identity has no counted games that season.
func (s *Store) Season(key string, season int) *model.CumulativeStat {
	return s.season[seasonKey{key, season}]
}

// Career returns the running career totals for one identity.
func (s *Store) Career(key string) *model.CumulativeStat {
	return s.career[key]
}

// SeasonAll returns every season entry for one year, sorted by key.
func (s *Store) SeasonAll(season int) []*model.CumulativeStat {
	var out []*model.CumulativeStat
	for sk, c := range s.season {
		if sk.season == season {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// CareerAll returns every career entry, sorted by key.
func (s *Store) CareerAll() []*model.CumulativeStat {
	out := make([]*model.CumulativeStat, 0, len(s.career))
	for _, c := range s.career {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Seed loads persisted totals and the applied-game ledger, replacing
// whatever the store currently holds. Season entries carry their year in
// Games-independent storage, passed alongside.
func (s *Store) Seed(seasonStats map[int][]model.CumulativeStat, careerStats []model.CumulativeStat, appliedGames []string) {
	s.season = make(map[seasonKey]*model.CumulativeStat)
	s.career = make(map[string]*model.CumulativeStat)
	s.applied = make(map[string]bool)
	for year, stats := range seasonStats {
		for i := range stats {
			c := stats[i]
			if c.Totals == nil {
				c.Totals = make(map[model.Stat]int)
			}
			s.season[seasonKey{c.Key, year}] = &c
		}
	}
	for i := range careerStats {
		c := careerStats[i]
		if c.Totals == nil {
			c.Totals = make(map[model.Stat]int)
		}
		s.career[c.Key] = &c
	}
	for _, id := range appliedGames {
		s.applied[id] = true
	}
}

func addStat(m map[model.Stat]int, s model.Stat, n int) {
	if n != 0 {
		m[s] += n
	}
}

func seasonOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	var y int
	_, err := fmt.Sscanf(date[:4], "%d", &y)
	if err != nil {
		return 0
	}
	return y
}
