// Package milestone detects cumulative stat thresholds as games are
// applied. Tiers are evaluated against the running total before and
// after each game; only the highest tier crossed by a single game
// fires, and a (category, game, identity) triple fires at most once.
package milestone

import (
	"fmt"
	"sort"

	"github.com/pable/go-boxstats/internal/aggregate"
	"github.com/pable/go-boxstats/internal/model"
)

// Category is one tracked stat with its tier ladder, highest first.
type Category struct {
	Name  string
	Stat  model.Stat
	Scope model.Scope
	Tiers []int // strictly descending
}

// Catalog returns the default category set. Season ladders reset with
// the season totals; career ladders never reset.
func Catalog() []Category {
	return []Category{
		{Name: "hits", Stat: model.StatHits, Scope: model.ScopeSeason, Tiers: []int{75, 50, 25, 10}},
		{Name: "home-runs", Stat: model.StatHomeRuns, Scope: model.ScopeSeason, Tiers: []int{20, 15, 10, 5}},
		{Name: "rbi", Stat: model.StatRBI, Scope: model.ScopeSeason, Tiers: []int{60, 40, 25, 10}},
		{Name: "runs", Stat: model.StatRuns, Scope: model.ScopeSeason, Tiers: []int{50, 30, 15}},
		{Name: "doubles", Stat: model.StatDoubles, Scope: model.ScopeSeason, Tiers: []int{20, 15, 10}},
		{Name: "stolen-bases", Stat: model.StatStolenBases, Scope: model.ScopeSeason, Tiers: []int{30, 20, 10}},
		{Name: "walks", Stat: model.StatWalks, Scope: model.ScopeSeason, Tiers: []int{40, 25, 10}},
		{Name: "strikeouts", Stat: model.StatPitchKs, Scope: model.ScopeSeason, Tiers: []int{100, 75, 50, 25}},
		{Name: "wins", Stat: model.StatWins, Scope: model.ScopeSeason, Tiers: []int{10, 8, 5, 3}},
		{Name: "saves", Stat: model.StatSaves, Scope: model.ScopeSeason, Tiers: []int{10, 5, 3}},
		{Name: "innings", Stat: model.StatOuts, Scope: model.ScopeSeason, Tiers: []int{240, 150, 75}},
		{Name: "career-hits", Stat: model.StatHits, Scope: model.ScopeCareer, Tiers: []int{200, 150, 100}},
		{Name: "career-strikeouts", Stat: model.StatPitchKs, Scope: model.ScopeCareer, Tiers: []int{300, 200, 100}},
	}
}

// HighestCrossedTier returns the largest tier t with pre < t <= post.
// Tiers already reached before the game never re-fire; a game that jumps
// several tiers yields only the top one.
func HighestCrossedTier(pre, post int, tiers []int) (int, bool) {
	for _, t := range tiers {
		if pre < t && post >= t {
			return t, true
		}
	}
	return 0, false
}

type firedKey struct {
	category string
	gameID   string
	identity string
}

// Engine evaluates game deltas against the catalog. The fired ledger
// persists across Evaluate calls so replays cannot duplicate events.
type Engine struct {
	catalog []Category
	fired   map[firedKey]bool
}

func NewEngine(catalog []Category) *Engine {
	for _, cat := range catalog {
		if !sort.SliceIsSorted(cat.Tiers, func(i, j int) bool { return cat.Tiers[i] > cat.Tiers[j] }) {
			panic(fmt.Sprintf("milestone category %s: tiers not descending", cat.Name))
		}
	}
	return &Engine{catalog: catalog, fired: make(map[firedKey]bool)}
}

// SeedFired marks already-recorded events so a replay over cached games
// does not emit them again.
func (e *Engine) SeedFired(events []model.MilestoneEvent) {
	for _, ev := range events {
		e.fired[firedKey{ev.Category, ev.GameID, ev.Key}] = true
	}
}

// Evaluate inspects the deltas one applied game produced. The store must
// already include the game; the pre-game value is reconstructed as
// post minus delta. Events come back in delta order, category order
// within each identity.
func (e *Engine) Evaluate(store *aggregate.Store, deltas []model.Delta, season int) []model.MilestoneEvent {
	var events []model.MilestoneEvent
	for _, d := range deltas {
		for _, cat := range e.catalog {
			gained := d.Totals[cat.Stat]
			if gained <= 0 {
				continue
			}
			cum := e.lookup(store, cat.Scope, d.Key, season)
			if cum == nil {
				continue
			}
			post := cum.Get(cat.Stat)
			pre := post - gained
			tier, crossed := HighestCrossedTier(pre, post, cat.Tiers)
			if !crossed {
				continue
			}
			fk := firedKey{cat.Name, d.GameID, d.Key}
			if e.fired[fk] {
				continue
			}
			e.fired[fk] = true
			events = append(events, model.MilestoneEvent{
				Category: cat.Name,
				Tier:     fmt.Sprintf("%d", tier),
				Scope:    cat.Scope,
				Key:      d.Key,
				Name:     cum.Name,
				Team:     cum.Team,
				GameID:   d.GameID,
				Value:    post,
			})
		}
	}
	return events
}

func (e *Engine) lookup(store *aggregate.Store, scope model.Scope, key string, season int) *model.CumulativeStat {
	if scope == model.ScopeCareer {
		return store.Career(key)
	}
	return store.Season(key, season)
}
