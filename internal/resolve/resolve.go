// Package resolve maps the raw team and player names printed in box
// scores onto canonical identities. Team names go through a curated
// alias table, player names through roster matching, and resolved
// players optionally join against the cross-league register.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pable/go-boxstats/internal/model"
	"github.com/pable/go-boxstats/internal/registry"
	"github.com/pable/go-boxstats/internal/roster"
)

// Resolver resolves a parsed game record in place. All lookups are
// deterministic; nothing is ever guessed. Nil fields disable the
// corresponding lookup.
type Resolver struct {
	Teams    *TeamTable
	Rosters  *roster.Set
	Register *registry.Register
	Log      zerolog.Logger
}

// Unresolved describes one name the resolver could not settle.
type Unresolved struct {
	Kind   string // "team" or "player"
	Raw    string
	Team   string
	GameID string
	State  model.ResolutionState
}

func (u Unresolved) String() string {
	if u.State == model.Ambiguous {
		return fmt.Sprintf("%s %q: ambiguous (game %s)", u.Kind, u.Raw, u.GameID)
	}
	return fmt.Sprintf("%s %q: no match (game %s)", u.Kind, u.Raw, u.GameID)
}

// ResolveGame assigns team ids, the canonical game id, and player
// identities to rec. The record remains usable whatever comes back:
// unresolved names keep raw-name identities and are reported, never
// silently attached to the wrong player.
func (r *Resolver) ResolveGame(rec *model.GameRecord) []Unresolved {
	var problems []Unresolved

	awayID := r.resolveTeam(rec.Meta.AwayRaw, &problems)
	homeID := r.resolveTeam(rec.Meta.HomeRaw, &problems)
	rec.Meta.AwayTeam = awayID
	rec.Meta.HomeTeam = homeID
	rec.Meta.GameID = model.GameKey(rec.Meta.Date,
		teamKeyPart(awayID, rec.Meta.AwayRaw),
		teamKeyPart(homeID, rec.Meta.HomeRaw),
		rec.Meta.GameNumber)
	for p := range problems {
		problems[p].GameID = rec.Meta.GameID
	}

	for i := range rec.Teams {
		if id, ok := r.lookupTeam(rec.Teams[i].RawName); ok {
			rec.Teams[i].Team = id
		}
	}

	season := seasonOf(rec.Meta.Date)
	for i := range rec.Batting {
		team := r.sideTeamID(string(rec.Batting[i].Team), rec.Meta)
		rec.Batting[i].Team = team
		rec.Batting[i].Player = r.resolvePlayer(rec.Batting[i].Player, team, season, rec.Meta.GameID, &problems)
	}
	for i := range rec.Pitching {
		team := r.sideTeamID(string(rec.Pitching[i].Team), rec.Meta)
		rec.Pitching[i].Team = team
		rec.Pitching[i].Player = r.resolvePlayer(rec.Pitching[i].Player, team, season, rec.Meta.GameID, &problems)
	}
	return problems
}

func (r *Resolver) lookupTeam(raw string) (model.TeamID, bool) {
	if r.Teams == nil || raw == "" {
		return "", false
	}
	return r.Teams.Resolve(raw)
}

func (r *Resolver) resolveTeam(raw string, problems *[]Unresolved) model.TeamID {
	id, ok := r.lookupTeam(raw)
	if !ok && raw != "" {
		r.Log.Debug().Str("team", raw).Msg("unresolved team name")
		*problems = append(*problems, Unresolved{Kind: "team", Raw: raw, State: model.Unresolved})
	}
	return id
}

// sideTeamID maps a parser-assigned raw team name onto the side's
// resolved id, falling back to the raw name so unresolved teams still
// separate the two sides.
func (r *Resolver) sideTeamID(raw string, meta model.GameMeta) model.TeamID {
	switch raw {
	case meta.AwayRaw:
		if meta.AwayTeam != "" {
			return meta.AwayTeam
		}
	case meta.HomeRaw:
		if meta.HomeTeam != "" {
			return meta.HomeTeam
		}
	}
	return model.TeamID(raw)
}

func (r *Resolver) resolvePlayer(id model.Identity, team model.TeamID, season int, gameID string, problems *[]Unresolved) model.Identity {
	if r.Rosters == nil || id.State == model.Resolved {
		return id
	}
	player, state := matchPlayer(r.Rosters, id.RawName, team, season)
	id.State = state
	if state != model.Resolved {
		*problems = append(*problems, Unresolved{Kind: "player", Raw: id.RawName, Team: string(team), GameID: gameID, State: state})
		return id
	}
	id.PlayerID = player.ID
	id.FullName = player.FullName
	if r.Register != nil {
		id.RegisterID = r.Register.Lookup(player.FirstName, player.LastName, 0)
	}
	return id
}

// teamKeyPart slugs a team id or raw name for use in game ids.
func teamKeyPart(id model.TeamID, raw string) model.TeamID {
	if id != "" {
		return id
	}
	slug := strings.ToLower(strings.TrimSpace(raw))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	return model.TeamID(strings.Trim(slug, "-"))
}

func seasonOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}
