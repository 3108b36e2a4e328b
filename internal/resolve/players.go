package resolve

import (
	"regexp"
	"strings"

	"github.com/pable/go-boxstats/internal/model"
	"github.com/pable/go-boxstats/internal/roster"
)

// parsedName is a raw box-score name broken into components. Source
// documents print names as "Last, First", "Last, F.", "F. Last", or
// "First Last", frequently with position annotations glued on.
type parsedName struct {
	First        string
	Last         string
	FirstInitial string
	FullFirst    bool
	Original     string
}

var (
	parenRe        = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	posSlashRe     = regexp.MustCompile(`(?i)\s+(?:ph|pr|dh|cf|lf|rf|ss|c|[123]b)/(?:ph|pr|dh|cf|lf|rf|ss|c|[123]b)\s*$`)
	posSingleRe    = regexp.MustCompile(`(?i)\s+(?:ph|pr|dh|cf|lf|rf|ss|[123]b|c)\s*$`)
	notePrefixRe   = regexp.MustCompile(`^(SB|2B|3B|HR|CS|E|SF|SH|HBP|IBB|SO|WP|PB|BK):\s*`)
	initialDotRe   = regexp.MustCompile(`^([A-Za-z])\.\s+(.+)$`)
	bareInitialRe  = regexp.MustCompile(`^[A-Za-z]\.?$`)
	trailingNumRe  = regexp.MustCompile(`\s*\d+\s*$`)
	suffixTokens   = map[string]bool{"jr": true, "jr.": true, "sr": true, "sr.": true, "ii": true, "iii": true, "iv": true, "v": true}
	compoundPrefix = map[string]bool{"van": true, "de": true, "la": true, "le": true, "von": true, "del": true, "da": true, "mc": true, "mac": true, "o'": true}
)

// typoCorrections fixes known misprints in source documents.
var typoCorrections = map[string]string{
	"FUNY, Matty": "Fung, Matty",
	"FUNY":        "Fung",
}

// cleanName strips position annotations, note prefixes, stat notations, and
// normalizes ALL-CAPS prints to title case with suffixes preserved.
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if fix, ok := typoCorrections[name]; ok {
		name = fix
	}
	name = posSlashRe.ReplaceAllString(name, "")
	name = posSingleRe.ReplaceAllString(name, "")
	name = notePrefixRe.ReplaceAllString(name, "")
	name = parenRe.ReplaceAllString(name, " ")
	if i := strings.Index(name, "Totals"); i >= 0 {
		name = name[:i]
	}
	name = trailingNumRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)

	if name == strings.ToUpper(name) && len(name) > 2 {
		name = titleCasePreservingSuffix(name)
	}
	return name
}

func titleCasePreservingSuffix(name string) string {
	title := func(s string) string {
		words := strings.Fields(strings.ToLower(s))
		for i, w := range words {
			switch w {
			case "ii", "iii", "iv":
				words[i] = strings.ToUpper(w)
			default:
				words[i] = strings.Title(w) //nolint:staticcheck // ASCII names
			}
		}
		return strings.Join(words, " ")
	}
	if last, first, found := strings.Cut(name, ","); found {
		l, f := title(last), title(first)
		if f == "" {
			return l
		}
		return l + ", " + f
	}
	return title(name)
}

// parsePlayerName parses a cleaned raw name into components.
func parsePlayerName(raw string) parsedName {
	name := cleanName(raw)
	p := parsedName{Original: name}
	if name == "" {
		return p
	}

	if last, firstPart, found := strings.Cut(name, ","); found {
		p.Last = strings.TrimSpace(last)
		firstPart = strings.TrimSpace(firstPart)
		if bareInitialRe.MatchString(firstPart) {
			p.FirstInitial = strings.ToUpper(strings.TrimSuffix(firstPart, "."))
		} else if firstPart != "" {
			p.First = firstPart
			p.FirstInitial = strings.ToUpper(firstPart[:1])
			p.FullFirst = true
		}
		return p
	}

	if m := initialDotRe.FindStringSubmatch(name); m != nil {
		p.FirstInitial = strings.ToUpper(m[1])
		p.Last = strings.TrimSpace(m[2])
		return p
	}

	parts := strings.Fields(name)
	switch {
	case len(parts) >= 2:
		if suffixTokens[strings.ToLower(parts[len(parts)-1])] && len(parts) > 2 {
			p.Last = parts[len(parts)-2] + " " + parts[len(parts)-1]
			p.First = strings.Join(parts[:len(parts)-2], " ")
		} else {
			p.Last = parts[len(parts)-1]
			p.First = strings.Join(parts[:len(parts)-1], " ")
		}
		if p.First != "" {
			p.FirstInitial = strings.ToUpper(p.First[:1])
			p.FullFirst = true
		}
	case len(parts) == 1:
		p.Last = parts[0]
	}
	return p
}

// lastNameVariants generates the candidate last-name keys for a parsed
// name: with/without generational suffix, and the bare tail of compound
// names like "Van Sickle".
func lastNameVariants(last string) []string {
	last = strings.ToLower(last)
	variants := []string{last}
	parts := strings.Fields(last)
	if len(parts) > 1 {
		if suffixTokens[parts[len(parts)-1]] {
			variants = append(variants, strings.Join(parts[:len(parts)-1], " "))
		} else if compoundPrefix[parts[0]] {
			variants = append(variants, strings.Join(parts[1:], " "))
		}
	}
	for _, suf := range []string{"jr", "jr.", "iii", "ii"} {
		variants = append(variants, last+" "+suf)
	}
	return variants
}

// matchPlayer resolves a raw name against the rosters. Candidates come from
// the last-name index, filtered by season then team; a unique survivor
// resolves, several equally plausible survivors resolve to ambiguous.
// Deterministic: same raw name and roster state, same outcome.
func matchPlayer(rs *roster.Set, raw string, team model.TeamID, season int) (*roster.Player, model.ResolutionState) {
	parsed := parsePlayerName(raw)
	if parsed.Last == "" {
		return nil, model.Unresolved
	}

	var candidates []*roster.Player
	seen := make(map[model.PlayerID]bool)
	for _, variant := range lastNameVariants(parsed.Last) {
		for _, p := range rs.ByLastName(variant) {
			if !seen[p.ID] {
				seen[p.ID] = true
				candidates = append(candidates, p)
			}
		}
	}
	if len(candidates) == 0 {
		return nil, model.Unresolved
	}

	candidates = filterPlayers(candidates, func(p *roster.Player) bool { return season == 0 || p.Season == season })
	candidates = filterPlayers(candidates, func(p *roster.Player) bool { return team == "" || p.Team == team })

	if len(candidates) == 1 {
		return candidates[0], model.Resolved
	}

	// Disambiguate by exact first name, then first initial.
	if parsed.FullFirst && parsed.First != "" {
		exact := filterStrict(candidates, func(p *roster.Player) bool {
			return strings.EqualFold(p.FirstName, parsed.First)
		})
		if len(exact) == 1 {
			return exact[0], model.Resolved
		}
		if len(exact) > 1 {
			return nil, model.Ambiguous
		}
	}
	if parsed.FirstInitial != "" {
		initial := filterStrict(candidates, func(p *roster.Player) bool {
			return p.FirstName != "" && strings.EqualFold(p.FirstName[:1], parsed.FirstInitial)
		})
		if len(initial) == 1 {
			return initial[0], model.Resolved
		}
		if len(initial) > 1 {
			return nil, model.Ambiguous
		}
	}

	if len(candidates) > 1 {
		return nil, model.Ambiguous
	}
	return nil, model.Unresolved
}

// filterPlayers keeps matches but falls back to the unfiltered set when the
// predicate eliminates everyone (the roster may simply lack the context).
func filterPlayers(in []*roster.Player, keep func(*roster.Player) bool) []*roster.Player {
	var out []*roster.Player
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return in
	}
	return out
}

// filterStrict keeps only matches; an empty result stays empty.
func filterStrict(in []*roster.Player, keep func(*roster.Player) bool) []*roster.Player {
	var out []*roster.Player
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
