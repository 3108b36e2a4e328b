package boxscore

import (
	"strings"

	"github.com/pable/go-boxstats/internal/model"
)

// lineParser handles format A and its no-jersey-number variant: whitespace
// tokenized stat rows, away block first, optionally printed side by side
// with the home block on shared lines.
type lineParser struct {
	format     model.Format
	withNumber bool
}

// battingStatCols is the fixed column order after name/position:
// ab r h rbi bb k po a lob.
var battingStatCols = []string{"ab", "r", "h", "rbi", "bb", "k", "po", "a", "lob"}

// pitchingStatCols after the name: ip h r er bb k bf ab np.
var pitchingStatCols = []string{"ip", "h", "r", "er", "bb", "k", "bf", "ab", "np"}

func (lp *lineParser) Parse(doc RawDocument) (*model.GameRecord, error) {
	lines := FlattenMarkup(doc.Text)
	md := ExtractMetadata(lines, doc.Path)

	perr := &ParseError{Format: lp.format, Path: doc.Path}
	fr := &fieldReader{perr: perr}

	var batting []model.BattingLine
	var pitching []model.PitchingLine
	var teams []model.TeamLine

	section := ""   // "", "batting", "pitching"
	blockIdx := -1  // 0 = away, 1 = home; advanced at each batting header
	pitchIdx := -1  // same, for pitching headers
	for _, ln := range lines {
		low := strings.ToLower(ln)
		switch {
		case strings.Contains(low, "ab r h rbi bb k po a lob") ||
			strings.Contains(low, "ab  r  h rbi bb  k po  a lob"):
			section = "batting"
			if blockIdx < 1 {
				blockIdx++
			}
			continue
		case strings.Contains(low, "ip h r er bb k bf ab np") ||
			(strings.Contains(low, " ip ") && strings.Contains(low, " er ") && strings.Contains(low, " bf ")):
			section = "pitching"
			if pitchIdx < 1 {
				pitchIdx++
			}
			continue
		}

		if strings.HasPrefix(low, "totals") {
			if tl := lp.parseTotals(ln, blockIdx == 1, fr); tl != nil {
				teams = append(teams, *tl)
			}
			continue
		}
		if isNoteLine(ln) {
			continue // handled by the game-notes pass below
		}

		switch section {
		case "batting":
			for _, bl := range lp.parseBattingLine(ln, blockIdx == 1, fr) {
				batting = append(batting, bl)
			}
		case "pitching":
			if pl := lp.parsePitchingLine(ln, fr); pl != nil {
				pl.Team = sideTeam(pitchIdx == 1)
				pitching = append(pitching, *pl)
			}
		}
	}

	if fr.failed() {
		return nil, perr
	}

	notes := ExtractGameNotes(lines)
	ApplyGameNotes(batting, notes)
	ApplyDecisions(pitching, notes)

	rec, err := buildRecord(lp.format, doc, md, model.SourceNCAA, batting, pitching, teams)
	if err != nil {
		return nil, err
	}
	tagSides(rec)
	return rec, nil
}

// parseBattingLine parses one stat row, which may carry one player or two
// (away | home side-by-side). homeBlock marks which team a single-player
// row belongs to; a two-player row is always away-then-home.
func (lp *lineParser) parseBattingLine(ln string, homeBlock bool, fr *fieldReader) []model.BattingLine {
	parts := strings.Fields(ln)

	first, consumed, ok := lp.parseOneBatter(parts, fr)
	if !ok {
		return nil
	}

	rest := parts[consumed:]
	if second, _, ok2 := lp.parseOneBatter(rest, fr); ok2 {
		first.Team = sideTeam(false)
		second.Team = sideTeam(true)
		return []model.BattingLine{first, second}
	}

	first.Team = sideTeam(homeBlock)
	return []model.BattingLine{first}
}

// parseOneBatter consumes number? name... pos stat×9 from the tokens.
// Returns ok=false when the tokens do not have player-row shape; a row with
// player shape but non-numeric stat columns records fields on the reader.
func (lp *lineParser) parseOneBatter(parts []string, fr *fieldReader) (model.BattingLine, int, bool) {
	var bl model.BattingLine
	i := 0
	if lp.withNumber {
		if len(parts) < 1+1+1+len(battingStatCols) || !isInt(parts[0]) {
			return bl, 0, false
		}
		bl.Number = parts[0]
		i = 1
	} else if len(parts) < 1+1+len(battingStatCols) {
		return bl, 0, false
	}

	// Name runs until the position token. Positions within the next three
	// tokens keep "Van Sickle ss"-style names intact.
	posIdx := -1
	for j := i; j < i+3 && j < len(parts); j++ {
		if isPosition(parts[j]) {
			posIdx = j
			break
		}
	}
	if posIdx <= i {
		return bl, 0, false
	}
	bl.Player = model.Identity{RawName: strings.Join(parts[i:posIdx], " "), State: model.Unresolved}
	bl.Position = strings.ToLower(parts[posIdx])

	stats := parts[posIdx+1:]
	if len(stats) < len(battingStatCols)-1 {
		return bl, 0, false
	}

	vals := make([]int, len(battingStatCols))
	n := len(battingStatCols)
	if len(stats) == n-1 || (len(stats) > n-1 && !isInt(stats[n-1])) {
		n-- // lob column absent; treated as zero, not an error
	}
	for k := 0; k < n; k++ {
		vals[k] = fr.intField(battingStatCols[k], stats[k])
	}

	bl.AtBats, bl.Runs, bl.Hits, bl.RBI = vals[0], vals[1], vals[2], vals[3]
	bl.Walks, bl.Strikeouts, bl.PutOuts, bl.Assists, bl.LeftOnBase = vals[4], vals[5], vals[6], vals[7], vals[8]

	return bl, posIdx + 1 + n, true
}

func (lp *lineParser) parsePitchingLine(ln string, fr *fieldReader) *model.PitchingLine {
	parts := strings.Fields(ln)
	i := 0
	var pl model.PitchingLine
	if lp.withNumber {
		if len(parts) < 1+1+len(pitchingStatCols) || !isInt(parts[0]) {
			return nil
		}
		pl.Number = parts[0]
		i = 1
	} else if len(parts) < 1+len(pitchingStatCols) {
		return nil
	}

	// Name runs until the innings-pitched token (digits with optional .frac).
	ipIdx := -1
	for j := i; j < len(parts); j++ {
		if looksLikeInnings(parts[j]) {
			ipIdx = j
			break
		}
	}
	if ipIdx <= i || len(parts)-ipIdx < 6 {
		return nil
	}

	name := strings.Join(parts[i:ipIdx], " ")
	name, decision := splitDecision(name)
	pl.Player = model.Identity{RawName: name, State: model.Unresolved}
	pl.Decision = decision

	stats := parts[ipIdx:]
	pl.Outs = fr.outsField("ip", stats[0])
	rest := []struct {
		name string
		dst  *int
	}{
		{"h", &pl.Hits}, {"r", &pl.Runs}, {"er", &pl.EarnedRuns},
		{"bb", &pl.Walks}, {"k", &pl.Strikeouts}, {"bf", &pl.BattersFaced},
		{"ab", &pl.AtBats}, {"np", &pl.Pitches},
	}
	for k, col := range rest {
		if k+1 >= len(stats) {
			break // trailing optional columns (bf/ab/np) absent in some prints
		}
		*col.dst = fr.intField(col.name, stats[k+1])
	}
	return &pl
}

// parseTotals reads a "Totals 34 9 12 8 ..." row into a team line.
func (lp *lineParser) parseTotals(ln string, home bool, fr *fieldReader) *model.TeamLine {
	parts := strings.Fields(ln)
	if len(parts) < 4 || !isInt(parts[1]) {
		return nil
	}
	tl := model.TeamLine{Home: home}
	// Totals row mirrors the batting columns: ab r h rbi ...
	tl.Runs = fr.intField("totals_r", parts[2])
	tl.Hits = fr.intField("totals_h", parts[3])
	if len(parts) > 10 && isInt(parts[10]) {
		tl.LeftOnBase = fr.intField("totals_lob", parts[10])
	}
	return &tl
}

func looksLikeInnings(tok string) bool {
	whole, frac, found := strings.Cut(tok, ".")
	if !isInt(whole) {
		return false
	}
	return found && isInt(frac)
}

// splitDecision strips a trailing decision annotation from a pitcher
// name: "Barbery W (3-2)" or "Smith S (4)". Some sources write saves as
// "SV"; the canonical decision token is "S".
func splitDecision(name string) (string, string) {
	for _, d := range []string{" W", " L", " SV", " S"} {
		dec := strings.TrimSpace(d)
		if dec == "SV" {
			dec = "S"
		}
		if i := strings.Index(name, d+" ("); i > 0 {
			return strings.TrimSpace(name[:i]), dec
		}
		if strings.HasSuffix(name, d) {
			return strings.TrimSpace(strings.TrimSuffix(name, d)), dec
		}
	}
	return name, ""
}

// sideTeam returns a placeholder the resolver replaces; the canonical team
// id depends on metadata resolution, so parsing keeps only the side.
func sideTeam(home bool) model.TeamID {
	if home {
		return model.TeamID("__home__")
	}
	return model.TeamID("__away__")
}

// tagSides rewrites side placeholders into the raw team names now that the
// metadata is known. The resolver later maps raw names to canonical ids.
func tagSides(rec *model.GameRecord) {
	for i := range rec.Batting {
		rec.Batting[i].Team = sideToRaw(rec.Batting[i].Team, rec)
	}
	for i := range rec.Pitching {
		rec.Pitching[i].Team = sideToRaw(rec.Pitching[i].Team, rec)
	}
	for i := range rec.Teams {
		if rec.Teams[i].RawName == "" {
			if rec.Teams[i].Home {
				rec.Teams[i].RawName = rec.Meta.HomeRaw
			} else {
				rec.Teams[i].RawName = rec.Meta.AwayRaw
			}
		}
	}
}

func sideToRaw(t model.TeamID, rec *model.GameRecord) model.TeamID {
	switch t {
	case "__home__":
		return model.TeamID(rec.Meta.HomeRaw)
	case "__away__":
		return model.TeamID(rec.Meta.AwayRaw)
	default:
		return t
	}
}
