package boxscore

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pable/go-boxstats/internal/model"
)

// formatBParser handles the newer "Team (record) -vs- Team (record)" layout:
// no jersey numbers, batting columns AB R H RBI BB SO LOB, both teams
// printed side by side, and a per-team pitching section introduced by a
// "Team IP H R ER ..." header.
type formatBParser struct{}

var (
	bVsHeaderRe       = regexp.MustCompile(`([A-Za-z.&' \-]+?)\s*\((\d+-\d+)\)\s*-vs-\s*([A-Za-z.&' \-]+?)\s*\((\d+-\d+)\)`)
	bPitchingHeaderRe = regexp.MustCompile(`^([A-Za-z.&' \-]+?)\s+IP\s+H\s+R\s+ER`)
	bPitchingStatsRe  = regexp.MustCompile(`\s(\d+\.\d)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)`)
	bDecisionSuffixRe = regexp.MustCompile(`\s*\((SV|[WLS]),?\s*[\d\-]+\)\s*$`)
	// "Hawks 2 0 3 - 5 9 1" under the Score by Innings header.
	bLinescoreRe = regexp.MustCompile(`^([A-Za-z.&' \-]+?)\s+(?:\d+\s+)+-\s+(\d+)\s+(\d+)\s+(\d+)$`)
)

func (fb *formatBParser) Parse(doc RawDocument) (*model.GameRecord, error) {
	lines := FlattenMarkup(doc.Text)
	md := ExtractMetadata(lines, doc.Path)

	perr := &ParseError{Format: model.FormatB, Path: doc.Path}
	fr := &fieldReader{perr: perr}

	// The -vs- header names the teams even when the score header is absent.
	for _, ln := range lines {
		if m := bVsHeaderRe.FindStringSubmatch(ln); m != nil {
			if md.AwayRaw == "" {
				md.AwayRaw = strings.TrimSpace(m[1])
			}
			if md.HomeRaw == "" {
				md.HomeRaw = strings.TrimSpace(m[3])
			}
			break
		}
	}

	var batting []model.BattingLine
	var pitching []model.PitchingLine
	var teams []model.TeamLine

	inBatting := false
	inLinescore := false
	pitchingSide := -1 // -1 none, 0 away, 1 home
	awayCount, homeCount := 0, 0

	for _, ln := range lines {
		switch {
		case strings.Contains(ln, "Player AB R H RBI BB SO LOB"):
			inBatting = true
			inLinescore = false
			pitchingSide = -1
			continue
		case bPitchingHeaderRe.MatchString(ln):
			inBatting = false
			inLinescore = false
			if pitchingSide < 1 {
				pitchingSide++
			}
			continue
		case strings.Contains(ln, "Play By Play") || strings.Contains(ln, "Play-By-Play"):
			inBatting = false
			inLinescore = false
			pitchingSide = -1
			continue
		case strings.HasPrefix(ln, "Win:") || strings.HasPrefix(ln, "Loss:") || strings.HasPrefix(ln, "Save:"):
			pitchingSide = -1
			continue
		case strings.Contains(ln, "Score by Innings"):
			inBatting = false
			inLinescore = true
			continue
		}

		if inLinescore {
			if m := bLinescoreRe.FindStringSubmatch(strings.TrimSpace(ln)); m != nil && len(teams) < 2 {
				name := strings.TrimSpace(m[1])
				tl := model.TeamLine{RawName: name, Home: len(teams) == 1}
				if md.HomeRaw != "" {
					tl.Home = strings.EqualFold(name, md.HomeRaw)
				}
				tl.Runs, _ = strconv.Atoi(m[2])
				tl.Hits, _ = strconv.Atoi(m[3])
				tl.Errors, _ = strconv.Atoi(m[4])
				teams = append(teams, tl)
				continue
			}
			if len(teams) == 2 {
				inLinescore = false
			}
		}

		if inBatting {
			if isNoteLine(ln) || strings.Contains(strings.ToLower(ln), "totals") {
				continue
			}
			away, home := splitSideBySide(ln)
			if home != "" {
				if bl := parseBBattingTokens(away, fr); bl != nil {
					bl.Team = sideTeam(false)
					batting = append(batting, *bl)
					awayCount++
				}
				if bl := parseBBattingTokens(home, fr); bl != nil {
					bl.Team = sideTeam(true)
					batting = append(batting, *bl)
					homeCount++
				}
			} else if bl := parseBBattingTokens(away, fr); bl != nil {
				// A lone row belongs to whichever side is shorter; the two
				// columns print in lockstep so the gap marks the side.
				isHome := awayCount > homeCount
				bl.Team = sideTeam(isHome)
				batting = append(batting, *bl)
				if isHome {
					homeCount++
				} else {
					awayCount++
				}
			}
			continue
		}

		if pitchingSide >= 0 {
			if strings.Contains(strings.ToLower(ln), "totals") || isNoteLine(ln) {
				continue
			}
			if pl := parseBPitchingLine(ln, fr); pl != nil {
				pl.Team = sideTeam(pitchingSide == 1)
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

	if len(teams) != 2 {
		teams = nil
	} else if teams[0].Home {
		teams[0], teams[1] = teams[1], teams[0]
	}
	rec, err := buildRecord(model.FormatB, doc, md, model.SourceNCAA, batting, pitching, teams)
	if err != nil {
		return nil, err
	}
	tagSides(rec)
	return rec, nil
}

// splitSideBySide cuts a two-player row after the away player's seven stat
// columns. Returns home == "" when the row holds a single player.
func splitSideBySide(ln string) (away, home string) {
	parts := strings.Fields(ln)
	if len(parts) < 14 {
		return ln, ""
	}
	numRun := 0
	for i, p := range parts {
		if isInt(p) {
			numRun++
			if numRun == 7 {
				if i+1 < len(parts) {
					return strings.Join(parts[:i+1], " "), strings.Join(parts[i+1:], " ")
				}
				return ln, ""
			}
		} else if numRun > 0 {
			numRun = 0
		}
	}
	return ln, ""
}

// parseBBattingTokens parses "Name [pos] AB R H RBI BB SO LOB". Returns nil
// for rows without batter shape; numeric-column violations are recorded on
// the reader.
func parseBBattingTokens(ln string, fr *fieldReader) *model.BattingLine {
	parts := strings.Fields(ln)
	if len(parts) < 7 {
		return nil
	}

	// Stats begin at the first run of five integers.
	statsStart := -1
	for i := 0; i+4 < len(parts); i++ {
		if isInt(parts[i]) && isInt(parts[i+1]) && isInt(parts[i+2]) && isInt(parts[i+3]) && isInt(parts[i+4]) {
			statsStart = i
			break
		}
	}
	if statsStart < 1 {
		return nil
	}

	var bl model.BattingLine
	nameEnd := statsStart
	if isPosition(parts[statsStart-1]) {
		bl.Position = strings.ToLower(parts[statsStart-1])
		nameEnd--
	}
	if nameEnd < 1 {
		return nil
	}
	bl.Player = model.Identity{RawName: strings.Join(parts[:nameEnd], " "), State: model.Unresolved}

	cols := []struct {
		name string
		dst  *int
	}{
		{"ab", &bl.AtBats}, {"r", &bl.Runs}, {"h", &bl.Hits}, {"rbi", &bl.RBI},
		{"bb", &bl.Walks}, {"so", &bl.Strikeouts}, {"lob", &bl.LeftOnBase},
	}
	for k, col := range cols {
		i := statsStart + k
		if i >= len(parts) {
			break // lob optional
		}
		*col.dst = fr.intField(col.name, parts[i])
	}
	return &bl
}

// parseBPitchingLine parses
// "Name (L, 6-2) IP H R ER BB SO WP BK HBP IBB AB BF FO GO NP".
func parseBPitchingLine(ln string, fr *fieldReader) *model.PitchingLine {
	m := bPitchingStatsRe.FindStringSubmatchIndex(ln)
	if m == nil {
		return nil
	}
	groups := bPitchingStatsRe.FindStringSubmatch(ln)

	name := strings.TrimSpace(ln[:m[2]])
	var pl model.PitchingLine
	if d := bDecisionSuffixRe.FindStringSubmatch(name); d != nil {
		pl.Decision = d[1]
		if pl.Decision == "SV" {
			pl.Decision = "S"
		}
		name = strings.TrimSpace(bDecisionSuffixRe.ReplaceAllString(name, ""))
	}
	if name == "" {
		return nil
	}
	pl.Player = model.Identity{RawName: name, State: model.Unresolved}

	pl.Outs = fr.outsField("ip", groups[1])
	pl.Hits = fr.intField("h", groups[2])
	pl.Runs = fr.intField("r", groups[3])
	pl.EarnedRuns = fr.intField("er", groups[4])
	pl.Walks = fr.intField("bb", groups[5])
	pl.Strikeouts = fr.intField("so", groups[6])

	// Remaining columns: WP BK HBP IBB AB BF FO GO NP.
	rest := strings.Fields(ln[m[1]:])
	if len(rest) >= 9 {
		if isInt(rest[4]) {
			pl.AtBats, _ = strconv.Atoi(rest[4])
		}
		if isInt(rest[5]) {
			pl.BattersFaced, _ = strconv.Atoi(rest[5])
		}
		if isInt(rest[8]) {
			pl.Pitches, _ = strconv.Atoi(rest[8])
		}
	}
	return &pl
}
