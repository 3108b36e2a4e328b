package boxscore

import (
	"regexp"
	"strconv"
	"strings"
)

// GameNotes holds the per-player extra-base and stolen-base entries from the
// notes block beneath the box score. Stat tables in these layouts carry no
// 2B/3B/HR/SB columns, so the notes are the only per-game source for them.
type GameNotes struct {
	HomeRuns    []NoteEntry
	Doubles     []NoteEntry
	Triples     []NoteEntry
	StolenBases []NoteEntry
	Win         string
	Loss        string
	Save        string
}

// NoteEntry is one "Player 2 (7)" notes item: game count plus season total
// as printed. Player is usually a bare last name.
type NoteEntry struct {
	Player      string
	GameCount   int
	SeasonTotal int
}

// statPrefixes are note keys that must never be mistaken for player names
// when note lines run together.
var statPrefixes = []string{
	"SH", "SF", "SFA", "HBP", "CS", "SB", "GDP", "LOB", "DP",
	"WP", "PB", "BK", "IBB", "E", "PO", "2B", "3B", "HR", "KL",
}

var (
	noteLineRe  = regexp.MustCompile(`^(E|DP|2B|3B|HR|SB|CS|HBP|SH|SF|WP|PB|BK|IBB|KL|GDP|LOB|Win|Loss|Save)\s*[-:]`)
	noteEntryRe = regexp.MustCompile(`^([^(]+?)(?:\s+(\d+))?\s*\((\d+)\)\s*$`)
	decisionRe  = regexp.MustCompile(`^(Win|Loss|Save)\s*[-:]\s*([A-Za-z.,' \-]+?)(?:\s*\([\d\-]+\))?\s*$`)
)

func isNoteLine(ln string) bool {
	return noteLineRe.MatchString(ln)
}

// ExtractGameNotes parses the note lines out of the flattened document.
func ExtractGameNotes(lines []string) GameNotes {
	var n GameNotes
	for _, ln := range lines {
		if d := decisionRe.FindStringSubmatch(ln); d != nil {
			name := strings.TrimSpace(d[2])
			switch d[1] {
			case "Win":
				n.Win = name
			case "Loss":
				n.Loss = name
			case "Save":
				n.Save = name
			}
			continue
		}
		if !isNoteLine(ln) {
			continue
		}
		// A note line may chain several keys: "2B - Doyle (7); HR - Ford 2 (9)".
		for _, seg := range splitNoteSegments(ln) {
			key, body, found := cutNoteKey(seg)
			if !found {
				continue
			}
			entries := parseNoteEntries(body)
			switch key {
			case "HR":
				n.HomeRuns = append(n.HomeRuns, entries...)
			case "2B":
				n.Doubles = append(n.Doubles, entries...)
			case "3B":
				n.Triples = append(n.Triples, entries...)
			case "SB":
				n.StolenBases = append(n.StolenBases, entries...)
			}
		}
	}
	return n
}

// splitNoteSegments breaks a chained note line at each stat key boundary.
func splitNoteSegments(ln string) []string {
	var segs []string
	cur := strings.Builder{}
	for _, part := range strings.Split(ln, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if noteLineRe.MatchString(part) && cur.Len() > 0 {
			segs = append(segs, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString("; ")
		}
		cur.WriteString(part)
	}
	if cur.Len() > 0 {
		segs = append(segs, cur.String())
	}
	return segs
}

func cutNoteKey(seg string) (key, body string, found bool) {
	m := noteLineRe.FindStringSubmatch(seg)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(seg[len(m[0]):]), true
}

// parseNoteEntries reads "Doyle (7); Ford 2 (9)" items. Items without a
// parenthesized season total are dropped: bare names in note position are
// usually umpire names or run-on text, never stat credits.
func parseNoteEntries(body string) []NoteEntry {
	var out []NoteEntry
	for _, item := range strings.Split(body, ";") {
		item = strings.TrimSpace(item)
		if item == "" || startsWithStatPrefix(item) {
			continue
		}
		m := noteEntryRe.FindStringSubmatch(item)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if name == "" || startsWithStatPrefix(name) {
			continue
		}
		e := NoteEntry{Player: name, GameCount: 1}
		if m[2] != "" {
			e.GameCount, _ = strconv.Atoi(m[2])
		}
		e.SeasonTotal, _ = strconv.Atoi(m[3])
		out = append(out, e)
	}
	return out
}

func startsWithStatPrefix(s string) bool {
	up := strings.ToUpper(s)
	for _, p := range statPrefixes {
		if up == p || strings.HasPrefix(up, p+" ") || strings.HasPrefix(up, p+"-") || strings.HasPrefix(up, p+":") {
			return true
		}
	}
	return false
}
