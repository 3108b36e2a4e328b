package boxscore

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Metadata is the shared game-metadata sub-contract extracted by every
// format where the layout allows it. Raw team names stay raw here; identity
// resolution happens downstream.
type Metadata struct {
	Date       string // ISO yyyy-mm-dd
	GameNumber int
	Venue      string
	AwayRaw    string
	HomeRaw    string
	AwayScore  int
	HomeScore  int
	scoreSet   bool
}

var (
	dateSlashRe = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
	dateLongRe  = regexp.MustCompile(`(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),\s+(\d{4})`)
	venueRe     = regexp.MustCompile(`at\s+([A-Za-z.' \-]+(?:Field|Stadium|Park|Center|Complex))\s*\(([^)]+)\)`)
	// "VMI 9 (2-2) Virginia 4 (3-1)", optional "#18" ranks.
	scoreHeaderRe = regexp.MustCompile(`(?:#\d+\s+)?([A-Za-z.&' \-]+?)\s+(\d+)\s+\(\d+-\d+\)\s+(?:#\d+\s+)?([A-Za-z.&' \-]+?)\s+(\d+)\s+\(\d+-\d+\)`)
	matchupRe     = regexp.MustCompile(`^([A-Za-z.&' \-]+?)\s+(?:at|@)\s+(?:#\d+\s+)?([A-Za-z.&' \-]+?)(?:\s*[-–]\s*Game\s*(\d))?\s*$`)
	gameNumberRe  = regexp.MustCompile(`(?i)\(?\s*Game\s*(\d)\s*(?:of\s*\d)?\)?`)
	// 2024-03-02_vmi_virginia_g2.html
	filenameRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})_([a-z0-9.\-]+)_([a-z0-9.\-]+?)(?:_g(\d))?$`)
)

var monthNum = map[string]int{
	"January": 1, "February": 2, "March": 3, "April": 4,
	"May": 5, "June": 6, "July": 7, "August": 8,
	"September": 9, "October": 10, "November": 11, "December": 12,
}

// ExtractMetadata pulls game metadata out of the flattened lines, filling
// anything the markup lacks from the filename. The fallback order is fixed:
// markup first, filename second, so two documents with the same content
// always extract identically.
func ExtractMetadata(lines []string, path string) Metadata {
	var m Metadata

	joined := strings.Join(lines, "\n")

	if s := dateSlashRe.FindStringSubmatch(joined); s != nil {
		mo, _ := strconv.Atoi(s[1])
		day, _ := strconv.Atoi(s[2])
		m.Date = fmt.Sprintf("%s-%02d-%02d", s[3], mo, day)
	} else if s := dateLongRe.FindStringSubmatch(joined); s != nil {
		day, _ := strconv.Atoi(s[2])
		m.Date = fmt.Sprintf("%s-%02d-%02d", s[3], monthNum[s[1]], day)
	}

	if v := venueRe.FindStringSubmatch(joined); v != nil {
		m.Venue = fmt.Sprintf("%s (%s)", strings.TrimSpace(v[1]), strings.TrimSpace(v[2]))
	}

	if sc := scoreHeaderRe.FindStringSubmatch(joined); sc != nil {
		m.AwayRaw = strings.TrimSpace(sc[1])
		m.AwayScore, _ = strconv.Atoi(sc[2])
		m.HomeRaw = strings.TrimSpace(sc[3])
		m.HomeScore, _ = strconv.Atoi(sc[4])
		m.scoreSet = true
	}

	// The "Away at Home" title line confirms orientation and is the only
	// source of team names in headerless documents.
	for _, ln := range lines {
		if mu := matchupRe.FindStringSubmatch(ln); mu != nil {
			if m.AwayRaw == "" {
				m.AwayRaw = strings.TrimSpace(mu[1])
			}
			if m.HomeRaw == "" {
				m.HomeRaw = strings.TrimSpace(mu[2])
			}
			if mu[3] != "" {
				m.GameNumber, _ = strconv.Atoi(mu[3])
			}
			break
		}
	}

	if m.GameNumber == 0 {
		if g := gameNumberRe.FindStringSubmatch(joined); g != nil {
			m.GameNumber, _ = strconv.Atoi(g[1])
		}
	}

	m.fillFromFilename(path)
	return m
}

// fillFromFilename backfills date, teams, and doubleheader number from a
// YYYY-MM-DD_away_home[_gN] filename. Markup values always win.
func (m *Metadata) fillFromFilename(path string) {
	if path == "" {
		return
	}
	base := filepath.Base(path)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	f := filenameRe.FindStringSubmatch(strings.ToLower(base))
	if f == nil {
		return
	}
	if m.Date == "" {
		m.Date = f[1]
	}
	if m.AwayRaw == "" {
		m.AwayRaw = strings.ReplaceAll(f[2], "-", " ")
	}
	if m.HomeRaw == "" {
		m.HomeRaw = strings.ReplaceAll(f[3], "-", " ")
	}
	if m.GameNumber == 0 && f[4] != "" {
		m.GameNumber, _ = strconv.Atoi(f[4])
	}
}

// Complete reports whether the required metadata fields are present, and if
// not, which ones are missing.
func (m *Metadata) Complete() (missing []string) {
	if m.Date == "" {
		missing = append(missing, "date")
	}
	if m.AwayRaw == "" {
		missing = append(missing, "away_team")
	}
	if m.HomeRaw == "" {
		missing = append(missing, "home_team")
	}
	if !m.scoreSet {
		missing = append(missing, "final_score")
	}
	return missing
}
