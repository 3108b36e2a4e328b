package boxscore

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pable/go-boxstats/internal/model"
)

// pointstreakParser handles partner-league (Atlantic, American Association,
// Frontier) Pointstreak box scores: real HTML tables rather than converted
// PDF text. Table order on the page is home batting, away batting, home
// pitching, away pitching; the title lists the home team first.
type pointstreakParser struct{}

var (
	psTitleRe = regexp.MustCompile(`(.+?)\s+vs\.?\s+(.+?)\s+-`)
	psDateRe  = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)
	psVenueRe = regexp.MustCompile(`(?i)Location[:\s]+([^\n]+)`)
)

func (ps *pointstreakParser) Parse(doc RawDocument) (*model.GameRecord, error) {
	perr := &ParseError{Format: model.FormatPointstreak, Path: doc.Path}
	fr := &fieldReader{perr: perr}

	gq, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Text))
	if err != nil {
		perr.Reason = "invalid HTML: " + err.Error()
		return nil, perr
	}

	var md Metadata
	if m := psTitleRe.FindStringSubmatch(gq.Find("title").Text()); m != nil {
		md.HomeRaw = strings.TrimSpace(m[1]) // Pointstreak titles put home first
		md.AwayRaw = strings.TrimSpace(m[2])
	}

	pageText := gq.Text()
	if d := psDateRe.FindStringSubmatch(pageText); d != nil {
		md.Date = d[3] + "-" + d[1] + "-" + d[2]
	}
	if v := psVenueRe.FindStringSubmatch(pageText); v != nil {
		md.Venue = strings.TrimSpace(v[1])
	}

	// Scoreline spans: home first, away second.
	scores := gq.Find("span.nova-boxscore__record")
	if scores.Length() >= 2 {
		home, err1 := strconv.Atoi(strings.TrimSpace(scores.Eq(0).Text()))
		away, err2 := strconv.Atoi(strings.TrimSpace(scores.Eq(1).Text()))
		if err1 == nil && err2 == nil {
			md.HomeScore, md.AwayScore = home, away
			md.scoreSet = true
		}
	}
	md.fillFromFilename(doc.Path)

	var batting []model.BattingLine
	var pitching []model.PitchingLine

	tableIdx := 0
	gq.Find("table.nova-stats-table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if !isStatsTable(table) {
			return true // play-by-play tables share the class but have 2 cells per row
		}
		home := tableIdx == 0 || tableIdx == 2
		if tableIdx < 2 {
			batting = append(batting, ps.parseBattingTable(table, home, fr)...)
		} else {
			pitching = append(pitching, ps.parsePitchingTable(table, home, fr)...)
		}
		tableIdx++
		return tableIdx < 4
	})

	if fr.failed() {
		return nil, perr
	}

	// Canonical ordering is away first.
	orderAwayFirst(batting)
	orderPitchingAwayFirst(pitching)

	rec, err := buildRecord(model.FormatPointstreak, doc, md, model.SourcePartner, batting, pitching, nil)
	if err != nil {
		return nil, err
	}
	tagSides(rec)
	return rec, nil
}

func isStatsTable(table *goquery.Selection) bool {
	rows := table.Find("tr")
	if rows.Length() <= 2 {
		return false
	}
	return rows.Eq(2).Find("td").Length() >= 8
}

// parseBattingTable reads jersey, name, pos, AB, R, H, RBI, BB, K, AVG rows.
// The trailing AVG column is derived and ignored.
func (ps *pointstreakParser) parseBattingTable(table *goquery.Selection, home bool, fr *fieldReader) []model.BattingLine {
	var out []model.BattingLine
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 9 {
			return
		}
		jersey := strings.TrimSpace(cells.Eq(0).Text())
		if jersey == "" || !isInt(jersey) {
			return
		}
		name := strings.TrimSpace(cells.Eq(1).Text())
		if name == "" || strings.EqualFold(name, "totals") || strings.EqualFold(name, "total") {
			return
		}
		bl := model.BattingLine{
			Player:   model.Identity{RawName: name, State: model.Unresolved},
			Team:     sideTeam(home),
			Number:   jersey,
			Position: strings.ToLower(strings.TrimSpace(cells.Eq(2).Text())),
		}
		bl.AtBats = fr.intField("ab", cellText(cells, 3))
		bl.Runs = fr.intField("r", cellText(cells, 4))
		bl.Hits = fr.intField("h", cellText(cells, 5))
		bl.RBI = fr.intField("rbi", cellText(cells, 6))
		bl.Walks = fr.intField("bb", cellText(cells, 7))
		bl.Strikeouts = fr.intField("k", cellText(cells, 8))
		out = append(out, bl)
	})
	return out
}

// parsePitchingTable reads jersey, name, IP, H, R, ER, BB, K, ERA rows.
func (ps *pointstreakParser) parsePitchingTable(table *goquery.Selection, home bool, fr *fieldReader) []model.PitchingLine {
	var out []model.PitchingLine
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 8 {
			return
		}
		jersey := strings.TrimSpace(cells.Eq(0).Text())
		if jersey == "" || !isInt(jersey) {
			return
		}
		name := strings.TrimSpace(cells.Eq(1).Text())
		if name == "" || strings.EqualFold(name, "totals") {
			return
		}
		pl := model.PitchingLine{
			Player: model.Identity{RawName: name, State: model.Unresolved},
			Team:   sideTeam(home),
			Number: jersey,
		}
		pl.Outs = fr.outsField("ip", cellText(cells, 2))
		pl.Hits = fr.intField("h", cellText(cells, 3))
		pl.Runs = fr.intField("r", cellText(cells, 4))
		pl.EarnedRuns = fr.intField("er", cellText(cells, 5))
		pl.Walks = fr.intField("bb", cellText(cells, 6))
		pl.Strikeouts = fr.intField("k", cellText(cells, 7))
		out = append(out, pl)
	})
	return out
}

func cellText(cells *goquery.Selection, i int) string {
	t := strings.TrimSpace(cells.Eq(i).Text())
	if t == "" {
		return "0" // empty stat cells mean zero in Pointstreak prints
	}
	return t
}

func orderAwayFirst(lines []model.BattingLine) {
	var away, home []model.BattingLine
	for _, l := range lines {
		if l.Team == sideTeam(true) {
			home = append(home, l)
		} else {
			away = append(away, l)
		}
	}
	copy(lines, append(away, home...))
}

func orderPitchingAwayFirst(lines []model.PitchingLine) {
	var away, home []model.PitchingLine
	for _, l := range lines {
		if l.Team == sideTeam(true) {
			home = append(home, l)
		} else {
			away = append(away, l)
		}
	}
	copy(lines, append(away, home...))
}
