// Package boxscore normalizes raw box-score markup into canonical game
// records. One parsing strategy exists per known source layout; all expose
// the same contract: markup + detected format in, GameRecord or ParseError
// out.
package boxscore

import (
	"fmt"

	"github.com/pable/go-boxstats/internal/model"
)

// Parser is one format-specific parsing strategy.
type Parser interface {
	Parse(doc RawDocument) (*model.GameRecord, error)
}

// ForFormat returns the parsing strategy for a detected format.
func ForFormat(f model.Format) (Parser, error) {
	switch f {
	case model.FormatA:
		return &lineParser{format: model.FormatA, withNumber: true}, nil
	case model.FormatANoNum:
		return &lineParser{format: model.FormatANoNum, withNumber: false}, nil
	case model.FormatB:
		return &formatBParser{}, nil
	case model.FormatPointstreak:
		return &pointstreakParser{}, nil
	default:
		return nil, fmt.Errorf("no parser for format %q", f)
	}
}

// ParseDocument parses a document with the strategy for its detected format.
func ParseDocument(doc RawDocument, f model.Format) (*model.GameRecord, error) {
	p, err := ForFormat(f)
	if err != nil {
		return nil, err
	}
	return p.Parse(doc)
}

// buildRecord assembles the canonical record once a format parser has
// extracted metadata and stat lines. Metadata gaps surface as a ParseError
// naming the missing fields.
func buildRecord(f model.Format, doc RawDocument, md Metadata, source model.Source,
	batting []model.BattingLine, pitching []model.PitchingLine, teams []model.TeamLine) (*model.GameRecord, error) {

	// A score header may be absent when team totals rows carry the runs.
	if !md.scoreSet && len(teams) == 2 {
		md.AwayScore = teams[0].Runs
		md.HomeScore = teams[1].Runs
		md.scoreSet = true
	}

	if missing := md.Complete(); len(missing) > 0 {
		return nil, &ParseError{Format: f, Path: doc.Path, Missing: missing}
	}
	if len(batting) == 0 && len(pitching) == 0 {
		return nil, &ParseError{Format: f, Path: doc.Path, Reason: "no stat lines found"}
	}

	meta := model.GameMeta{
		Date:       md.Date,
		GameNumber: md.GameNumber,
		Venue:      md.Venue,
		AwayRaw:    md.AwayRaw,
		HomeRaw:    md.HomeRaw,
		AwayScore:  md.AwayScore,
		HomeScore:  md.HomeScore,
		Format:     f,
		Source:     source,
		SourcePath: doc.Path,
	}

	if len(teams) == 0 {
		teams = []model.TeamLine{
			{RawName: md.AwayRaw, Home: false, Runs: md.AwayScore},
			{RawName: md.HomeRaw, Home: true, Runs: md.HomeScore},
		}
	}

	return &model.GameRecord{Meta: meta, Batting: batting, Pitching: pitching, Teams: teams}, nil
}
