package milb

import (
	"fmt"
	"strings"

	"github.com/pable/go-boxstats/internal/model"
)

// ToRecord converts a fetched box score into the canonical game record.
// Names come back resolved against the API's numeric person ids, so
// every identity is marked resolved up front.
func ToRecord(sched *ScheduleGame, box *BoxScore) (*model.GameRecord, error) {
	date := sched.OfficialDate
	if date == "" {
		if len(sched.GameDate) < 10 {
			return nil, fmt.Errorf("game %d: no usable date", sched.GamePk)
		}
		date = sched.GameDate[:10]
	}
	gameNumber := 0
	if sched.DoubleHeader != "" && sched.DoubleHeader != "N" {
		gameNumber = sched.GameNumber
	}

	meta := model.GameMeta{
		Date:       date,
		GameNumber: gameNumber,
		Venue:      sched.Venue.Name,
		AwayRaw:    box.Teams.Away.Team.Name,
		HomeRaw:    box.Teams.Home.Team.Name,
		AwayScore:  sched.Teams.Away.Score,
		HomeScore:  sched.Teams.Home.Score,
		Format:     model.FormatAPI,
		Source:     model.SourceMiLB,
		SourcePath: fmt.Sprintf("%s/game/%d/boxscore", baseURL, sched.GamePk),
	}

	rec := &model.GameRecord{Meta: meta}
	for _, side := range []struct {
		team BoxTeam
		home bool
	}{
		{box.Teams.Away, false},
		{box.Teams.Home, true},
	} {
		rec.Teams = append(rec.Teams, model.TeamLine{
			RawName:    side.team.Team.Name,
			Home:       side.home,
			Runs:       side.team.TeamStats.Batting.Runs,
			Hits:       side.team.TeamStats.Batting.Hits,
			Errors:     side.team.TeamStats.Fielding.Errors,
			LeftOnBase: side.team.TeamStats.Batting.LeftOnBase,
		})
		rec.Batting = append(rec.Batting, battingLines(side.team)...)
		rec.Pitching = append(rec.Pitching, pitchingLines(side.team)...)
	}
	if len(rec.Batting) == 0 {
		return nil, fmt.Errorf("game %d: box score has no batting lines", sched.GamePk)
	}
	return rec, nil
}

func battingLines(team BoxTeam) []model.BattingLine {
	var out []model.BattingLine
	for _, id := range team.Batters {
		p, ok := team.Players[fmt.Sprintf("ID%d", id)]
		if !ok {
			continue
		}
		b := p.Stats.Batting
		out = append(out, model.BattingLine{
			Player:      apiIdentity(p),
			Team:        model.TeamID(team.Team.Name),
			Position:    strings.ToLower(p.Position.Abbreviation),
			Number:      p.JerseyNumber,
			AtBats:      b.AtBats,
			Runs:        b.Runs,
			Hits:        b.Hits,
			RBI:         b.RBI,
			Walks:       b.BaseOnBalls,
			Strikeouts:  b.StrikeOuts,
			LeftOnBase:  b.LeftOnBase,
			Doubles:     b.Doubles,
			Triples:     b.Triples,
			HomeRuns:    b.HomeRuns,
			StolenBases: b.StolenBases,
		})
	}
	return out
}

func pitchingLines(team BoxTeam) []model.PitchingLine {
	var out []model.PitchingLine
	for _, id := range team.Pitchers {
		p, ok := team.Players[fmt.Sprintf("ID%d", id)]
		if !ok {
			continue
		}
		st := p.Stats.Pitching
		out = append(out, model.PitchingLine{
			Player:       apiIdentity(p),
			Team:         model.TeamID(team.Team.Name),
			Number:       p.JerseyNumber,
			Outs:         st.Outs,
			Hits:         st.Hits,
			Runs:         st.Runs,
			EarnedRuns:   st.EarnedRuns,
			Walks:        st.BaseOnBalls,
			Strikeouts:   st.StrikeOuts,
			BattersFaced: st.BattersFaced,
			AtBats:       st.AtBats,
			Pitches:      st.NumberOfPitches,
			Decision:     decisionOf(st),
		})
	}
	return out
}

func apiIdentity(p BoxPlayer) model.Identity {
	return model.Identity{
		PlayerID: model.PlayerID(fmt.Sprintf("milb:%d", p.Person.ID)),
		RawName:  p.Person.FullName,
		FullName: p.Person.FullName,
		State:    model.Resolved,
	}
}

func decisionOf(st PitchingStats) string {
	switch {
	case st.Wins > 0:
		return "W"
	case st.Losses > 0:
		return "L"
	case st.Saves > 0:
		return "S"
	}
	// Some levels only populate the free-text note.
	note := strings.TrimSpace(st.Note)
	switch {
	case strings.HasPrefix(note, "(W"):
		return "W"
	case strings.HasPrefix(note, "(L"):
		return "L"
	case strings.HasPrefix(note, "(S"):
		return "S"
	}
	return ""
}
