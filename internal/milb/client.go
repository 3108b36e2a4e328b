// Package milb provides a minimal client for the MLB Stats API, used to
// fetch affiliated minor league box scores that never exist as markup.
package milb

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// baseURL is the root endpoint for the public MLB Stats API.
const baseURL = "https://statsapi.mlb.com/api/v1"

// Client is a minimal MLB Stats API client. The API needs no key.
type Client struct {
	http *http.Client
	base string
}

func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: 30 * time.Second},
		base: baseURL,
	}
}

// ScheduleGame is one entry from the /schedule endpoint.
type ScheduleGame struct {
	GamePk       int    `json:"gamePk"`
	GameDate     string `json:"gameDate"`
	OfficialDate string `json:"officialDate"`
	GameNumber   int    `json:"gameNumber"`
	DoubleHeader string `json:"doubleHeader"` // "N", "Y", or "S"
	Status       struct {
		AbstractGameState string `json:"abstractGameState"`
	} `json:"status"`
	Teams struct {
		Away ScheduleSide `json:"away"`
		Home ScheduleSide `json:"home"`
	} `json:"teams"`
	Venue struct {
		Name string `json:"name"`
	} `json:"venue"`
}

type ScheduleSide struct {
	Score int `json:"score"`
	Team  struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}

// Final reports whether the game has gone final.
func (g *ScheduleGame) Final() bool {
	return g.Status.AbstractGameState == "Final"
}

// BoxScore holds the fields we need from /game/{pk}/boxscore.
type BoxScore struct {
	Teams struct {
		Away BoxTeam `json:"away"`
		Home BoxTeam `json:"home"`
	} `json:"teams"`
}

type BoxTeam struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	TeamStats struct {
		Batting struct {
			Runs       int `json:"runs"`
			Hits       int `json:"hits"`
			LeftOnBase int `json:"leftOnBase"`
		} `json:"batting"`
		Fielding struct {
			Errors int `json:"errors"`
		} `json:"fielding"`
	} `json:"teamStats"`
	Players  map[string]BoxPlayer `json:"players"`
	Batters  []int                `json:"batters"`
	Pitchers []int                `json:"pitchers"`
}

type BoxPlayer struct {
	Person struct {
		ID       int    `json:"id"`
		FullName string `json:"fullName"`
	} `json:"person"`
	JerseyNumber string `json:"jerseyNumber"`
	Position     struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
	Stats struct {
		Batting  BattingStats  `json:"batting"`
		Pitching PitchingStats `json:"pitching"`
	} `json:"stats"`
}

type BattingStats struct {
	AtBats      int `json:"atBats"`
	Runs        int `json:"runs"`
	Hits        int `json:"hits"`
	RBI         int `json:"rbi"`
	BaseOnBalls int `json:"baseOnBalls"`
	StrikeOuts  int `json:"strikeOuts"`
	Doubles     int `json:"doubles"`
	Triples     int `json:"triples"`
	HomeRuns    int `json:"homeRuns"`
	StolenBases int `json:"stolenBases"`
	LeftOnBase  int `json:"leftOnBase"`
}

type PitchingStats struct {
	InningsPitched string `json:"inningsPitched"` // "5.2"
	Outs           int    `json:"outs"`
	Hits           int    `json:"hits"`
	Runs           int    `json:"runs"`
	EarnedRuns     int    `json:"earnedRuns"`
	BaseOnBalls    int    `json:"baseOnBalls"`
	StrikeOuts     int    `json:"strikeOuts"`
	BattersFaced   int    `json:"battersFaced"`
	AtBats         int    `json:"atBats"`
	NumberOfPitches int   `json:"numberOfPitches"`
	Wins           int    `json:"wins"`
	Losses         int    `json:"losses"`
	Saves          int    `json:"saves"`
	Note           string `json:"note"` // "(W, 3-1)"
}

// get performs a GET request against the stats API and JSON-decodes the
// response body into out.
func (c *Client) get(path string, out interface{}) error {
	req, err := http.NewRequest("GET", c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetSchedule returns the games for one team on one date. sportID picks
// the league level (11 = AAA, 12 = AA, 13 = High-A, 14 = A).
func (c *Client) GetSchedule(sportID, teamID int, date string) ([]ScheduleGame, error) {
	var resp struct {
		Dates []struct {
			Games []ScheduleGame `json:"games"`
		} `json:"dates"`
	}
	path := fmt.Sprintf("/schedule?sportId=%d&teamId=%d&date=%s", sportID, teamID, date)
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	var out []ScheduleGame
	for _, d := range resp.Dates {
		out = append(out, d.Games...)
	}
	return out, nil
}

// GetGame returns the schedule entry for one game pk; the schedule
// endpoint is the only place the API exposes dates and final scores.
func (c *Client) GetGame(gamePk int) (*ScheduleGame, error) {
	var resp struct {
		Dates []struct {
			Games []ScheduleGame `json:"games"`
		} `json:"dates"`
	}
	if err := c.get(fmt.Sprintf("/schedule?gamePk=%d", gamePk), &resp); err != nil {
		return nil, err
	}
	for _, d := range resp.Dates {
		for i := range d.Games {
			if d.Games[i].GamePk == gamePk {
				return &d.Games[i], nil
			}
		}
	}
	return nil, fmt.Errorf("game %d not in schedule response", gamePk)
}

// GetBoxScore returns the box score for a single game.
func (c *Client) GetBoxScore(gamePk int) (*BoxScore, error) {
	var b BoxScore
	if err := c.get(fmt.Sprintf("/game/%d/boxscore", gamePk), &b); err != nil {
		return nil, err
	}
	return &b, nil
}
