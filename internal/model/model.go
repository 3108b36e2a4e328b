package model

import (
	"fmt"
	"strings"
)

// Source identifies which league/feed a game record came from.
type Source int

const (
	SourceUnknown Source = 0
	SourceNCAA    Source = 1
	SourceMiLB    Source = 2
	SourcePartner Source = 3
)

func (s Source) String() string {
	switch s {
	case SourceNCAA:
		return "NCAA"
	case SourceMiLB:
		return "MiLB"
	case SourcePartner:
		return "Partner"
	default:
		return "?"
	}
}

// Format tags the detected source document layout.
type Format string

const (
	FormatUnknown     Format = ""
	FormatA           Format = "format_a"
	FormatANoNum      Format = "format_a_no_num"
	FormatB           Format = "format_b"
	FormatPointstreak Format = "pointstreak"
	// FormatAPI marks records built from the MiLB stats API rather than markup.
	FormatAPI Format = "milb_api"
)

// ---- Identities ----

// TeamID is a canonical team key. Empty means unresolved.
type TeamID string

// PlayerID is a stable player key within one league's reference data
// (bref-register style, e.g. "fielde001pri"). Empty means unresolved.
type PlayerID string

// RegisterID is the cross-league identity from the external register.
// Empty means the player has no cross-league links yet.
type RegisterID string

// ResolutionState records how (or whether) a raw name was resolved.
type ResolutionState int

const (
	Unresolved ResolutionState = iota
	Resolved
	Ambiguous
)

func (r ResolutionState) String() string {
	switch r {
	case Resolved:
		return "resolved"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unresolved"
	}
}

// Identity is a resolved (or deliberately unresolved) player reference.
// RawName is always retained so unresolved lines stay attributable.
type Identity struct {
	PlayerID   PlayerID
	RegisterID RegisterID
	RawName    string
	FullName   string // canonical "First Last" when resolved
	State      ResolutionState
}

// Key returns the aggregation key for this identity: the stable player id
// when resolved, otherwise a raw-name placeholder key so unresolved players
// still accumulate consistently within a season.
func (id Identity) Key() string {
	if id.State == Resolved && id.PlayerID != "" {
		return string(id.PlayerID)
	}
	return "raw:" + strings.ToLower(strings.TrimSpace(id.RawName))
}

// DisplayName prefers the canonical full name, falling back to the raw name.
func (id Identity) DisplayName() string {
	if id.FullName != "" {
		return id.FullName
	}
	return id.RawName
}

// ---- Canonical game record ----

// GameMeta holds per-game metadata shared by every format.
type GameMeta struct {
	GameID     string // date_away_home[_gN]; stable and collision-free per season
	Date       string // ISO yyyy-mm-dd
	GameNumber int    // 0 = single game, 1/2 = doubleheader halves
	Venue      string
	AwayTeam   TeamID
	HomeTeam   TeamID
	AwayRaw    string // raw team names as printed in the source
	HomeRaw    string
	AwayScore  int
	HomeScore  int
	Format     Format
	Source     Source
	SourcePath string // document path or API URL, diagnostic only
}

// GameKey derives the deterministic game identifier. gameNumber 0 is
// omitted; doubleheader halves carry _g1/_g2.
func GameKey(date string, away, home TeamID, gameNumber int) string {
	id := fmt.Sprintf("%s_%s_%s", date, away, home)
	if gameNumber > 0 {
		id = fmt.Sprintf("%s_g%d", id, gameNumber)
	}
	return id
}

// BattingLine is one player's batting counts for a single game.
// All fields are counting stats; rates are derived on demand.
type BattingLine struct {
	Player   Identity
	Team     TeamID
	Position string
	Number   string // jersey number as printed; may be empty (format A no-num)

	AtBats     int
	Runs       int
	Hits       int
	RBI        int
	Walks      int
	Strikeouts int
	PutOuts    int
	Assists    int
	LeftOnBase int

	// Filled from game notes where the stat table lacks columns.
	Doubles     int
	Triples     int
	HomeRuns    int
	StolenBases int
}

// Singles derives 1B from hits minus extra-base hits, floored at zero for
// note/table disagreements.
func (b *BattingLine) Singles() int {
	s := b.Hits - b.Doubles - b.Triples - b.HomeRuns
	if s < 0 {
		return 0
	}
	return s
}

// TotalBases derives TB from the hit mix.
func (b *BattingLine) TotalBases() int {
	return b.Singles() + 2*b.Doubles + 3*b.Triples + 4*b.HomeRuns
}

// PitchingLine is one pitcher's counts for a single game. Innings are kept
// as integer outs so cumulative totals stay exact.
type PitchingLine struct {
	Player Identity
	Team   TeamID
	Number string

	Outs         int // innings pitched x3; "5.2" IP = 17 outs
	Hits         int
	Runs         int
	EarnedRuns   int
	Walks        int
	Strikeouts   int
	BattersFaced int
	AtBats       int
	Pitches      int
	Decision     string // "W", "L", "S", or ""
}

// InningsPitched renders outs in the conventional x.y notation.
func (p *PitchingLine) InningsPitched() string {
	return fmt.Sprintf("%d.%d", p.Outs/3, p.Outs%3)
}

// TeamLine is one team's aggregate counts for a single game.
type TeamLine struct {
	Team    TeamID
	RawName string
	Home    bool

	Runs       int
	Hits       int
	Errors     int
	LeftOnBase int
}

// GameRecord is the canonical, format-independent representation of one
// parsed game. It is immutable once written to the cache; re-parsing
// overwrites the whole record.
type GameRecord struct {
	Meta     GameMeta
	Batting  []BattingLine  // away lines first, then home, source order
	Pitching []PitchingLine // same ordering
	Teams    []TeamLine     // away then home
}

// ---- Cumulative state ----

// Scope selects which running total a cumulative entry belongs to.
type Scope string

const (
	ScopeSeason Scope = "season"
	ScopeCareer Scope = "career"
)

// Stat names every tracked counting statistic. The set is closed; the
// milestone catalog and the storage schema both key on it.
type Stat string

const (
	StatAtBats      Stat = "ab"
	StatRuns        Stat = "r"
	StatHits        Stat = "h"
	StatRBI         Stat = "rbi"
	StatWalks       Stat = "bb"
	StatStrikeouts  Stat = "so"
	StatDoubles     Stat = "2b"
	StatTriples     Stat = "3b"
	StatHomeRuns    Stat = "hr"
	StatStolenBases Stat = "sb"
	StatTotalBases  Stat = "tb"

	StatOuts        Stat = "ip_outs"
	StatPitchHits   Stat = "p_h"
	StatPitchRuns   Stat = "p_r"
	StatEarnedRuns  Stat = "er"
	StatPitchWalks  Stat = "p_bb"
	StatPitchKs     Stat = "p_so"
	StatWins        Stat = "w"
	StatLosses      Stat = "l"
	StatSaves       Stat = "sv"
	StatPitches     Stat = "np"
	StatGamesPlayed Stat = "g"
)

// CumulativeStat is the running totals for one identity in one scope.
// Mutated only by the aggregator; counting stats never decrement outside a
// full cache-clear-and-replay.
type CumulativeStat struct {
	Key    string // Identity.Key()
	Name   string // display name at last sighting
	Team   TeamID // most recent team affiliation
	Scope  Scope
	Games  int
	Totals map[Stat]int
}

// Get returns a total, zero when the stat has never been recorded.
func (c *CumulativeStat) Get(s Stat) int {
	return c.Totals[s]
}

// BattingAvg derives AVG from counting totals.
func (c *CumulativeStat) BattingAvg() float64 {
	ab := c.Get(StatAtBats)
	if ab == 0 {
		return 0
	}
	return float64(c.Get(StatHits)) / float64(ab)
}

// ERA derives earned-run average from outs and earned runs.
func (c *CumulativeStat) ERA() float64 {
	outs := c.Get(StatOuts)
	if outs == 0 {
		return 0
	}
	return float64(c.Get(StatEarnedRuns)) * 27 / float64(outs)
}

// Delta is the per-game contribution the aggregator applied for one
// identity, keyed by stat. Consumed by the milestone engine as the
// pre/post boundary.
type Delta struct {
	Key    string
	GameID string
	Totals map[Stat]int
}

// ---- Milestones ----

// MilestoneEvent records one tier crossing. Created once per
// (category, game, identity); never mutated.
type MilestoneEvent struct {
	Category string
	Tier     string
	Scope    Scope
	Key      string // Identity.Key()
	Name     string
	Team     TeamID
	GameID   string
	Value    int // cumulative value at time of trigger
}
