// Package format classifies raw box-score markup into one of the known
// source layouts. Detection runs ordered structural probes; the probe set is
// validated for mutual exclusivity at startup so first-match-wins never
// depends on registration order.
package format

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pable/go-boxstats/internal/model"
)

// ErrUnrecognized is returned when no probe matches a document. Non-fatal to
// a batch: the document is skipped and reported.
var ErrUnrecognized = errors.New("box score format not recognized")

// Probe is one structural fingerprint for a known layout.
type Probe struct {
	Format model.Format
	Match  func(text string) bool
}

var (
	formatANoNumHeader = regexp.MustCompile(`(?i)Player\s+ab\s+r\s+h\s+rbi\s+bb\s+k\s+po\s+a\s+lob`)
	pointstreakMarker  = regexp.MustCompile(`(?i)pointstreak|class="nova-stats-table"`)
)

// Probes returns the detection probes in priority order. Each probe keys on
// a fingerprint unique to its layout:
//
//	format_b:        the "-vs-" matchup marker or the "Player AB R H RBI BB SO LOB" header
//	pointstreak:     partner-league Pointstreak table markup
//	format_a:        the "# player pos ab r h rbi bb k po a lob" header with jersey numbers
//	format_a_no_num: the same header without the leading "#" column
func Probes() []Probe {
	return []Probe{
		{model.FormatB, func(t string) bool {
			return strings.Contains(t, "-vs-") || strings.Contains(t, "Player AB R H RBI BB SO LOB")
		}},
		{model.FormatPointstreak, func(t string) bool {
			return pointstreakMarker.MatchString(t)
		}},
		{model.FormatA, func(t string) bool {
			return strings.Contains(strings.ToLower(t), "# player pos ab r h rbi bb k po a lob")
		}},
		{model.FormatANoNum, func(t string) bool {
			return !strings.Contains(t, "# Player Pos") && formatANoNumHeader.MatchString(t)
		}},
	}
}

// Detector runs the probe set against raw markup.
type Detector struct {
	probes []Probe
}

// NewDetector builds a detector and verifies the probes are mutually
// exclusive over the given reference fingerprints. A tie is a configuration
// error at startup, never resolved at detection time.
func NewDetector() (*Detector, error) {
	probes := Probes()
	for _, fp := range referenceFingerprints {
		matched := ""
		for _, p := range probes {
			if p.Match(fp.text) {
				if matched != "" {
					return nil, fmt.Errorf("format probes overlap: %s and %s both match %s fingerprint",
						matched, p.Format, fp.format)
				}
				matched = string(p.Format)
			}
		}
	}
	return &Detector{probes: probes}, nil
}

// Detect classifies raw markup. Returns ErrUnrecognized when no probe fires.
func (d *Detector) Detect(text string) (model.Format, error) {
	for _, p := range d.probes {
		if p.Match(text) {
			return p.Format, nil
		}
	}
	return model.FormatUnknown, ErrUnrecognized
}

// referenceFingerprints are minimal documents that each probe must claim
// exclusively. NewDetector cross-checks every probe against every
// fingerprint to surface accidental overlap when a probe is edited.
var referenceFingerprints = []struct {
	format model.Format
	text   string
}{
	{model.FormatB, "Hawks (3-1) -vs- Owls (2-2)\nPlayer AB R H RBI BB SO LOB"},
	{model.FormatPointstreak, `<table class="nova-stats-table">`},
	{model.FormatA, "# Player Pos\n# player pos ab r h rbi bb k po a lob"},
	{model.FormatANoNum, "Player ab r h rbi bb k po a lob"},
}
