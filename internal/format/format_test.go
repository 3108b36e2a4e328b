package format

import (
	"errors"
	"testing"

	"github.com/pable/go-boxstats/internal/model"
)

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := NewDetector()
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	return d
}

func TestDetectClassifiesKnownLayouts(t *testing.T) {
	cases := []struct {
		name string
		text string
		want model.Format
	}{
		{
			"format b vs header",
			"Hawks (3-1) -vs- Owls (2-2)\nPlayer AB R H RBI BB SO LOB",
			model.FormatB,
		},
		{
			"format b batting header only",
			"Player AB R H RBI BB SO LOB\nGarcia ss 4 1 2 1 0 1 2",
			model.FormatB,
		},
		{
			"pointstreak class marker",
			`<html><table class="nova-stats-table"><tr><td>1</td></tr></table></html>`,
			model.FormatPointstreak,
		},
		{
			"pointstreak word marker",
			"Box score powered by Pointstreak",
			model.FormatPointstreak,
		},
		{
			"format a numbered header",
			"VMI 9, Virginia 4\n# Player Pos\n# player pos ab r h rbi bb k po a lob",
			model.FormatA,
		},
		{
			"format a without jersey column",
			"Player ab r h rbi bb k po a lob\nFord cf 5 2 3 2 0 1 2 0 1",
			model.FormatANoNum,
		},
		{
			"no-num header case insensitive",
			"PLAYER AB R H RBI BB K PO A LOB",
			model.FormatANoNum,
		},
	}

	d := newTestDetector(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := d.Detect(tc.text)
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}
			if got != tc.want {
				t.Errorf("Detect = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestDetectUnrecognized(t *testing.T) {
	d := newTestDetector(t)
	_, err := d.Detect("final score: nobody knows\njust some prose about a game")
	if !errors.Is(err, ErrUnrecognized) {
		t.Fatalf("Detect on prose = %v, want ErrUnrecognized", err)
	}
}

// Every reference fingerprint must be claimed by exactly one probe; an
// overlap is a startup error.
func TestNewDetectorRejectsOverlappingProbes(t *testing.T) {
	if _, err := NewDetector(); err != nil {
		t.Fatalf("probe set overlaps: %v", err)
	}

	for _, fp := range referenceFingerprints {
		matched := 0
		for _, p := range Probes() {
			if p.Match(fp.text) {
				matched++
			}
		}
		if matched != 1 {
			t.Errorf("%s fingerprint matched %d probes, want exactly 1", fp.format, matched)
		}
	}
}
