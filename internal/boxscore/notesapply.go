package boxscore

import (
	"strings"

	"github.com/pable/go-boxstats/internal/model"
)

// ApplyGameNotes folds note-derived extra-base and stolen-base counts into
// the batting lines. Notes usually carry bare last names; matching is by
// normalized last name and only applies when exactly one batting line
// matches; a shared last name leaves both lines untouched rather than
// crediting the wrong player.
func ApplyGameNotes(batting []model.BattingLine, notes GameNotes) {
	apply := func(entries []NoteEntry, set func(*model.BattingLine, int)) {
		for _, e := range entries {
			idx := -1
			want := normalizeNoteName(e.Player)
			for i := range batting {
				if lastNameOf(batting[i].Player.RawName) == want || normalizeNoteName(batting[i].Player.RawName) == want {
					if idx >= 0 {
						idx = -1
						break
					}
					idx = i
				}
			}
			if idx >= 0 {
				set(&batting[idx], e.GameCount)
			}
		}
	}

	apply(notes.HomeRuns, func(b *model.BattingLine, n int) { b.HomeRuns += n })
	apply(notes.Doubles, func(b *model.BattingLine, n int) { b.Doubles += n })
	apply(notes.Triples, func(b *model.BattingLine, n int) { b.Triples += n })
	apply(notes.StolenBases, func(b *model.BattingLine, n int) { b.StolenBases += n })
}

// ApplyDecisions fills pitcher decisions from Win/Loss/Save notes when the
// stat line itself carried none.
func ApplyDecisions(pitching []model.PitchingLine, notes GameNotes) {
	set := func(name, dec string) {
		if name == "" {
			return
		}
		want := normalizeNoteName(name)
		idx := -1
		for i := range pitching {
			if pitching[i].Decision != "" {
				continue
			}
			if lastNameOf(pitching[i].Player.RawName) == want || normalizeNoteName(pitching[i].Player.RawName) == want {
				if idx >= 0 {
					return // ambiguous; leave unset
				}
				idx = i
			}
		}
		if idx >= 0 {
			pitching[idx].Decision = dec
		}
	}
	set(notes.Win, "W")
	set(notes.Loss, "L")
	set(notes.Save, "S")
}

func normalizeNoteName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, ",", "")
	name = strings.ReplaceAll(name, ".", "")
	return name
}

// lastNameOf extracts the normalized last name from "Last, F.", "F. Last",
// or "First Last" raw forms.
func lastNameOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if last, _, found := strings.Cut(raw, ","); found {
		return normalizeNoteName(last)
	}
	parts := strings.Fields(raw)
	return normalizeNoteName(parts[len(parts)-1])
}
