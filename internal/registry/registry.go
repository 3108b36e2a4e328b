// Package registry looks up league-agnostic player identities in a local
// snapshot of the cross-league register (Chadwick-style CSV). The register
// is keyed by normalized name plus birth context; a missing entry just means
// the player has no cross-league links yet.
package registry

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pable/go-boxstats/internal/model"
)

// Entry is one register row.
type Entry struct {
	ID        model.RegisterID
	FirstName string
	LastName  string
	BirthYear int // 0 when the register omits it
}

// Register is the loaded snapshot. Immutable after load.
type Register struct {
	byName map[string][]Entry
}

// Load reads a register CSV snapshot with columns
// register_id,name_first,name_last,birth_year. Extra columns are ignored.
func Load(path string) (*Register, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open register: %w", err)
	}
	defer f.Close()
	return parse(csv.NewReader(f))
}

func parse(cr *csv.Reader) (*Register, error) {
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read register header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"register_id", "name_first", "name_last"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("register missing column %q", required)
		}
	}

	reg := &Register{byName: make(map[string][]Entry)}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		get := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		e := Entry{
			ID:        model.RegisterID(get("register_id")),
			FirstName: get("name_first"),
			LastName:  get("name_last"),
		}
		if e.ID == "" || e.LastName == "" {
			continue
		}
		if by, ok := col["birth_year"]; ok && by < len(rec) {
			e.BirthYear, _ = strconv.Atoi(strings.TrimSpace(rec[by]))
		}
		key := nameKey(e.FirstName, e.LastName)
		reg.byName[key] = append(reg.byName[key], e)
	}
	return reg, nil
}

// Lookup resolves a register id for a name and optional birth year.
// Returns "" (not an error) when no entry exists or several entries remain
// after applying the birth context; linking never guesses.
func (r *Register) Lookup(first, last string, birthYear int) model.RegisterID {
	candidates := r.byName[nameKey(first, last)]
	if len(candidates) == 0 {
		return ""
	}
	if birthYear > 0 {
		var filtered []Entry
		for _, e := range candidates {
			if e.BirthYear == birthYear {
				filtered = append(filtered, e)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}
	if len(candidates) != 1 {
		return ""
	}
	return candidates[0].ID
}

func nameKey(first, last string) string {
	norm := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, "'", "")
		return s
	}
	return norm(first) + "|" + norm(last)
}
