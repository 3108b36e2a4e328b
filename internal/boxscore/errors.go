package boxscore

import (
	"fmt"
	"strings"

	"github.com/pable/go-boxstats/internal/model"
)

// ParseError reports a document that could not be normalized: which format
// was being parsed, which document, and which fields were missing or
// malformed. The document is skipped; the batch continues.
type ParseError struct {
	Format  model.Format
	Path    string
	Missing []string // field names, in discovery order
	Reason  string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse %s", e.Format)
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing/malformed fields [%s]", strings.Join(e.Missing, ", "))
	}
	return b.String()
}

// addMissing appends a field name once, preserving discovery order.
func (e *ParseError) addMissing(field string) {
	for _, f := range e.Missing {
		if f == field {
			return
		}
	}
	e.Missing = append(e.Missing, field)
}
