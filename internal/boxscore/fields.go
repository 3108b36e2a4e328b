package boxscore

import (
	"strconv"
	"strings"
)

// fieldReader parses numeric columns with strict integer semantics: a
// non-numeric token in a numeric column marks the field on the ParseError
// instead of silently becoming zero.
type fieldReader struct {
	perr *ParseError
}

func (fr *fieldReader) intField(name, tok string) int {
	n, err := strconv.Atoi(tok)
	if err != nil {
		fr.perr.addMissing(name)
		return 0
	}
	return n
}

// outsField parses an innings-pitched token ("5.2") into outs. The
// fractional digit is thirds of an inning and must be 0-2.
func (fr *fieldReader) outsField(name, tok string) int {
	whole, frac, found := strings.Cut(tok, ".")
	w, err := strconv.Atoi(whole)
	if err != nil || w < 0 {
		fr.perr.addMissing(name)
		return 0
	}
	if !found {
		return w * 3
	}
	f, err := strconv.Atoi(frac)
	if err != nil || f > 2 {
		fr.perr.addMissing(name)
		return 0
	}
	return w*3 + f
}

func (fr *fieldReader) failed() bool {
	return len(fr.perr.Missing) > 0
}

func isInt(tok string) bool {
	_, err := strconv.Atoi(tok)
	return err == nil
}

// validPositions covers the position tokens seen in source documents,
// including pinch-hit/run composites like "ph/lf".
var validPositions = map[string]bool{
	"p": true, "c": true, "1b": true, "2b": true, "3b": true, "ss": true,
	"lf": true, "cf": true, "rf": true, "dh": true, "ph": true, "pr": true,
}

func isPosition(tok string) bool {
	tok = strings.ToLower(tok)
	if validPositions[tok] {
		return true
	}
	first, second, found := strings.Cut(tok, "/")
	return found && validPositions[first] && validPositions[second]
}
