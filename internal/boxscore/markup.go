package boxscore

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RawDocument is one unparsed source document: the converted markup plus its
// origin path (used for filename metadata fallback and error reporting).
// Transient; never persisted.
type RawDocument struct {
	Path string
	Text string // raw markup (HTML from the PDF conversion step) or plain text
}

// FlattenMarkup extracts the text content of a markup document as ordered
// lines. Stat tables sometimes live inside non-rendering sections
// (display:none divs, comment-wrapped blocks emitted by the PDF converter),
// so every element's text is walked, not just the visible body.
//
// Plain-text input (no tags goquery can find) passes through split on
// newlines, which keeps the per-format parsers usable in tests with bare
// fixtures.
func FlattenMarkup(text string) []string {
	if !strings.Contains(text, "<") {
		return splitLines(text)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return splitLines(text)
	}

	var lines []string
	// pdftohtml emits one absolutely-positioned <p>/<div> per text row; hidden
	// sections keep the same structure. Walk leaf-ish block elements in
	// document order.
	doc.Find("p, div, td, th, li, pre").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Filter("p, div, td, th, li, pre").Length() > 0 {
			return // text will be picked up from the nested element
		}
		for _, ln := range splitLines(sel.Text()) {
			lines = append(lines, ln)
		}
	})
	if len(lines) == 0 {
		lines = splitLines(doc.Text())
	}
	return lines
}

func splitLines(text string) []string {
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}
