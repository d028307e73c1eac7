// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

// Reference-section boundary patterns. The start alternation matches a
// references/bibliography heading or the first "[1] X" citation line; the
// end alternation matches a supplemental-material or appendix heading.
var (
	referenceStartPattern = regexp.MustCompile(`(?i)(?:\nReferences\n|\nBibliography\n|\n\[1\] *[A-Z])`)
	referenceEndPattern   = regexp.MustCompile(`(?i)(?:\nSupplemental Material[:\n]*|\nSupplemental Information[:\n]*|\nAppendices[:\n]*)`)
)

// Cleanup passes, applied in order by CleanText. The order matters:
// hyphen repair and indentation stripping depend on newline structure
// that the final newline flattening destroys.
var (
	hyphenBreakPattern  = regexp.MustCompile(`-\s*\n\s*`)
	multiNewlinePattern = regexp.MustCompile(`\n{2,}`)
	arxivTokenPattern   = regexp.MustCompile(`arXiv:\d{4}\.\d{4,5}(v\d+)?`)
	spaceRunPattern     = regexp.MustCompile(`[ \t]+`)
	indentationPattern  = regexp.MustCompile(`\n[ \t]+`)
	newlineRunPattern   = regexp.MustCompile(`\n+`)
)

// RemoveReferences excises the reference section from raw extracted text.
// It finds the first reference-section start; if a supplemental/appendix
// heading follows it, the span between the two is spliced out, otherwise
// the text is truncated at the start. Text without either marker is
// returned unchanged. Must run before CleanText, which destroys the
// newline structure these patterns rely on.
func RemoveReferences(text string) string {
	start := referenceStartPattern.FindStringIndex(text)
	if start == nil {
		return text
	}

	if end := referenceEndPattern.FindStringIndex(text[start[0]:]); end != nil {
		return text[:start[0]] + text[start[0]+end[0]:]
	}
	return text[:start[0]]
}

// CleanText normalizes raw extracted PDF text: repairs hyphen-broken words
// across line wraps, collapses newline and space runs, strips arXiv
// identifier tokens and leading indentation, flattens remaining newlines
// to spaces, and trims surrounding whitespace. Empty input logs a warning
// and returns empty.
func (e *Extractor) CleanText(text string) string {
	if text == "" {
		e.logger.Warn("no text provided for cleaning")
		return ""
	}

	text = hyphenBreakPattern.ReplaceAllString(text, "")
	text = multiNewlinePattern.ReplaceAllString(text, "\n\n")
	text = arxivTokenPattern.ReplaceAllString(text, "")
	text = spaceRunPattern.ReplaceAllString(text, " ")
	text = indentationPattern.ReplaceAllString(text, "\n")
	text = newlineRunPattern.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
