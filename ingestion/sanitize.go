package ingestion

import (
	"html"
	"regexp"
	"strings"
)

var (
	markupPattern       = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
	leadingLabelPattern = regexp.MustCompile(`(?i)^(abstract|summary)\s*[:.\-]\s*`)
)

// Normalize cleans text coming from upstream metadata feeds. Titles and
// abstracts arrive wrapped in JATS/HTML markup with entity-encoded
// characters and irregular whitespace; some abstracts repeat their own
// section label as a prefix.
//
// Markup removal runs before entity decoding, so decoded angle
// brackets in the text (e.g. "p < 0.05") survive.
func Normalize(text string) string {
	text = markupPattern.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	return leadingLabelPattern.ReplaceAllString(text, "")
}
