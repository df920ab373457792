package document

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugTransformer decomposes to NFD, strips combining marks, and recomposes,
// so accented characters fold to their ASCII base ("Café" -> "Cafe").
var slugTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Slugify derives a URL slug from text: transliterated, lower-cased,
// punctuation stripped, word runs joined with single hyphens.
//
// Determinism matters more than prettiness here: the slug feeds the document
// identifier, which must be stable across runs and process restarts.
func Slugify(text string) string {
	folded, _, err := transform.String(slugTransformer, text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '-', r == '_', r == '/':
			pendingHyphen = true
		default:
			// Punctuation and non-ASCII leftovers are dropped without
			// introducing a separator: "Hello!" -> "hello".
		}
	}
	return b.String()
}
