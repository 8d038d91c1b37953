package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CleanText folds compatibility characters (non-breaking spaces, full-width
// forms) and collapses every whitespace run into a single space.
func CleanText(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// FoldKey lowercases and strips diacritics so "Lahore, PAKISTAN" and
// "lahore, pakistan" compare equal.
func FoldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, CleanText(s))
	if err != nil {
		result = CleanText(s)
	}
	return strings.ToLower(result)
}
