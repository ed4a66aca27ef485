package mapdata

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Entity names arrive from vendor feeds with mixed accents ("Cañon City",
// "Española"). Search folds both sides to lowercase ASCII-ish form so reps
// don't have to type diacritics on a phone keyboard.

func foldForSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// matchesSearch reports whether the folded query is a substring of the
// folded name. An empty query matches everything.
func matchesSearch(name, query string) bool {
	q := foldForSearch(query)
	if q == "" {
		return true
	}
	return strings.Contains(foldForSearch(name), q)
}
