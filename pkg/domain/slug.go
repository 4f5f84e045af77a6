package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ModulePathPrefix prefixes every derived home module path.
const ModulePathPrefix = "/module/"

// Slugify lowercases title, strips diacritics and joins alphanumeric runs with '-'.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ModulePath derives the navigation path of a home module. taken reports
// whether a candidate path is already used by another module.
func ModulePath(m HomeModule, taken func(string) bool) string {
	if slug := Slugify(m.Title); slug != "" {
		if p := ModulePathPrefix + slug; !taken(p) {
			return p
		}
	}
	return ModulePathPrefix + m.ID
}
