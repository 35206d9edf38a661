package services

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccenter decomposes characters and drops the combining marks, folding
// accented letters to their base Latin form ("Côte" -> "Cote").
var deaccenter = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var nonSlugRuns = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe identifier from a project title: accents folded
// to base letters, lower-cased, every run of other characters collapsed to a
// single hyphen, edge hyphens trimmed. Idempotent on an already-valid slug.
// Slugs are derived once at creation time; editing a title later never
// re-derives the slug.
func Slugify(title string) string {
	folded, _, err := transform.String(deaccenter, title)
	if err != nil {
		folded = title
	}
	slug := strings.ToLower(folded)
	slug = nonSlugRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
