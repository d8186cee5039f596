package search

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Slugify converts a genre label to the keyword stored in the index.
// "Arts & Theatre" -> "arts-theatre".
// "Música Latina" -> "musica-latina".
// "Hip-Hop/Rap" -> "hip-hop-rap".
func Slugify(s string) string {
	// Decompose accented characters, then drop the combining marks.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
