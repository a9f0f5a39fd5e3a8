// Package normalize produces the join key used to match canonical schedule
// names against live geocoded records, and to run substring search.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and removes the combining marks,
// which covers all Vietnamese diacritics.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// đ/Đ are standalone letters, not base+combining mark, so NFD leaves them alone.
var dReplacer = strings.NewReplacer("đ", "d", "Đ", "d")

// stopwords are generic station-naming words that must not participate in
// matching. Multi-word phrases listed first so they win over the bare "ga".
var stopwords = regexp.MustCompile(`\b(ga ngam|nha ga|ga|station)\b`)

var nonAlnum = regexp.MustCompile(`[^a-z0-9 ]+`)
var spaces = regexp.MustCompile(`\s+`)

// Key normalizes text into the canonical lookup/search key: lowercase,
// diacritics stripped, station stopwords removed, non-ASCII-alphanumeric
// characters dropped, whitespace collapsed. Pure and idempotent; empty input
// yields the empty string.
func Key(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ToLower(text)
	s = dReplacer.Replace(s)
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	s = stopwords.ReplaceAllString(s, " ")
	s = nonAlnum.ReplaceAllString(s, " ")
	s = spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// DisplayName trims the generic "Ga "/"Nhà ga " prefix the schedule carries
// for readability off a canonical station name.
func DisplayName(name string) string {
	trimmed := strings.TrimSpace(name)
	for _, prefix := range []string{"Nhà ga ", "Nha ga ", "Ga ngầm ", "Ga "} {
		if strings.HasPrefix(trimmed, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, prefix))
		}
	}
	return trimmed
}
