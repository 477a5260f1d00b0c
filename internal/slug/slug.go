// Package slug turns display names into stable category identifiers.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxLength = 64

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	multiHyphens = regexp.MustCompile(`-{2,}`)
)

// Make converts an arbitrary display name into a slug: lowercase,
// ASCII letters and digits, hyphen-separated. Accents are
// transliterated rather than dropped, so "Café" becomes "cafe".
// Returns "" when nothing usable remains.
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	s = transliterate(s)

	s = invalidChars.ReplaceAllString(s, "-")
	s = multiHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > maxLength {
		s = s[:maxLength]
		s = strings.Trim(s, "-")
	}

	return s
}

// Unique returns the first slug derived from name that taken reports
// as free, probing "base", "base-1", "base-2", ... in order. The
// probe sequence is deterministic so concurrent callers racing on the
// same name converge on adjacent suffixes instead of random ones.
func Unique(name string, taken func(slug string) bool) string {
	base := Make(name)
	if base == "" {
		base = "category"
	}
	if !taken(base) {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}

// transliterate strips diacritics via NFD decomposition, then drops
// whatever non-ASCII remains.
func transliterate(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)

	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}

	var b strings.Builder
	b.Grow(len(out))
	for _, r := range out {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
