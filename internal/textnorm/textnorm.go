// Package textnorm produces the canonical comparable form of job titles.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var separators = strings.NewReplacer("&", " ", "/", " ", "|", " ")

// Normalize lowercases s, folds diacritics, turns punctuation into spaces and
// collapses whitespace. It is idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = separators.Replace(s)
	s = fold(s)
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		if !isWord(r) {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pending = false
		b.WriteRune(r)
	}
	return b.String()
}

// BuildText assembles the text fed to the classifiers from a position and,
// optionally, its organization.
func BuildText(position, organization string, includeOrganization bool) string {
	pos := Normalize(position)
	if !includeOrganization {
		return pos
	}
	org := Normalize(organization)
	switch {
	case pos == "":
		// No title means nothing to classify, whatever the employer.
		return ""
	case org == "":
		return pos
	default:
		return pos + " " + org
	}
}

// fold decomposes s (NFKD) and drops combining marks. Chained transformers
// carry state, so a fresh chain is built per call.
func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}
