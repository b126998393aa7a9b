// Package rules implements the deterministic lexical matchers that run
// before the statistical classifier.
package rules

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/crimson-sun/roletag/internal/model"
	"github.com/crimson-sun/roletag/internal/textnorm"
)

// Strategy scores normalized text against a rule set. ok is false when the
// strategy has no opinion; score is still reported for diagnostics.
type Strategy interface {
	Evaluate(text string) (label string, score float64, ok bool)
}

// containsWord reports whether term occurs in text with a non-word character
// (or the string edge) on both sides. "it" does not match "audit".
func containsWord(text, term string) bool {
	if term == "" {
		return false
	}
	for from := 0; from <= len(text)-len(term); {
		i := strings.Index(text[from:], term)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

// prepare folds every term through the text normalizer so terms and input
// text share one canonical form. Terms shorter than two runes after folding
// and duplicate terms are dropped, as are labels left without terms.
func prepare(lex model.Lexicon) model.Lexicon {
	out := make(model.Lexicon, 0, len(lex))
	for _, e := range lex {
		seen := make(map[string]bool, len(e.Terms))
		var terms []string
		for _, t := range e.Terms {
			n := textnorm.Normalize(t)
			if utf8.RuneCountInString(n) < 2 || seen[n] {
				continue
			}
			seen[n] = true
			terms = append(terms, n)
		}
		if len(terms) == 0 {
			continue
		}
		out = append(out, model.LexiconEntry{Label: e.Label, Terms: terms})
	}
	return out
}
