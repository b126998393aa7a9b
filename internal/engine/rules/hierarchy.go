package rules

import "github.com/crimson-sun/roletag/internal/model"

// Hierarchy matches seniority levels top-down: the highest level with any
// word-boundary match wins regardless of how many terms lower levels match.
// Labels outside the hierarchy are only consulted when no level matches.
type Hierarchy struct {
	levels []string
	lex    model.Lexicon
}

// NewHierarchy creates a hierarchy strategy. levels are ordered from the
// most to the least senior; nil uses DefaultSeniorityLevels.
func NewHierarchy(lex model.Lexicon, levels []string) *Hierarchy {
	if levels == nil {
		levels = DefaultSeniorityLevels()
	}
	return &Hierarchy{levels: levels, lex: prepare(lex)}
}

// Evaluate returns the winning level and its match count. A non-hierarchy
// label wins with score 1 on its first matching term.
func (h *Hierarchy) Evaluate(text string) (string, float64, bool) {
	if text == "" {
		return "", 0, false
	}
	inHierarchy := make(map[string]bool, len(h.levels))
	for _, level := range h.levels {
		inHierarchy[level] = true
		var matches int
		for _, term := range h.lex.Terms(level) {
			if containsWord(text, term) {
				matches++
			}
		}
		if matches > 0 {
			return level, float64(matches), true
		}
	}

	for _, e := range h.lex {
		if inHierarchy[e.Label] {
			continue
		}
		for _, term := range e.Terms {
			if containsWord(text, term) {
				return e.Label, 1, true
			}
		}
	}
	return "", 0, false
}
