package rules

import "strings"

// Rule fires when any keyword occurs in the text and no exclusion does.
// Matching is by substring against the text padded with one space on each
// side, so a keyword like " it " only matches the whole word.
type Rule struct {
	Label      string
	Keywords   []string
	Exclusions []string
}

// Keyword evaluates rules in declared order; the first rule that fires wins.
type Keyword struct {
	rules []Rule
}

// NewKeyword creates a fixed-priority keyword strategy.
func NewKeyword(rules []Rule) *Keyword {
	return &Keyword{rules: rules}
}

// Evaluate returns the label of the first firing rule with score 1.
func (k *Keyword) Evaluate(text string) (string, float64, bool) {
	if text == "" {
		return "", 0, false
	}
	padded := " " + text + " "
	for _, r := range k.rules {
		if containsAny(padded, r.Keywords) && !containsAny(padded, r.Exclusions) {
			return r.Label, 1, true
		}
	}
	return "", 0, false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
