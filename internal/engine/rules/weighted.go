package rules

import (
	"strings"

	"github.com/crimson-sun/roletag/internal/model"
)

const (
	DefaultBigramWeight  = 3.0
	DefaultUnigramWeight = 1.0
	DefaultMinScore      = 2.0
)

// WeightedOption configures a Weighted strategy.
type WeightedOption func(*Weighted)

// WithWeights sets the per-match weights for phrases and single words.
func WithWeights(bigram, unigram float64) WeightedOption {
	return func(w *Weighted) {
		w.bigramWeight = bigram
		w.unigramWeight = unigram
	}
}

// WithMinScore sets the minimum winning score.
func WithMinScore(min float64) WeightedOption {
	return func(w *Weighted) { w.minScore = min }
}

// Weighted scores every lexicon label: phrases add the bigram weight when
// found as a substring, single words add the unigram weight when found on
// word boundaries. The best label wins if it reaches the minimum score;
// equal scores resolve to the label that comes first in the lexicon.
type Weighted struct {
	lex           model.Lexicon
	bigramWeight  float64
	unigramWeight float64
	minScore      float64
}

// NewWeighted creates a weighted-lexicon strategy.
func NewWeighted(lex model.Lexicon, opts ...WeightedOption) *Weighted {
	w := &Weighted{
		lex:           prepare(lex),
		bigramWeight:  DefaultBigramWeight,
		unigramWeight: DefaultUnigramWeight,
		minScore:      DefaultMinScore,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// LabelScore is one label's score for a text.
type LabelScore struct {
	Label string
	Score float64
}

// Scores returns the non-zero label scores for text in lexicon order.
func (w *Weighted) Scores(text string) []LabelScore {
	if text == "" {
		return nil
	}
	var out []LabelScore
	for _, e := range w.lex {
		var score float64
		for _, term := range e.Terms {
			if strings.Contains(term, " ") {
				if strings.Contains(text, term) {
					score += w.bigramWeight
				}
			} else if containsWord(text, term) {
				score += w.unigramWeight
			}
		}
		if score > 0 {
			out = append(out, LabelScore{Label: e.Label, Score: score})
		}
	}
	return out
}

// Evaluate returns the best-scoring label. Below the minimum score it
// reports ok=false with the best score.
func (w *Weighted) Evaluate(text string) (string, float64, bool) {
	var best LabelScore
	for _, s := range w.Scores(text) {
		if s.Score > best.Score {
			best = s
		}
	}
	if best.Score == 0 {
		return "", 0, false
	}
	if best.Score < w.minScore {
		return "", best.Score, false
	}
	return best.Label, best.Score, true
}
