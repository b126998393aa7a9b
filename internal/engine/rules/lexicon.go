package rules

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tidwall/gjson"

	"github.com/crimson-sun/roletag/internal/model"
)

// LoadLexicon reads a JSON object mapping labels to term arrays. Label order
// follows the file.
func LoadLexicon(path string) (model.Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: load lexicon: %w", err)
	}
	lex, err := ParseLexicon(data)
	if err != nil {
		return nil, fmt.Errorf("rules: lexicon %s: %w", path, err)
	}
	return lex, nil
}

// ParseLexicon decodes a lexicon document. Non-string terms are ignored and
// labels without terms are dropped. A repeated label keeps its first
// position and takes the last value.
func ParseLexicon(data []byte) (model.Lexicon, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("expected an object of label to terms, got %s", doc.Type)
	}

	var order []string
	values := make(map[string][]string)
	doc.ForEach(func(key, value gjson.Result) bool {
		label := key.String()
		if _, seen := values[label]; seen {
			slog.Debug("lexicon label repeated, last value wins", "label", label)
		} else {
			order = append(order, label)
		}
		values[label] = lexiconTerms(label, value)
		return true
	})

	var lex model.Lexicon
	for _, label := range order {
		if terms := values[label]; len(terms) > 0 {
			lex = append(lex, model.LexiconEntry{Label: label, Terms: terms})
		} else {
			slog.Debug("lexicon label has no terms", "label", label)
		}
	}
	if len(lex) == 0 {
		return nil, fmt.Errorf("no labels with terms")
	}
	return lex, nil
}

func lexiconTerms(label string, value gjson.Result) []string {
	if !value.IsArray() {
		slog.Debug("lexicon label is not a term list", "label", label)
		return nil
	}
	terms := []string{}
	for _, t := range value.Array() {
		if t.Type == gjson.String && t.String() != "" {
			terms = append(terms, t.String())
		}
	}
	return terms
}
