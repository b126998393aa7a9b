// Package policy implements the hybrid decision cascade: lexical rules
// first, then the statistical classifier gated by a confidence threshold,
// then a fixed fallback label.
package policy

import (
	"log/slog"

	"github.com/crimson-sun/roletag/internal/engine/classifier"
	"github.com/crimson-sun/roletag/internal/engine/rules"
	"github.com/crimson-sun/roletag/internal/model"
)

// Policy decides one task (department or seniority). Rules and Classifier
// are optional. A Policy is read-only after construction and safe for
// concurrent use when its collaborators are.
type Policy struct {
	Task       string
	Rules      rules.Strategy
	Classifier classifier.Classifier
	Threshold  float64
	Fallback   string
}

// Decide labels normalized text.
func (p *Policy) Decide(text string) model.Prediction {
	if text == "" {
		return model.EmptyPrediction()
	}

	if p.Rules != nil {
		if label, _, ok := p.Rules.Evaluate(text); ok {
			return model.Prediction{Label: label, Confidence: 1, Source: model.SourceRule}
		}
	}

	if p.Classifier == nil {
		return p.fallback(0)
	}
	dist, err := p.Classifier.PredictDistribution(text)
	if err != nil {
		slog.Warn("classifier failed, using fallback", "task", p.Task, "text", text, "error", err)
		return p.fallback(0)
	}
	label, conf, ok := classifier.Argmax(dist)
	if !ok {
		slog.Warn("classifier returned no usable distribution", "task", p.Task, "text", text)
		return p.fallback(0)
	}
	if conf >= p.Threshold {
		return model.Prediction{Label: label, Confidence: conf, Source: model.SourceML}
	}
	return p.fallback(conf)
}

func (p *Policy) fallback(conf float64) model.Prediction {
	return model.Prediction{Label: p.Fallback, Confidence: conf, Source: model.SourceFallback}
}
