package policy

import (
	"errors"
	"testing"

	"github.com/crimson-sun/roletag/internal/engine/rules"
	"github.com/crimson-sun/roletag/internal/model"
)

type stubRules struct {
	label string
	calls int
}

func (s *stubRules) Evaluate(string) (string, float64, bool) {
	s.calls++
	if s.label == "" {
		return "", 0, false
	}
	return s.label, 4, true
}

type stubClassifier struct {
	dist  map[string]float64
	err   error
	calls int
}

func (s *stubClassifier) PredictDistribution(string) (map[string]float64, error) {
	s.calls++
	return s.dist, s.err
}

// mustNotCall fails the test if the cascade reaches the classifier.
type mustNotCall struct{ t *testing.T }

func (m mustNotCall) PredictDistribution(text string) (map[string]float64, error) {
	m.t.Fatalf("classifier invoked for %q", text)
	return nil, nil
}

func TestDecideRuleBeforeML(t *testing.T) {
	p := &Policy{
		Rules:      &stubRules{label: "Sales"},
		Classifier: mustNotCall{t},
		Threshold:  0.5,
		Fallback:   "Other",
	}
	want := model.Prediction{Label: "Sales", Confidence: 1, Source: model.SourceRule}
	if got := p.Decide("sales manager"); got != want {
		t.Errorf("Decide = %+v, want %+v", got, want)
	}
}

func TestDecideThresholdInclusive(t *testing.T) {
	p := &Policy{
		Rules:      &stubRules{},
		Classifier: &stubClassifier{dist: map[string]float64{"IT": 0.99, "Sales": 0.01}},
		Threshold:  0.99,
		Fallback:   "Other",
	}
	want := model.Prediction{Label: "IT", Confidence: 0.99, Source: model.SourceML}
	if got := p.Decide("platform person"); got != want {
		t.Errorf("Decide = %+v, want %+v", got, want)
	}
}

func TestDecideFallbackBelowThreshold(t *testing.T) {
	p := &Policy{
		Rules:      &stubRules{},
		Classifier: &stubClassifier{dist: map[string]float64{"IT": 0.6, "Sales": 0.4}},
		Threshold:  0.95,
		Fallback:   "Senior",
	}
	want := model.Prediction{Label: "Senior", Confidence: 0.6, Source: model.SourceFallback}
	if got := p.Decide("consultant"); got != want {
		t.Errorf("Decide = %+v, want %+v", got, want)
	}
}

func TestDecideEmptyShortCircuit(t *testing.T) {
	r := &stubRules{label: "IT"}
	p := &Policy{Rules: r, Classifier: mustNotCall{t}, Fallback: "Other"}

	want := model.Prediction{Label: "Unknown", Confidence: 0, Source: model.SourceEmpty}
	if got := p.Decide(""); got != want {
		t.Errorf("Decide = %+v, want %+v", got, want)
	}
	if r.calls != 0 {
		t.Errorf("rules invoked %d times on empty text", r.calls)
	}
}

func TestDecideClassifierFailures(t *testing.T) {
	tests := []struct {
		name string
		cls  *stubClassifier
	}{
		{"error", &stubClassifier{err: errors.New("bad shape")}},
		{"empty distribution", &stubClassifier{dist: map[string]float64{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Policy{Classifier: tt.cls, Threshold: 0, Fallback: "Other"}
			want := model.Prediction{Label: "Other", Confidence: 0, Source: model.SourceFallback}
			if got := p.Decide("anything"); got != want {
				t.Errorf("Decide = %+v, want %+v", got, want)
			}
		})
	}
}

func TestDecideWithoutCollaborators(t *testing.T) {
	p := &Policy{Fallback: "Other"}
	want := model.Prediction{Label: "Other", Confidence: 0, Source: model.SourceFallback}
	if got := p.Decide("chief of staff"); got != want {
		t.Errorf("Decide = %+v, want %+v", got, want)
	}
}

func TestDecideSeniorityHierarchy(t *testing.T) {
	lex := model.Lexicon{
		{Label: "Senior", Terms: []string{"senior", "sr", "principal"}},
		{Label: "Director", Terms: []string{"director"}},
	}
	p := &Policy{
		Rules:      rules.NewHierarchy(lex, nil),
		Classifier: mustNotCall{t},
		Fallback:   "Senior",
	}
	got := p.Decide("senior principal director")
	if got.Label != "Director" || got.Source != model.SourceRule {
		t.Errorf("Decide = %+v, want Director from Rule", got)
	}
}

func TestDecideWordBoundary(t *testing.T) {
	lex := model.Lexicon{{Label: "IT", Terms: []string{"it"}}}
	cls := &stubClassifier{dist: map[string]float64{"Finance": 0.97}}
	p := &Policy{
		Rules:      rules.NewWeighted(lex, rules.WithMinScore(1)),
		Classifier: cls,
		Threshold:  0.9,
		Fallback:   "Other",
	}
	got := p.Decide("audit manager")
	if got.Source != model.SourceML || got.Label != "Finance" {
		t.Errorf("Decide = %+v, want Finance from ML", got)
	}
	if cls.calls != 1 {
		t.Errorf("classifier calls = %d, want 1", cls.calls)
	}
}
