package engine

import (
	"fmt"
	"log/slog"

	"github.com/crimson-sun/roletag/internal/dataset"
	"github.com/crimson-sun/roletag/internal/engine/classifier"
	"github.com/crimson-sun/roletag/internal/engine/embedder"
	"github.com/crimson-sun/roletag/internal/engine/policy"
	"github.com/crimson-sun/roletag/internal/engine/rules"
	"github.com/crimson-sun/roletag/internal/engine/taxonomy"
	"github.com/crimson-sun/roletag/internal/model"
	"github.com/crimson-sun/roletag/internal/textnorm"
)

// Task names.
const (
	TaskDepartment = "department"
	TaskSeniority  = "seniority"
)

// Rule strategies.
const (
	StrategyLexicon = "lexicon"
	StrategyKeyword = "keyword"
)

// TaskSpec describes the resources behind one task's policy.
type TaskSpec struct {
	Task string
	// Lexicon feeds the lexicon strategy; nil uses the built-in lexicon.
	Lexicon model.Lexicon
	// Training builds the classifier; empty means rules and fallback only.
	Training []model.Example
	// Threshold below zero is calibrated from Training.
	Threshold float64
	Fallback  string
}

// BuildOptions are shared by both tasks.
type BuildOptions struct {
	Strategy              string
	BigramWeight          float64
	UnigramWeight         float64
	MinScore              float64
	Temperature           float64
	CalibrationPercentile float64
}

// DefaultBuildOptions returns the lexicon strategy with default weights.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Strategy:              StrategyLexicon,
		BigramWeight:          rules.DefaultBigramWeight,
		UnigramWeight:         rules.DefaultUnigramWeight,
		MinScore:              rules.DefaultMinScore,
		Temperature:           classifier.DefaultTemperature,
		CalibrationPercentile: 10,
	}
}

// NewPolicy assembles a task policy: the rule strategy, then the centroid
// classifier when training data is present. emb may be nil when Training
// is empty.
func NewPolicy(spec TaskSpec, emb embedder.Embedder, opts BuildOptions) (*policy.Policy, error) {
	strategy, err := newStrategy(spec, opts)
	if err != nil {
		return nil, err
	}
	p := &policy.Policy{
		Task:      spec.Task,
		Rules:     strategy,
		Threshold: spec.Threshold,
		Fallback:  spec.Fallback,
	}
	if len(spec.Training) == 0 {
		if spec.Threshold < 0 {
			return nil, fmt.Errorf("engine: %s: threshold calibration requires training data", spec.Task)
		}
		return p, nil
	}
	if emb == nil {
		return nil, fmt.Errorf("engine: %s: training data given without an embedder", spec.Task)
	}

	examples := make([]model.Example, 0, len(spec.Training))
	for _, ex := range spec.Training {
		examples = append(examples, model.Example{Text: textnorm.Normalize(ex.Text), Label: ex.Label})
	}
	tax, err := taxonomy.New(examples, emb)
	if err != nil {
		return nil, fmt.Errorf("engine: %s: %w", spec.Task, err)
	}
	cls := classifier.NewCentroid(emb, tax, opts.Temperature)
	p.Classifier = cls

	if spec.Threshold < 0 {
		th, err := classifier.CalibrateThreshold(cls, dataset.Texts(examples), opts.CalibrationPercentile)
		if err != nil {
			return nil, fmt.Errorf("engine: %s: %w", spec.Task, err)
		}
		p.Threshold = th
		slog.Info("threshold calibrated", "task", spec.Task, "percentile", opts.CalibrationPercentile, "threshold", th)
	}
	slog.Info("classifier ready", "task", spec.Task, "labels", tax.Names(), "examples", len(examples))
	return p, nil
}

func newStrategy(spec TaskSpec, opts BuildOptions) (rules.Strategy, error) {
	switch opts.Strategy {
	case StrategyKeyword:
		switch spec.Task {
		case TaskDepartment:
			return rules.NewKeyword(rules.DefaultDepartmentRules()), nil
		case TaskSeniority:
			return rules.NewKeyword(rules.DefaultSeniorityRules()), nil
		}
	case StrategyLexicon, "":
		switch spec.Task {
		case TaskDepartment:
			lex := spec.Lexicon
			if lex == nil {
				lex = rules.DefaultDepartmentLexicon()
			}
			return rules.NewWeighted(lex,
				rules.WithWeights(opts.BigramWeight, opts.UnigramWeight),
				rules.WithMinScore(opts.MinScore),
			), nil
		case TaskSeniority:
			lex := spec.Lexicon
			if lex == nil {
				lex = rules.DefaultSeniorityLexicon()
			}
			return rules.NewHierarchy(lex, nil), nil
		}
	default:
		return nil, fmt.Errorf("engine: unknown rules strategy %q", opts.Strategy)
	}
	return nil, fmt.Errorf("engine: unknown task %q", spec.Task)
}
