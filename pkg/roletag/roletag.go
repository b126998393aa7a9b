package roletag

import (
	"fmt"

	"github.com/crimson-sun/roletag/internal/dataset"
	"github.com/crimson-sun/roletag/internal/engine"
	"github.com/crimson-sun/roletag/internal/engine/embedder"
	"github.com/crimson-sun/roletag/internal/engine/rules"
	"github.com/crimson-sun/roletag/internal/model"
)

// Roletag labels job titles with a department and a seniority.
// Safe for concurrent use.
type Roletag struct {
	engine   *engine.Engine
	embedder embedder.Embedder // nil without training data
}

// New loads lexicons and training data and builds both task policies.
// With training data and WithModelDir this loads the ONNX model, which is
// expensive: create once, reuse across requests.
func New(opts ...Option) (*Roletag, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	dept, err := taskSpec(engine.TaskDepartment, o.deptLexicon, o.deptTraining, o.deptThreshold, o.deptFallback)
	if err != nil {
		return nil, fmt.Errorf("roletag: %w", err)
	}
	sen, err := taskSpec(engine.TaskSeniority, o.senLexicon, o.senTraining, o.senThreshold, o.senFallback)
	if err != nil {
		return nil, fmt.Errorf("roletag: %w", err)
	}

	r := &Roletag{}
	if len(dept.Training) > 0 || len(sen.Training) > 0 {
		if o.modelDir != "" {
			modelPath, vocabPath := modelPaths(o.modelDir)
			emb, err := embedder.NewONNX(embedder.ONNXOptions{ModelPath: modelPath, VocabPath: vocabPath})
			if err != nil {
				return nil, fmt.Errorf("roletag: %w", err)
			}
			r.embedder = emb
		} else {
			r.embedder = embedder.NewHashing(o.hashingDim)
		}
	}

	build := engine.DefaultBuildOptions()
	if o.keywordRules {
		build.Strategy = engine.StrategyKeyword
	}
	deptPolicy, err := engine.NewPolicy(dept, r.embedder, build)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("roletag: %w", err)
	}
	senPolicy, err := engine.NewPolicy(sen, r.embedder, build)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("roletag: %w", err)
	}

	r.engine = engine.New(deptPolicy, senPolicy,
		engine.WithOrganization(o.includeOrg),
		engine.WithRoleStrength(o.roleStrength),
	)
	return r, nil
}

func taskSpec(task, lexicon string, training []string, threshold float64, fallback string) (engine.TaskSpec, error) {
	spec := engine.TaskSpec{Task: task, Threshold: threshold, Fallback: fallback}
	if lexicon != "" {
		lex, err := rules.LoadLexicon(lexicon)
		if err != nil {
			return spec, err
		}
		spec.Lexicon = lex
	}
	if len(training) > 0 {
		examples, err := dataset.LoadAll(training)
		if err != nil {
			return spec, err
		}
		spec.Training = examples
	}
	return spec, nil
}

// Classify labels a single job title.
func (r *Roletag) Classify(position string) Result {
	dept, sen := r.engine.Classify(position)
	return Result{
		Position:   position,
		Department: publicPrediction(dept),
		Seniority:  publicPrediction(sen),
	}
}

// ClassifyBatch labels several job titles in input order.
func (r *Roletag) ClassifyBatch(positions []string) []Result {
	out := make([]Result, len(positions))
	for i, p := range positions {
		out[i] = r.Classify(p)
	}
	return out
}

// ClassifyProfile picks the current job from a work history and labels it.
// ok is false when there is no experience to select or the selected one has
// no usable title; both predictions are then Unknown with source Empty.
func (r *Roletag) ClassifyProfile(experiences []Experience) (res Result, ok bool) {
	p := model.Profile{Experiences: make([]model.Experience, len(experiences))}
	for i, e := range experiences {
		p.Experiences[i] = model.Experience{
			Position:     e.Position,
			Organization: e.Organization,
			StartDate:    e.StartDate,
			EndDate:      e.EndDate,
			Status:       e.Status,
		}
	}
	row, _ := r.engine.Process(p)
	return Result{
		Position:     row.Position,
		Organization: row.Organization,
		Department:   publicPrediction(row.Department),
		Seniority:    publicPrediction(row.Seniority),
	}, row.Text != ""
}

// Close releases model resources. Safe to call on an instance without
// training data.
func (r *Roletag) Close() error {
	if r.embedder == nil {
		return nil
	}
	return r.embedder.Close()
}

func publicPrediction(p model.Prediction) Prediction {
	return Prediction{Label: p.Label, Confidence: p.Confidence, Source: string(p.Source)}
}
