package roletag

import "path/filepath"

type options struct {
	deptLexicon   string
	senLexicon    string
	deptTraining  []string
	senTraining   []string
	deptThreshold float64
	senThreshold  float64
	deptFallback  string
	senFallback   string
	keywordRules  bool
	modelDir      string
	hashingDim    int
	includeOrg    bool
	roleStrength  bool
}

// Option configures a Roletag instance.
type Option func(*options)

// WithLexiconFiles loads {label: [terms]} JSON lexicons. An empty path keeps
// the built-in lexicon for that task.
func WithLexiconFiles(department, seniority string) Option {
	return func(o *options) {
		o.deptLexicon = department
		o.senLexicon = seniority
	}
}

// WithTrainingFiles enables the statistical classifier from text,label CSV
// files. A task with no files relies on rules and its fallback label.
func WithTrainingFiles(department, seniority []string) Option {
	return func(o *options) {
		o.deptTraining = department
		o.senTraining = seniority
	}
}

// WithThresholds sets the minimum classifier confidence per task. A
// negative value calibrates the threshold from that task's training data.
// Defaults: 0.99 and 0.95.
func WithThresholds(department, seniority float64) Option {
	return func(o *options) {
		o.deptThreshold = department
		o.senThreshold = seniority
	}
}

// WithFallbacks sets the labels used when neither rules nor the classifier
// decide. Defaults: "Other" and "Senior".
func WithFallbacks(department, seniority string) Option {
	return func(o *options) {
		o.deptFallback = department
		o.senFallback = seniority
	}
}

// WithKeywordRules switches to the fixed-priority keyword rules instead of
// the weighted lexicons.
func WithKeywordRules() Option {
	return func(o *options) { o.keywordRules = true }
}

// WithModelDir embeds titles with the ONNX sentence model in dir.
// Expects: model.onnx, vocab.txt. Without it a hashing embedder is used.
func WithModelDir(dir string) Option {
	return func(o *options) { o.modelDir = dir }
}

// WithHashingDim sets the hashing embedder's dimensionality.
func WithHashingDim(dim int) Option {
	return func(o *options) { o.hashingDim = dim }
}

// WithOrganization appends the employer name to the title text in
// ClassifyProfile.
func WithOrganization(include bool) Option {
	return func(o *options) { o.includeOrg = include }
}

// WithRoleStrength prefers stronger titles (head, director, manager) among
// equally current jobs in ClassifyProfile.
func WithRoleStrength(enabled bool) Option {
	return func(o *options) { o.roleStrength = enabled }
}

func defaultOptions() options {
	return options{
		deptThreshold: 0.99,
		senThreshold:  0.95,
		deptFallback:  "Other",
		senFallback:   "Senior",
	}
}

func modelPaths(dir string) (model, vocab string) {
	return filepath.Join(dir, "model.onnx"), filepath.Join(dir, "vocab.txt")
}
