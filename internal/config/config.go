package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/roletag/internal/engine/classifier"
	"github.com/crimson-sun/roletag/internal/engine/embedder"
	"github.com/crimson-sun/roletag/internal/engine/rules"
	"github.com/crimson-sun/roletag/internal/evaluate"
	"github.com/crimson-sun/roletag/internal/logging"
)

// Version is the roletag release reported by --version.
const Version = "0.3.0"

// DefaultFile is read when ROLETAG_CONFIG is unset and the file exists.
const DefaultFile = "roletag.yaml"

// Config holds all roletag configuration.
type Config struct {
	Mode     string `yaml:"mode"` // "predict" or "validate"
	LogLevel string `yaml:"log_level"`

	Input      InputConfig  `yaml:"input"`
	Output     OutputConfig `yaml:"output"`
	Rules      RulesConfig  `yaml:"rules"`
	Model      ModelConfig  `yaml:"model"`
	Engine     EngineConfig `yaml:"engine"`
	Department TaskConfig   `yaml:"department"`
	Seniority  TaskConfig   `yaml:"seniority"`

	// SeniorityMapping translates annotation labels before validation.
	SeniorityMapping map[string]string `yaml:"seniority_mapping"`
}

// InputConfig locates the profile collection.
type InputConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig selects result destinations.
type OutputConfig struct {
	Formats    []string `yaml:"formats"` // stdout, csv, ndjson, sqlite
	CSVPath    string   `yaml:"csv_path"`
	NDJSONPath string   `yaml:"ndjson_path"`
	SQLitePath string   `yaml:"sqlite_path"`
	Pretty     bool     `yaml:"pretty"`
}

// RulesConfig selects and tunes the lexical rule strategy.
type RulesConfig struct {
	Strategy      string  `yaml:"strategy"` // "lexicon" or "keyword"
	BigramWeight  float64 `yaml:"bigram_weight"`
	UnigramWeight float64 `yaml:"unigram_weight"`
	MinScore      float64 `yaml:"min_score"`
}

// ModelConfig configures the statistical fallback.
type ModelConfig struct {
	Embedder              string  `yaml:"embedder"` // "hashing" or "onnx"
	ModelPath             string  `yaml:"model_path"`
	VocabPath             string  `yaml:"vocab_path"`
	LibraryPath           string  `yaml:"library_path"`
	HashingDim            int     `yaml:"hashing_dim"`
	Temperature           float64 `yaml:"temperature"`
	CalibrationPercentile float64 `yaml:"calibration_percentile"`
}

// EngineConfig holds batch driver settings.
type EngineConfig struct {
	IncludeOrganization bool   `yaml:"include_organization"`
	RoleStrength        bool   `yaml:"role_strength"`
	EmptyPolicy         string `yaml:"empty_policy"` // "placeholder" or "skip"
	Workers             int    `yaml:"workers"`      // 0 = NumCPU
}

// TaskConfig holds per-task resources and the decision policy parameters.
type TaskConfig struct {
	Lexicon  string   `yaml:"lexicon"`  // empty = built-in
	Training []string `yaml:"training"` // CSV files; empty = no classifier
	// Threshold gates classifier predictions; negative means calibrate
	// from the training data.
	Threshold float64 `yaml:"threshold"`
	Fallback  string  `yaml:"fallback"`
}

// Defaults returns the configuration used before any file or environment
// overrides.
func Defaults() Config {
	return Config{
		Mode:     "predict",
		LogLevel: "info",
		Output: OutputConfig{
			Formats:    []string{"stdout"},
			CSVPath:    "predictions.csv",
			NDJSONPath: "predictions.jsonl",
			SQLitePath: "roletag.db",
		},
		Rules: RulesConfig{
			Strategy:      "lexicon",
			BigramWeight:  rules.DefaultBigramWeight,
			UnigramWeight: rules.DefaultUnigramWeight,
			MinScore:      rules.DefaultMinScore,
		},
		Model: ModelConfig{
			Embedder:              "hashing",
			ModelPath:             "models/model.onnx",
			VocabPath:             "models/vocab.txt",
			HashingDim:            embedder.DefaultHashingDim,
			Temperature:           classifier.DefaultTemperature,
			CalibrationPercentile: 10,
		},
		Engine:           EngineConfig{EmptyPolicy: "placeholder"},
		Department:       TaskConfig{Threshold: 0.99, Fallback: "Other"},
		Seniority:        TaskConfig{Threshold: 0.95, Fallback: "Senior"},
		SeniorityMapping: evaluate.DefaultSeniorityMapping(),
	}
}

// Load starts from Defaults, applies the YAML file named by ROLETAG_CONFIG
// (or DefaultFile when present), then environment variables.
func Load() (Config, error) {
	return LoadFrom(os.Getenv("ROLETAG_CONFIG"))
}

// LoadFrom is Load with an explicit config file path. An empty path falls
// back to DefaultFile, which may be absent.
func LoadFrom(path string) (Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Mode = getenv("ROLETAG_MODE", cfg.Mode)
	cfg.LogLevel = getenv("ROLETAG_LOG_LEVEL", cfg.LogLevel)
	cfg.Input.Path = getenv("ROLETAG_INPUT", cfg.Input.Path)

	cfg.Output.Formats = getenvList("ROLETAG_OUTPUT", cfg.Output.Formats)
	cfg.Output.CSVPath = getenv("ROLETAG_OUTPUT_CSV", cfg.Output.CSVPath)
	cfg.Output.NDJSONPath = getenv("ROLETAG_OUTPUT_NDJSON", cfg.Output.NDJSONPath)
	cfg.Output.SQLitePath = getenv("ROLETAG_SQLITE_PATH", cfg.Output.SQLitePath)
	cfg.Output.Pretty = getenvBool("ROLETAG_OUTPUT_PRETTY", cfg.Output.Pretty)

	cfg.Rules.Strategy = getenv("ROLETAG_RULES", cfg.Rules.Strategy)
	cfg.Rules.BigramWeight = getenvFloat("ROLETAG_BIGRAM_WEIGHT", cfg.Rules.BigramWeight)
	cfg.Rules.UnigramWeight = getenvFloat("ROLETAG_UNIGRAM_WEIGHT", cfg.Rules.UnigramWeight)
	cfg.Rules.MinScore = getenvFloat("ROLETAG_MIN_SCORE", cfg.Rules.MinScore)

	cfg.Model.Embedder = getenv("ROLETAG_EMBEDDER", cfg.Model.Embedder)
	cfg.Model.ModelPath = getenv("ROLETAG_MODEL_PATH", cfg.Model.ModelPath)
	cfg.Model.VocabPath = getenv("ROLETAG_VOCAB_PATH", cfg.Model.VocabPath)
	cfg.Model.LibraryPath = getenv("ROLETAG_ORT_LIBRARY", cfg.Model.LibraryPath)
	cfg.Model.HashingDim = getenvInt("ROLETAG_HASHING_DIM", cfg.Model.HashingDim)
	cfg.Model.Temperature = getenvFloat("ROLETAG_TEMPERATURE", cfg.Model.Temperature)
	cfg.Model.CalibrationPercentile = getenvFloat("ROLETAG_CALIBRATION_PERCENTILE", cfg.Model.CalibrationPercentile)

	cfg.Engine.IncludeOrganization = getenvBool("ROLETAG_INCLUDE_ORGANIZATION", cfg.Engine.IncludeOrganization)
	cfg.Engine.RoleStrength = getenvBool("ROLETAG_ROLE_STRENGTH", cfg.Engine.RoleStrength)
	cfg.Engine.EmptyPolicy = getenv("ROLETAG_EMPTY_POLICY", cfg.Engine.EmptyPolicy)
	cfg.Engine.Workers = getenvInt("ROLETAG_WORKERS", cfg.Engine.Workers)

	applyTaskEnv(&cfg.Department, "DEPARTMENT")
	applyTaskEnv(&cfg.Seniority, "SENIORITY")
}

func applyTaskEnv(t *TaskConfig, task string) {
	prefix := "ROLETAG_" + task + "_"
	t.Lexicon = getenv(prefix+"LEXICON", t.Lexicon)
	t.Training = getenvList(prefix+"TRAINING", t.Training)
	t.Threshold = getenvFloat(prefix+"THRESHOLD", t.Threshold)
	t.Fallback = getenv(prefix+"FALLBACK", t.Fallback)
}

// Calibrate reports whether the task threshold is derived from training data.
func (t TaskConfig) Calibrate() bool {
	return t.Threshold < 0
}

// HasFormat reports whether the named output format is enabled.
func (c Config) HasFormat(name string) bool {
	for _, f := range c.Output.Formats {
		if f == name {
			return true
		}
	}
	return false
}

// Validate checks the configuration for errors. Returns an error joining all
// problems found.
func (c Config) Validate() error {
	var errs []error

	switch c.Mode {
	case "predict", "validate":
	default:
		errs = append(errs, fmt.Errorf("mode must be \"predict\" or \"validate\", got %q", c.Mode))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	if c.Input.Path == "" {
		errs = append(errs, fmt.Errorf("input path is required (ROLETAG_INPUT)"))
	} else {
		errs = appendMissing(errs, "input", c.Input.Path)
	}

	if len(c.Output.Formats) == 0 && c.Mode == "predict" {
		errs = append(errs, fmt.Errorf("output: at least one format is required"))
	}
	for _, f := range c.Output.Formats {
		switch f {
		case "stdout", "csv", "ndjson", "sqlite":
		default:
			errs = append(errs, fmt.Errorf("output format must be stdout, csv, ndjson or sqlite, got %q", f))
		}
	}

	switch c.Rules.Strategy {
	case "lexicon":
		if !positive(c.Rules.BigramWeight) || !positive(c.Rules.UnigramWeight) {
			errs = append(errs, fmt.Errorf("rules weights must be positive, got bigram=%v unigram=%v", c.Rules.BigramWeight, c.Rules.UnigramWeight))
		}
		if !(c.Rules.MinScore >= 0) || math.IsInf(c.Rules.MinScore, 1) {
			errs = append(errs, fmt.Errorf("rules min_score must be >= 0, got %v", c.Rules.MinScore))
		}
	case "keyword":
	default:
		errs = append(errs, fmt.Errorf("rules strategy must be \"lexicon\" or \"keyword\", got %q", c.Rules.Strategy))
	}

	needsModel := false
	for _, task := range []struct {
		name string
		cfg  TaskConfig
	}{{"department", c.Department}, {"seniority", c.Seniority}} {
		errs = append(errs, task.cfg.validate(task.name, c.Rules.Strategy)...)
		if len(task.cfg.Training) > 0 {
			needsModel = true
		}
	}

	switch c.Model.Embedder {
	case "hashing":
		if c.Model.HashingDim <= 0 {
			errs = append(errs, fmt.Errorf("hashing_dim must be positive, got %d", c.Model.HashingDim))
		}
	case "onnx":
		if needsModel {
			errs = appendMissing(errs, "model", c.Model.ModelPath)
			errs = appendMissing(errs, "vocab", c.Model.VocabPath)
		}
	default:
		errs = append(errs, fmt.Errorf("embedder must be \"hashing\" or \"onnx\", got %q", c.Model.Embedder))
	}
	if !positive(c.Model.Temperature) {
		errs = append(errs, fmt.Errorf("temperature must be positive, got %v", c.Model.Temperature))
	}
	if p := c.Model.CalibrationPercentile; !(p >= 0 && p <= 100) {
		errs = append(errs, fmt.Errorf("calibration_percentile must be in [0, 100], got %v", p))
	}

	switch c.Engine.EmptyPolicy {
	case "placeholder", "skip":
	default:
		errs = append(errs, fmt.Errorf("empty_policy must be \"placeholder\" or \"skip\", got %q", c.Engine.EmptyPolicy))
	}
	if c.Engine.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Engine.Workers))
	}

	return errors.Join(errs...)
}

// positive is false for NaN and infinities.
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

func (t TaskConfig) validate(task, strategy string) []error {
	var errs []error
	if math.IsNaN(t.Threshold) || t.Threshold > 1 {
		errs = append(errs, fmt.Errorf("%s threshold must be <= 1 (negative to calibrate), got %v", task, t.Threshold))
	}
	if t.Calibrate() && len(t.Training) == 0 {
		errs = append(errs, fmt.Errorf("%s threshold calibration requires training data", task))
	}
	if strings.TrimSpace(t.Fallback) == "" {
		errs = append(errs, fmt.Errorf("%s fallback label is required", task))
	}
	if t.Lexicon != "" {
		if strategy == "keyword" {
			errs = append(errs, fmt.Errorf("%s lexicon is only used by the lexicon rules strategy", task))
		}
		errs = appendMissing(errs, task+" lexicon", t.Lexicon)
	}
	for _, p := range t.Training {
		errs = appendMissing(errs, task+" training", p)
	}
	return errs
}

func appendMissing(errs []error, what, path string) []error {
	if _, err := os.Stat(path); err != nil {
		return append(errs, fmt.Errorf("%s file not found: %s", what, path))
	}
	return errs
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getenvList splits a comma-separated value, dropping blanks.
func getenvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
