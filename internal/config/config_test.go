package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// clearEnv blanks every variable Load consults so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ROLETAG_CONFIG", "ROLETAG_MODE", "ROLETAG_LOG_LEVEL", "ROLETAG_INPUT",
		"ROLETAG_OUTPUT", "ROLETAG_OUTPUT_CSV", "ROLETAG_OUTPUT_NDJSON",
		"ROLETAG_SQLITE_PATH", "ROLETAG_OUTPUT_PRETTY", "ROLETAG_RULES",
		"ROLETAG_BIGRAM_WEIGHT", "ROLETAG_UNIGRAM_WEIGHT", "ROLETAG_MIN_SCORE",
		"ROLETAG_EMBEDDER", "ROLETAG_MODEL_PATH", "ROLETAG_VOCAB_PATH",
		"ROLETAG_ORT_LIBRARY", "ROLETAG_HASHING_DIM", "ROLETAG_TEMPERATURE",
		"ROLETAG_CALIBRATION_PERCENTILE", "ROLETAG_INCLUDE_ORGANIZATION",
		"ROLETAG_ROLE_STRENGTH", "ROLETAG_EMPTY_POLICY", "ROLETAG_WORKERS",
		"ROLETAG_DEPARTMENT_LEXICON", "ROLETAG_DEPARTMENT_TRAINING",
		"ROLETAG_DEPARTMENT_THRESHOLD", "ROLETAG_DEPARTMENT_FALLBACK",
		"ROLETAG_SENIORITY_LEXICON", "ROLETAG_SENIORITY_TRAINING",
		"ROLETAG_SENIORITY_THRESHOLD", "ROLETAG_SENIORITY_FALLBACK",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.Department.Threshold != 0.99 || cfg.Department.Fallback != "Other" {
		t.Fatalf("department defaults = %+v", cfg.Department)
	}
	if cfg.Seniority.Threshold != 0.95 || cfg.Seniority.Fallback != "Senior" {
		t.Fatalf("seniority defaults = %+v", cfg.Seniority)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "roletag.yaml")
	doc := `
mode: validate
input:
  path: people.json
output:
  formats: [csv, sqlite]
  sqlite_path: runs.db
department:
  threshold: -1
  training: [dept.csv]
seniority:
  fallback: Junior
engine:
  workers: 4
  empty_policy: skip
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ROLETAG_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "validate" || cfg.Input.Path != "people.json" {
		t.Fatalf("mode/input = %q/%q", cfg.Mode, cfg.Input.Path)
	}
	if diff := cmp.Diff([]string{"csv", "sqlite"}, cfg.Output.Formats); diff != "" {
		t.Fatalf("formats (-want +got):\n%s", diff)
	}
	if cfg.Output.SQLitePath != "runs.db" {
		t.Fatalf("sqlite path = %q", cfg.Output.SQLitePath)
	}
	// Unset keys keep their defaults.
	if cfg.Output.CSVPath != "predictions.csv" {
		t.Fatalf("csv path = %q, want default", cfg.Output.CSVPath)
	}
	if !cfg.Department.Calibrate() {
		t.Fatal("expected department calibration")
	}
	if cfg.Department.Fallback != "Other" {
		t.Fatalf("department fallback = %q, want default", cfg.Department.Fallback)
	}
	if cfg.Seniority.Fallback != "Junior" || cfg.Seniority.Threshold != 0.95 {
		t.Fatalf("seniority = %+v", cfg.Seniority)
	}
	if cfg.Engine.Workers != 4 || cfg.Engine.EmptyPolicy != "skip" {
		t.Fatalf("engine = %+v", cfg.Engine)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "roletag.yaml")
	if err := os.WriteFile(path, []byte("mode: validate\nrules:\n  strategy: keyword\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ROLETAG_CONFIG", path)
	t.Setenv("ROLETAG_MODE", "predict")
	t.Setenv("ROLETAG_OUTPUT", "stdout, ndjson,,")
	t.Setenv("ROLETAG_SENIORITY_THRESHOLD", "0.5")
	t.Setenv("ROLETAG_DEPARTMENT_TRAINING", "a.csv,b.csv")
	t.Setenv("ROLETAG_ROLE_STRENGTH", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "predict" {
		t.Fatalf("mode = %q, want env override", cfg.Mode)
	}
	if cfg.Rules.Strategy != "keyword" {
		t.Fatalf("strategy = %q, want file value", cfg.Rules.Strategy)
	}
	if diff := cmp.Diff([]string{"stdout", "ndjson"}, cfg.Output.Formats); diff != "" {
		t.Fatalf("formats (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a.csv", "b.csv"}, cfg.Department.Training); diff != "" {
		t.Fatalf("training (-want +got):\n%s", diff)
	}
	if cfg.Seniority.Threshold != 0.5 {
		t.Fatalf("seniority threshold = %v", cfg.Seniority.Threshold)
	}
	if !cfg.Engine.RoleStrength {
		t.Fatal("expected RoleStrength=true")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROLETAG_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "roletag.yaml")
	if err := os.WriteFile(path, []byte("mode: [predict\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ROLETAG_CONFIG", path)
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

// --- Validation tests ---

// validConfig returns a Config with real temp files so file-existence checks pass.
func validConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"people.json", "dept.csv", "lexicon.json", "model.onnx", "vocab.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := Defaults()
	cfg.Input.Path = filepath.Join(dir, "people.json")
	cfg.Department.Training = []string{filepath.Join(dir, "dept.csv")}
	cfg.Department.Lexicon = filepath.Join(dir, "lexicon.json")
	cfg.Model.ModelPath = filepath.Join(dir, "model.onnx")
	cfg.Model.VocabPath = filepath.Join(dir, "vocab.txt")
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected nil error for valid config, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad mode", func(c *Config) { c.Mode = "stream" }, "mode"},
		{"missing input", func(c *Config) { c.Input.Path = "" }, "ROLETAG_INPUT"},
		{"input not found", func(c *Config) { c.Input.Path = "/nonexistent/people.json" }, "input"},
		{"unknown format", func(c *Config) { c.Output.Formats = []string{"parquet"} }, "output format"},
		{"no formats", func(c *Config) { c.Output.Formats = nil }, "output"},
		{"bad strategy", func(c *Config) { c.Rules.Strategy = "regex" }, "strategy"},
		{"zero weight", func(c *Config) { c.Rules.BigramWeight = 0 }, "weights"},
		{"negative min score", func(c *Config) { c.Rules.MinScore = -1 }, "min_score"},
		{"threshold above one", func(c *Config) { c.Seniority.Threshold = 1.5 }, "seniority threshold"},
		{"calibrate without training", func(c *Config) { c.Seniority.Threshold = -1 }, "calibration"},
		{"blank fallback", func(c *Config) { c.Department.Fallback = " " }, "department fallback"},
		{"missing lexicon", func(c *Config) { c.Seniority.Lexicon = "/nonexistent/lex.json" }, "seniority lexicon"},
		{"lexicon with keyword rules", func(c *Config) { c.Rules.Strategy = "keyword" }, "lexicon"},
		{"missing training", func(c *Config) { c.Department.Training = []string{"/nonexistent/x.csv"} }, "department training"},
		{"bad embedder", func(c *Config) { c.Model.Embedder = "word2vec" }, "embedder"},
		{"missing onnx model", func(c *Config) {
			c.Model.Embedder = "onnx"
			c.Model.ModelPath = "/nonexistent/model.onnx"
		}, "model"},
		{"zero hashing dim", func(c *Config) { c.Model.HashingDim = 0 }, "hashing_dim"},
		{"zero temperature", func(c *Config) { c.Model.Temperature = 0 }, "temperature"},
		{"percentile range", func(c *Config) { c.Model.CalibrationPercentile = 101 }, "calibration_percentile"},
		{"empty policy", func(c *Config) { c.Engine.EmptyPolicy = "drop" }, "empty_policy"},
		{"negative workers", func(c *Config) { c.Engine.Workers = -2 }, "workers"},
		{"log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error mentioning %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error to mention %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestValidate_RejectsNaN(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"department threshold", func(c *Config) { c.Department.Threshold = nan }, "department threshold"},
		{"seniority threshold", func(c *Config) { c.Seniority.Threshold = nan }, "seniority threshold"},
		{"bigram weight", func(c *Config) { c.Rules.BigramWeight = nan }, "weights"},
		{"unigram weight", func(c *Config) { c.Rules.UnigramWeight = nan }, "weights"},
		{"min score", func(c *Config) { c.Rules.MinScore = nan }, "min_score"},
		{"temperature", func(c *Config) { c.Model.Temperature = nan }, "temperature"},
		{"infinite temperature", func(c *Config) { c.Model.Temperature = math.Inf(1) }, "temperature"},
		{"calibration percentile", func(c *Config) { c.Model.CalibrationPercentile = nan }, "calibration_percentile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestLoad_NaNThresholdFailsValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROLETAG_DEPARTMENT_THRESHOLD", "NaN")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Input.Path = validConfig(t).Input.Path
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "department threshold") {
		t.Fatalf("expected department threshold error, got: %v", err)
	}
}

func TestValidate_ValidateModeAllowsNoFormats(t *testing.T) {
	cfg := validConfig(t)
	cfg.Mode = "validate"
	cfg.Output.Formats = nil
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_OnnxWithoutTrainingSkipsModelCheck(t *testing.T) {
	cfg := validConfig(t)
	cfg.Department.Training = nil
	cfg.Model.Embedder = "onnx"
	cfg.Model.ModelPath = "/nonexistent/model.onnx"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Mode = "replay"
	cfg.Engine.Workers = -1
	cfg.Model.Temperature = -3
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for multiple bad fields")
	}
	msg := err.Error()
	for _, want := range []string{"mode", "workers", "temperature"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected error to mention %q, got: %v", want, msg)
		}
	}
}

func TestHasFormat(t *testing.T) {
	cfg := Defaults()
	cfg.Output.Formats = []string{"csv", "sqlite"}
	if !cfg.HasFormat("sqlite") || cfg.HasFormat("stdout") {
		t.Fatalf("HasFormat wrong for %v", cfg.Output.Formats)
	}
}

// --- getenv helper tests ---

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		fallback int
		want     int
	}{
		{"empty uses fallback", "", 8, 8},
		{"valid int", "4", 8, 4},
		{"zero", "0", 8, 0},
		{"invalid falls back", "abc", 8, 8},
		{"negative", "-1", 8, -1},
	}

	const key = "ROLETAG_TEST_GETENVINT"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getenvInt(key, tt.fallback); got != tt.want {
				t.Errorf("getenvInt(%q, %d) = %d, want %d", tt.envVal, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestGetenvFloat(t *testing.T) {
	const key = "ROLETAG_TEST_GETENVFLOAT"
	t.Setenv(key, "0.75")
	if got := getenvFloat(key, 0.1); got != 0.75 {
		t.Fatalf("got %v, want 0.75", got)
	}
	t.Setenv(key, "high")
	if got := getenvFloat(key, 0.1); got != 0.1 {
		t.Fatalf("got %v, want fallback 0.1", got)
	}
}

func TestGetenvBool(t *testing.T) {
	const key = "ROLETAG_TEST_GETENVBOOL"
	t.Setenv(key, "1")
	if !getenvBool(key, false) {
		t.Fatal("expected true for \"1\"")
	}
	t.Setenv(key, "maybe")
	if !getenvBool(key, true) {
		t.Fatal("expected fallback for unparsable value")
	}
}

func TestVersion_IsSet(t *testing.T) {
	if Version == "" {
		t.Fatal("expected non-empty Version constant")
	}
}
