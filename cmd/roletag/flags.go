package main

import (
	flag "github.com/spf13/pflag"

	"github.com/crimson-sun/roletag/internal/config"
)

// flags mirror the most common config keys. Only flags set on the command
// line override the loaded configuration.
type flags struct {
	input       *string
	mode        *string
	output      *[]string
	csvPath     *string
	ndjsonPath  *string
	sqlitePath  *string
	pretty      *bool
	rules       *string
	embedder    *string
	deptLexicon *string
	senLexicon  *string
	deptTrain   *[]string
	senTrain    *[]string
	deptThresh  *float64
	senThresh   *float64
	includeOrg  *bool
	strength    *bool
	emptyPolicy *string
	workers     *int
	logLevel    *string
}

func registerFlags(fs *flag.FlagSet) *flags {
	return &flags{
		input:       fs.StringP("input", "i", "", "profile JSON file"),
		mode:        fs.StringP("mode", "m", "", "predict or validate"),
		output:      fs.StringSliceP("output", "o", nil, "output formats: stdout, csv, ndjson, sqlite"),
		csvPath:     fs.String("csv", "", "CSV output path"),
		ndjsonPath:  fs.String("ndjson", "", "NDJSON output path"),
		sqlitePath:  fs.String("sqlite", "", "SQLite database path"),
		pretty:      fs.Bool("pretty", false, "indent stdout JSON"),
		rules:       fs.String("rules", "", "rule strategy: lexicon or keyword"),
		embedder:    fs.String("embedder", "", "embedder: hashing or onnx"),
		deptLexicon: fs.String("department-lexicon", "", "department lexicon JSON"),
		senLexicon:  fs.String("seniority-lexicon", "", "seniority lexicon JSON"),
		deptTrain:   fs.StringSlice("department-training", nil, "department training CSV files"),
		senTrain:    fs.StringSlice("seniority-training", nil, "seniority training CSV files"),
		deptThresh:  fs.Float64("department-threshold", 0, "department confidence threshold (negative to calibrate)"),
		senThresh:   fs.Float64("seniority-threshold", 0, "seniority confidence threshold (negative to calibrate)"),
		includeOrg:  fs.Bool("include-organization", false, "append the organization to the title text"),
		strength:    fs.Bool("role-strength", false, "prefer stronger titles among equally current jobs"),
		emptyPolicy: fs.String("empty", "", "profiles without a title: placeholder or skip"),
		workers:     fs.IntP("workers", "w", 0, "parallel workers (0 = NumCPU)"),
		logLevel:    fs.String("log-level", "", "debug, info, warn or error"),
	}
}

func (f *flags) apply(fs *flag.FlagSet, cfg *config.Config) {
	set := func(name string) bool { return fs.Changed(name) }

	if set("input") {
		cfg.Input.Path = *f.input
	}
	if set("mode") {
		cfg.Mode = *f.mode
	}
	if set("output") {
		cfg.Output.Formats = *f.output
	}
	if set("csv") {
		cfg.Output.CSVPath = *f.csvPath
	}
	if set("ndjson") {
		cfg.Output.NDJSONPath = *f.ndjsonPath
	}
	if set("sqlite") {
		cfg.Output.SQLitePath = *f.sqlitePath
	}
	if set("pretty") {
		cfg.Output.Pretty = *f.pretty
	}
	if set("rules") {
		cfg.Rules.Strategy = *f.rules
	}
	if set("embedder") {
		cfg.Model.Embedder = *f.embedder
	}
	if set("department-lexicon") {
		cfg.Department.Lexicon = *f.deptLexicon
	}
	if set("seniority-lexicon") {
		cfg.Seniority.Lexicon = *f.senLexicon
	}
	if set("department-training") {
		cfg.Department.Training = *f.deptTrain
	}
	if set("seniority-training") {
		cfg.Seniority.Training = *f.senTrain
	}
	if set("department-threshold") {
		cfg.Department.Threshold = *f.deptThresh
	}
	if set("seniority-threshold") {
		cfg.Seniority.Threshold = *f.senThresh
	}
	if set("include-organization") {
		cfg.Engine.IncludeOrganization = *f.includeOrg
	}
	if set("role-strength") {
		cfg.Engine.RoleStrength = *f.strength
	}
	if set("empty") {
		cfg.Engine.EmptyPolicy = *f.emptyPolicy
	}
	if set("workers") {
		cfg.Engine.Workers = *f.workers
	}
	if set("log-level") {
		cfg.LogLevel = *f.logLevel
	}
}
