package main

import (
	"fmt"
	"log/slog"

	"github.com/crimson-sun/roletag/internal/config"
	"github.com/crimson-sun/roletag/internal/dataset"
	"github.com/crimson-sun/roletag/internal/engine"
	"github.com/crimson-sun/roletag/internal/engine/embedder"
	"github.com/crimson-sun/roletag/internal/engine/rules"
	"github.com/crimson-sun/roletag/internal/model"
	"github.com/crimson-sun/roletag/internal/output"
	"github.com/crimson-sun/roletag/internal/output/csv"
	"github.com/crimson-sun/roletag/internal/output/file"
	"github.com/crimson-sun/roletag/internal/output/multi"
	"github.com/crimson-sun/roletag/internal/output/sqlite"
	"github.com/crimson-sun/roletag/internal/output/stdout"
)

// buildEngine loads lexicons and training data and assembles both task
// policies. The returned func releases the embedder.
func buildEngine(cfg config.Config) (*engine.Engine, func(), error) {
	dept, err := taskSpec(engine.TaskDepartment, cfg.Department)
	if err != nil {
		return nil, nil, err
	}
	sen, err := taskSpec(engine.TaskSeniority, cfg.Seniority)
	if err != nil {
		return nil, nil, err
	}

	var emb embedder.Embedder
	closeEmb := func() {}
	if len(dept.Training) > 0 || len(sen.Training) > 0 {
		emb, err = newEmbedder(cfg.Model)
		if err != nil {
			return nil, nil, err
		}
		closeEmb = func() {
			if err := emb.Close(); err != nil {
				slog.Warn("embedder close failed", "error", err)
			}
		}
	}

	opts := engine.BuildOptions{
		Strategy:              cfg.Rules.Strategy,
		BigramWeight:          cfg.Rules.BigramWeight,
		UnigramWeight:         cfg.Rules.UnigramWeight,
		MinScore:              cfg.Rules.MinScore,
		Temperature:           cfg.Model.Temperature,
		CalibrationPercentile: cfg.Model.CalibrationPercentile,
	}
	deptPolicy, err := engine.NewPolicy(dept, emb, opts)
	if err != nil {
		closeEmb()
		return nil, nil, err
	}
	senPolicy, err := engine.NewPolicy(sen, emb, opts)
	if err != nil {
		closeEmb()
		return nil, nil, err
	}

	eng := engine.New(deptPolicy, senPolicy,
		engine.WithOrganization(cfg.Engine.IncludeOrganization),
		engine.WithRoleStrength(cfg.Engine.RoleStrength),
		engine.WithEmptyPolicy(engine.EmptyPolicy(cfg.Engine.EmptyPolicy)),
		engine.WithWorkers(cfg.Engine.Workers),
	)
	return eng, closeEmb, nil
}

func taskSpec(task string, tc config.TaskConfig) (engine.TaskSpec, error) {
	spec := engine.TaskSpec{Task: task, Threshold: tc.Threshold, Fallback: tc.Fallback}
	if tc.Lexicon != "" {
		lex, err := rules.LoadLexicon(tc.Lexicon)
		if err != nil {
			return spec, err
		}
		spec.Lexicon = lex
		slog.Info("lexicon loaded", "task", task, "path", tc.Lexicon, "labels", lex.Labels())
	}
	if len(tc.Training) > 0 {
		examples, err := dataset.LoadAll(tc.Training)
		if err != nil {
			return spec, fmt.Errorf("%s training: %w", task, err)
		}
		spec.Training = examples
		slog.Info("training data loaded", "task", task, "files", len(tc.Training), "examples", len(examples), "labels", len(labelSet(examples)))
	}
	return spec, nil
}

func labelSet(examples []model.Example) map[string]struct{} {
	set := make(map[string]struct{})
	for _, ex := range examples {
		set[ex.Label] = struct{}{}
	}
	return set
}

func newEmbedder(mc config.ModelConfig) (embedder.Embedder, error) {
	switch mc.Embedder {
	case "onnx":
		emb, err := embedder.NewONNX(embedder.ONNXOptions{
			ModelPath:   mc.ModelPath,
			VocabPath:   mc.VocabPath,
			LibraryPath: mc.LibraryPath,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("onnx embedder loaded", "model", mc.ModelPath, "dim", emb.Dim())
		return emb, nil
	default:
		return embedder.NewHashing(mc.HashingDim), nil
	}
}

// buildOutput opens every configured destination. In validate mode the
// evaluation report owns stdout, so a stdout format is ignored there.
func buildOutput(cfg config.Config) (output.Output, error) {
	var outs []output.Output
	closeAll := func() {
		for _, o := range outs {
			o.Close()
		}
	}

	for _, format := range cfg.Output.Formats {
		var (
			o   output.Output
			err error
		)
		switch format {
		case "stdout":
			if cfg.Mode == "validate" {
				continue
			}
			o = stdout.New(cfg.Output.Pretty)
		case "csv":
			o, err = csv.New(cfg.Output.CSVPath)
		case "ndjson":
			o, err = file.New(cfg.Output.NDJSONPath)
		case "sqlite":
			var db *sqlite.Output
			db, err = sqlite.New(cfg.Output.SQLitePath)
			if err == nil {
				slog.Info("sqlite output", "path", cfg.Output.SQLitePath, "run_id", db.RunID())
				o = db
			}
		default:
			err = fmt.Errorf("unknown output format %q", format)
		}
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("open %s output: %w", format, err)
		}
		outs = append(outs, o)
	}

	switch len(outs) {
	case 0:
		return nil, nil
	case 1:
		return outs[0], nil
	default:
		return multi.New(outs...), nil
	}
}
