package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/roletag/internal/evaluate"
	"github.com/crimson-sun/roletag/internal/model"
	"github.com/crimson-sun/roletag/internal/output"
)

// Processor labels a batch of profiles. *engine.Engine satisfies it.
type Processor interface {
	ProcessBatch(ctx context.Context, profiles []model.Profile) ([]model.Labeled, error)
}

// Pipeline connects profile batches, a processor and an output.
type Pipeline struct {
	processor Processor
	output    output.Output
}

// New creates a Pipeline. out may be nil when rows need not be written.
func New(proc Processor, out output.Output) *Pipeline {
	return &Pipeline{processor: proc, output: out}
}

// Stats counts prediction sources per task.
type Stats struct {
	Profiles   int
	Rows       int
	Department map[model.Source]int
	Seniority  map[model.Source]int
}

// Predict labels profiles and writes every resulting row.
func (p *Pipeline) Predict(ctx context.Context, profiles []model.Profile) (Stats, error) {
	rows, err := p.processor.ProcessBatch(ctx, profiles)
	if err != nil {
		return Stats{}, fmt.Errorf("pipeline process batch: %w", err)
	}

	st := Stats{
		Profiles:   len(profiles),
		Rows:       len(rows),
		Department: make(map[model.Source]int),
		Seniority:  make(map[model.Source]int),
	}
	for _, row := range rows {
		st.Department[row.Department.Source]++
		st.Seniority[row.Seniority.Source]++
		if err := p.write(ctx, row); err != nil {
			return st, err
		}
	}

	slog.Info("prediction complete", "profiles", st.Profiles, "rows", st.Rows)
	logSources("department", st.Department)
	logSources("seniority", st.Seniority)
	return st, nil
}

// Validation holds per-task evaluation reports.
type Validation struct {
	Department evaluate.Report
	Seniority  evaluate.Report
	// Skipped counts rows without ground truth for either task.
	Skipped int
}

// Validate labels annotated profiles and scores each task against the
// truth labels of the selected experience. Seniority truth labels are
// translated through seniorityMap first. Rows without truth for a task are
// left out of that task's report.
func (p *Pipeline) Validate(ctx context.Context, profiles []model.Profile, seniorityMap map[string]string) (Validation, error) {
	rows, err := p.processor.ProcessBatch(ctx, profiles)
	if err != nil {
		return Validation{}, fmt.Errorf("pipeline process batch: %w", err)
	}

	var v Validation
	var dept, sen []evaluate.Sample
	for _, row := range rows {
		if row.TruthDepartment == "" && row.TruthSeniority == "" {
			v.Skipped++
			continue
		}
		if row.TruthDepartment != "" {
			dept = append(dept, evaluate.Sample{Truth: row.TruthDepartment, Prediction: row.Department})
		}
		if row.TruthSeniority != "" {
			truth := evaluate.MapLabel(row.TruthSeniority, seniorityMap)
			sen = append(sen, evaluate.Sample{Truth: truth, Prediction: row.Seniority})
		}
		if err := p.write(ctx, row); err != nil {
			return v, err
		}
	}

	v.Department = evaluate.Evaluate("department", dept)
	v.Seniority = evaluate.Evaluate("seniority", sen)
	slog.Info("validation complete",
		"evaluated", len(rows)-v.Skipped,
		"skipped", v.Skipped,
		"department_accuracy", v.Department.Accuracy,
		"seniority_accuracy", v.Seniority.Accuracy,
	)
	return v, nil
}

func (p *Pipeline) write(ctx context.Context, row model.Labeled) error {
	if p.output == nil {
		return nil
	}
	if err := p.output.Write(ctx, row); err != nil {
		return fmt.Errorf("pipeline output: %w", err)
	}
	return nil
}

func logSources(task string, counts map[model.Source]int) {
	args := []any{"task", task}
	for _, s := range evaluate.SortedSources(counts) {
		args = append(args, string(s), counts[s])
	}
	slog.Info("prediction sources", args...)
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	if p.output == nil {
		return nil
	}
	return p.output.Close()
}
