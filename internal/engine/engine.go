package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/roletag/internal/engine/policy"
	"github.com/crimson-sun/roletag/internal/model"
	"github.com/crimson-sun/roletag/internal/profile"
	"github.com/crimson-sun/roletag/internal/textnorm"
)

// EmptyPolicy decides what happens to profiles with no current job or no
// usable title.
type EmptyPolicy string

const (
	// EmptyPlaceholder emits a row with both tasks marked Empty.
	EmptyPlaceholder EmptyPolicy = "placeholder"
	// EmptySkip omits the profile from the results.
	EmptySkip EmptyPolicy = "skip"
)

// Engine orchestrates select → build text → decide for both tasks.
type Engine struct {
	department *policy.Policy
	seniority  *policy.Policy

	selectOpts []profile.SelectOption
	includeOrg bool
	empty      EmptyPolicy
	workers    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithOrganization appends the organization to the position text.
func WithOrganization(include bool) Option {
	return func(e *Engine) { e.includeOrg = include }
}

// WithRoleStrength enables the title-strength tie-break in job selection.
func WithRoleStrength(enabled bool) Option {
	return func(e *Engine) {
		if enabled {
			e.selectOpts = append(e.selectOpts, profile.WithRoleStrength())
		}
	}
}

// WithEmptyPolicy sets the handling of unclassifiable profiles.
func WithEmptyPolicy(p EmptyPolicy) Option {
	return func(e *Engine) { e.empty = p }
}

// WithWorkers bounds ProcessBatch parallelism. n <= 0 uses runtime.NumCPU.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// New creates an Engine with the given per-task policies.
func New(department, seniority *policy.Policy, opts ...Option) *Engine {
	e := &Engine{
		department: department,
		seniority:  seniority,
		empty:      EmptyPlaceholder,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers <= 0 {
		e.workers = runtime.NumCPU()
	}
	return e
}

// Classify normalizes a raw title and decides both tasks.
func (e *Engine) Classify(position string) (department, seniority model.Prediction) {
	text := textnorm.Normalize(position)
	return e.department.Decide(text), e.seniority.Decide(text)
}

// Process labels a profile's current job. ok is false when the profile is
// skipped under EmptySkip.
func (e *Engine) Process(p model.Profile) (row model.Labeled, ok bool) {
	row = model.Labeled{
		ProfileID:  p.ID,
		Department: model.EmptyPrediction(),
		Seniority:  model.EmptyPrediction(),
	}

	exp, found := profile.SelectCurrent(p.Experiences, e.selectOpts...)
	if found {
		row.Position = exp.Position
		row.Organization = exp.Organization
		row.TruthDepartment = exp.Department
		row.TruthSeniority = exp.Seniority
		row.Text = textnorm.BuildText(exp.Position, exp.Organization, e.includeOrg)
	}
	if row.Text == "" {
		return row, e.empty != EmptySkip
	}

	row.Department = e.department.Decide(row.Text)
	row.Seniority = e.seniority.Decide(row.Text)
	return row, true
}

// ProcessBatch labels profiles in parallel and returns rows in input order.
// Skipped profiles leave no row. Cancelling ctx stops the batch between
// profiles.
func (e *Engine) ProcessBatch(ctx context.Context, profiles []model.Profile) ([]model.Labeled, error) {
	if len(profiles) == 0 {
		return nil, nil
	}

	rows := make([]model.Labeled, len(profiles))
	kept := make([]bool, len(profiles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range profiles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows[i], kept[i] = e.Process(profiles[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := rows[:0]
	for i, row := range rows {
		if kept[i] {
			out = append(out, row)
		}
	}
	return out, nil
}
