package multi

import (
	"context"
	"errors"

	"github.com/crimson-sun/roletag/internal/model"
	"github.com/crimson-sun/roletag/internal/output"
)

// Multi fans rows out to several outputs. A failing output does not stop
// delivery to the others.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi that fans out to the given outputs.
func New(outputs ...output.Output) *Multi {
	return &Multi{outputs: outputs}
}

// Write delivers the row to every wrapped output and joins their errors.
func (m *Multi) Write(ctx context.Context, row model.Labeled) error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Write(ctx, row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every wrapped output and joins their errors.
func (m *Multi) Close() error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
