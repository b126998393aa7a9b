package output

import (
	"context"

	"github.com/crimson-sun/roletag/internal/model"
)

// Output defines the interface for prediction row destinations.
type Output interface {
	Write(ctx context.Context, row model.Labeled) error
	Close() error
}
