package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/crimson-sun/roletag/internal/model"
	"github.com/crimson-sun/roletag/internal/output"
)

// Output writes rows as CSV with a header line.
type Output struct {
	mu sync.Mutex
	f  *os.File
	w  *csv.Writer
}

// New creates (or truncates) path and writes the header.
func New(path string) (*Output, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv output: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(output.Columns); err != nil {
		f.Close()
		return nil, fmt.Errorf("csv output: header: %w", err)
	}
	return &Output{f: f, w: w}, nil
}

func (o *Output) Write(_ context.Context, row model.Labeled) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.w.Write(output.Record(row)); err != nil {
		return fmt.Errorf("csv output: %w", err)
	}
	return nil
}

// Close flushes buffered records and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.w.Flush()
	if err := o.w.Error(); err != nil {
		o.f.Close()
		return fmt.Errorf("csv output: flush: %w", err)
	}
	return o.f.Close()
}
