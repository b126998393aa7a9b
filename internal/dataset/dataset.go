// Package dataset loads labeled training examples from CSV files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/crimson-sun/roletag/internal/model"
)

// ErrMissingColumn is returned when a training file lacks the text or label
// column.
var ErrMissingColumn = errors.New("dataset: missing required column")

// Load reads labeled examples from a CSV file with a header row containing
// "text" and "label" (case-insensitive, any order). Extra columns are
// ignored. Rows with a blank text or label are skipped.
func Load(path string) ([]model.Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()

	examples, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return examples, nil
}

// LoadAll concatenates the examples of several files.
func LoadAll(paths []string) ([]model.Example, error) {
	var all []model.Example
	for _, p := range paths {
		examples, err := Load(p)
		if err != nil {
			return nil, err
		}
		all = append(all, examples...)
	}
	return all, nil
}

// Read parses labeled examples from CSV data.
func Read(r io.Reader) ([]model.Example, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}

	textCol, labelCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "text":
			textCol = i
		case "label":
			labelCol = i
		}
	}
	var missing []string
	if textCol < 0 {
		missing = append(missing, "text")
	}
	if labelCol < 0 {
		missing = append(missing, "label")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	var examples []model.Example
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: %w", err)
		}
		if textCol >= len(rec) || labelCol >= len(rec) {
			continue
		}
		text, label := strings.TrimSpace(rec[textCol]), strings.TrimSpace(rec[labelCol])
		if text == "" || label == "" {
			continue
		}
		examples = append(examples, model.Example{Text: text, Label: label})
	}
	return examples, nil
}

// Texts returns the text of each example.
func Texts(examples []model.Example) []string {
	out := make([]string, len(examples))
	for i, ex := range examples {
		out[i] = ex.Text
	}
	return out
}
