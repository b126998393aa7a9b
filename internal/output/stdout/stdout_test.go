package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/crimson-sun/roletag/internal/model"
)

func testRow() model.Labeled {
	return model.Labeled{
		ProfileID:  "7",
		Position:   "Senior Software Engineer",
		Text:       "senior software engineer",
		Department: model.Prediction{Label: "Information Technology", Confidence: 1, Source: model.SourceRule},
		Seniority:  model.Prediction{Label: "Senior", Confidence: 1, Source: model.SourceRule},
	}
}

// captureStdout redirects os.Stdout to capture output.
func captureStdout(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestOutputCompactJSON(t *testing.T) {
	result := captureStdout(func() {
		New(false).Write(context.Background(), testRow())
	})

	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	var got model.Labeled
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got != testRow() {
		t.Errorf("round trip = %+v, want %+v", got, testRow())
	}
}

func TestOutputPrettyJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf, true).Write(context.Background(), testRow()); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(buf.String()), "\n"); len(lines) < 3 {
		t.Fatalf("expected multi-line pretty output, got %d lines", len(lines))
	}
	if !strings.Contains(buf.String(), `"department_source"`) && !strings.Contains(buf.String(), `"source": "Rule"`) {
		t.Errorf("missing source field:\n%s", buf.String())
	}
}

func TestOutputOmitsEmptyTruth(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, false).Write(context.Background(), testRow())
	if strings.Contains(buf.String(), "truth_") {
		t.Errorf("empty truth labels should be omitted: %s", buf.String())
	}
}
