// Package evaluate scores predictions against ground-truth labels.
package evaluate

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/crimson-sun/roletag/internal/model"
)

// LabelStats holds per-label precision, recall, F1 and support. Undefined
// ratios are reported as 0.
type LabelStats struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report summarizes one task's predictions.
type Report struct {
	Task     string
	Total    int
	Correct  int
	Accuracy float64
	Labels   []LabelStats
	// Confusion[truth][predicted] counts samples.
	Confusion map[string]map[string]int
	Sources   map[model.Source]int
}

// Sample is one scored prediction.
type Sample struct {
	Truth      string
	Prediction model.Prediction
}

// Evaluate computes a report over samples. Labels are the sorted union of
// truth and predicted labels.
func Evaluate(task string, samples []Sample) Report {
	r := Report{
		Task:      task,
		Total:     len(samples),
		Confusion: make(map[string]map[string]int),
		Sources:   make(map[model.Source]int),
	}

	seen := make(map[string]bool)
	truthCount := make(map[string]int)
	predCount := make(map[string]int)
	hits := make(map[string]int)
	for _, s := range samples {
		pred := s.Prediction.Label
		seen[s.Truth], seen[pred] = true, true
		truthCount[s.Truth]++
		predCount[pred]++
		r.Sources[s.Prediction.Source]++
		if r.Confusion[s.Truth] == nil {
			r.Confusion[s.Truth] = make(map[string]int)
		}
		r.Confusion[s.Truth][pred]++
		if pred == s.Truth {
			r.Correct++
			hits[pred]++
		}
	}
	if r.Total > 0 {
		r.Accuracy = float64(r.Correct) / float64(r.Total)
	}

	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		st := LabelStats{
			Label:     l,
			Precision: ratio(hits[l], predCount[l]),
			Recall:    ratio(hits[l], truthCount[l]),
			Support:   truthCount[l],
		}
		if st.Precision+st.Recall > 0 {
			st.F1 = 2 * st.Precision * st.Recall / (st.Precision + st.Recall)
		}
		r.Labels = append(r.Labels, st)
	}
	return r
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// MacroF1 averages F1 over labels with support.
func (r Report) MacroF1() float64 {
	var sum float64
	var n int
	for _, l := range r.Labels {
		if l.Support == 0 {
			continue
		}
		sum += l.F1
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Render writes the report as text tables.
func (r Report) Render(w io.Writer) {
	fmt.Fprintf(w, "\n== %s ==\n", r.Task)
	fmt.Fprintf(w, "accuracy: %.4f (%d/%d)  macro F1: %.4f\n\n", r.Accuracy, r.Correct, r.Total, r.MacroF1())

	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Label", "Precision", "Recall", "F1", "Support"})
	tbl.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, l := range r.Labels {
		tbl.Append([]string{l.Label, f2(l.Precision), f2(l.Recall), f2(l.F1), strconv.Itoa(l.Support)})
	}
	tbl.Render()

	names := make([]string, len(r.Labels))
	for i, l := range r.Labels {
		names[i] = l.Label
	}
	fmt.Fprintln(w, "\nconfusion (rows = truth, columns = predicted)")
	cm := tablewriter.NewWriter(w)
	cm.SetHeader(append([]string{""}, names...))
	for _, truth := range names {
		row := []string{truth}
		for _, pred := range names {
			row = append(row, strconv.Itoa(r.Confusion[truth][pred]))
		}
		cm.Append(row)
	}
	cm.Render()

	fmt.Fprintln(w, "\nprediction sources")
	src := tablewriter.NewWriter(w)
	src.SetHeader([]string{"Source", "Count"})
	for _, s := range SortedSources(r.Sources) {
		src.Append([]string{string(s), strconv.Itoa(r.Sources[s])})
	}
	src.Render()
}

func f2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// SortedSources returns the cascade sources present in counts, in cascade
// order.
func SortedSources(counts map[model.Source]int) []model.Source {
	var out []model.Source
	for _, s := range []model.Source{model.SourceRule, model.SourceML, model.SourceFallback, model.SourceEmpty} {
		if counts[s] > 0 {
			out = append(out, s)
		}
	}
	return out
}

// DefaultSeniorityMapping maps annotation labels onto the prediction label
// set.
func DefaultSeniorityMapping() map[string]string {
	return map[string]string{
		"Professional": "Senior",
		"Entry":        "Junior",
	}
}

// MapLabel returns mapping[label] if present, else label.
func MapLabel(label string, mapping map[string]string) string {
	if m, ok := mapping[label]; ok {
		return m
	}
	return label
}
