package taxonomy

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/crimson-sun/roletag/internal/engine/embedder"
	"github.com/crimson-sun/roletag/internal/model"
)

// embedChunk bounds the number of texts sent to the embedder per call.
const embedChunk = 64

// Taxonomy holds one pre-embedded centroid per label, built from labeled
// training examples. It is immutable after New.
type Taxonomy struct {
	labels []model.EmbeddedLabel
}

// New embeds every example and averages the vectors per label. Each centroid
// is L2-normalized so cosine similarity reduces to a dot product with a unit
// query. Labels are returned sorted by name. Examples with blank text or
// label are ignored; it is an error if none remain.
func New(examples []model.Example, emb embedder.Embedder) (*Taxonomy, error) {
	byLabel := make(map[string][]string)
	for _, ex := range examples {
		label := strings.TrimSpace(ex.Label)
		if label == "" || strings.TrimSpace(ex.Text) == "" {
			continue
		}
		byLabel[label] = append(byLabel[label], ex.Text)
	}
	if len(byLabel) == 0 {
		return nil, fmt.Errorf("taxonomy: no usable training examples")
	}

	names := make([]string, 0, len(byLabel))
	for name := range byLabel {
		names = append(names, name)
	}
	sort.Strings(names)

	t := &Taxonomy{labels: make([]model.EmbeddedLabel, 0, len(names))}
	for _, name := range names {
		centroid, err := embedMean(emb, byLabel[name])
		if err != nil {
			return nil, fmt.Errorf("taxonomy: embed %q: %w", name, err)
		}
		t.labels = append(t.labels, model.EmbeddedLabel{
			Label:  name,
			Vector: centroid,
			Count:  len(byLabel[name]),
		})
	}

	slog.Debug("taxonomy built", "labels", len(t.labels), "examples", len(examples))
	return t, nil
}

// Labels returns the pre-embedded labels for classification.
func (t *Taxonomy) Labels() []model.EmbeddedLabel {
	return t.labels
}

// Names returns the label names in centroid order.
func (t *Taxonomy) Names() []string {
	out := make([]string, len(t.labels))
	for i, l := range t.labels {
		out[i] = l.Label
	}
	return out
}

func embedMean(emb embedder.Embedder, texts []string) ([]float64, error) {
	var sum []float64
	for start := 0; start < len(texts); start += embedChunk {
		end := min(start+embedChunk, len(texts))
		vecs, err := emb.EmbedBatch(texts[start:end])
		if err != nil {
			return nil, err
		}
		for _, v := range vecs {
			if sum == nil {
				sum = make([]float64, len(v))
			}
			if len(v) != len(sum) {
				return nil, fmt.Errorf("embedding dimension changed from %d to %d", len(sum), len(v))
			}
			floats.Add(sum, v)
		}
	}
	if sum == nil {
		return nil, fmt.Errorf("embedder returned no vectors")
	}
	floats.Scale(1/float64(len(texts)), sum)
	if n := floats.Norm(sum, 2); n > 0 {
		floats.Scale(1/n, sum)
	}
	return sum, nil
}
