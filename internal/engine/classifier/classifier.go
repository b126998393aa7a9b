package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/crimson-sun/roletag/internal/engine/embedder"
	"github.com/crimson-sun/roletag/internal/engine/taxonomy"
	"github.com/crimson-sun/roletag/internal/model"
)

// DefaultTemperature sharpens cosine similarities before the softmax.
const DefaultTemperature = 0.05

// ErrNoLabels is returned when a classifier has nothing to predict.
var ErrNoLabels = errors.New("classifier: no labels")

// Classifier returns a probability distribution over labels for a text.
// Implementations must be safe to query repeatedly and concurrently.
type Classifier interface {
	PredictDistribution(text string) (map[string]float64, error)
}

// Centroid scores a text against per-label centroids by cosine similarity
// and converts the similarities into probabilities with a temperature
// softmax.
type Centroid struct {
	emb         embedder.Embedder
	labels      []model.EmbeddedLabel
	temperature float64
}

// NewCentroid creates a centroid classifier. temperature <= 0 uses
// DefaultTemperature.
func NewCentroid(emb embedder.Embedder, tax *taxonomy.Taxonomy, temperature float64) *Centroid {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	return &Centroid{emb: emb, labels: tax.Labels(), temperature: temperature}
}

// PredictDistribution embeds text and returns the softmax over label
// similarities. The probabilities sum to 1.
func (c *Centroid) PredictDistribution(text string) (map[string]float64, error) {
	if len(c.labels) == 0 {
		return nil, ErrNoLabels
	}
	vec, err := c.emb.Embed(text)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	scores := make([]float64, len(c.labels))
	for i, l := range c.labels {
		if len(l.Vector) != len(vec) {
			return nil, fmt.Errorf("classifier: label %q has dimension %d, query has %d", l.Label, len(l.Vector), len(vec))
		}
		scores[i] = cosine(vec, l.Vector) / c.temperature
	}
	softmax(scores)

	dist := make(map[string]float64, len(c.labels))
	for i, l := range c.labels {
		dist[l.Label] = scores[i]
	}
	return dist, nil
}

func softmax(x []float64) {
	m := floats.Max(x)
	for i := range x {
		x[i] = math.Exp(x[i] - m)
	}
	floats.Scale(1/floats.Sum(x), x)
}

func cosine(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// Argmax returns the most probable label and its probability. Negative, NaN
// and infinite entries are ignored; ties go to the lexicographically
// smallest label. ok is false when no entry is usable.
func Argmax(dist map[string]float64) (label string, p float64, ok bool) {
	for l, v := range dist {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			continue
		}
		if !ok || v > p || (v == p && l < label) {
			label, p, ok = l, v, true
		}
	}
	return label, p, ok
}

// CalibrateThreshold returns the given low percentile (0-100) of the maximum
// probabilities cls assigns to texts, interpolating linearly between the
// closest ranks. Texts the classifier fails on are skipped.
func CalibrateThreshold(cls Classifier, texts []string, percentile float64) (float64, error) {
	if percentile < 0 || percentile > 100 || math.IsNaN(percentile) {
		return 0, fmt.Errorf("classifier: percentile %v out of range [0, 100]", percentile)
	}
	maxes := make([]float64, 0, len(texts))
	for _, text := range texts {
		dist, err := cls.PredictDistribution(text)
		if err != nil {
			continue
		}
		if _, p, ok := Argmax(dist); ok {
			maxes = append(maxes, p)
		}
	}
	if len(maxes) == 0 {
		return 0, fmt.Errorf("classifier: no confidences to calibrate on")
	}
	sort.Float64s(maxes)
	return percentileOf(maxes, percentile), nil
}

// percentileOf interpolates between the ranks floor(h) and floor(h)+1 of
// sorted, where h = p/100*(n-1).
func percentileOf(sorted []float64, p float64) float64 {
	h := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
