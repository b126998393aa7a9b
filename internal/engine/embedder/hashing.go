package embedder

import (
	"hash/fnv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/crimson-sun/roletag/internal/textnorm"
)

// DefaultHashingDim is the vector size used when none is configured.
const DefaultHashingDim = 4096

// Hashing embeds text as a signed, hashed bag of word unigrams, word bigrams
// and character trigrams, L2-normalized. It needs no model files and is safe
// for concurrent use.
type Hashing struct {
	dim int
}

// NewHashing creates a hashing embedder. dim <= 0 uses DefaultHashingDim.
func NewHashing(dim int) *Hashing {
	if dim <= 0 {
		dim = DefaultHashingDim
	}
	return &Hashing{dim: dim}
}

// Dim returns the embedding dimensionality.
func (h *Hashing) Dim() int {
	return h.dim
}

// Embed hashes the normalized text into a unit vector. Text with no words
// yields the zero vector.
func (h *Hashing) Embed(text string) ([]float64, error) {
	vec := make([]float64, h.dim)
	words := strings.Fields(textnorm.Normalize(text))
	for i, w := range words {
		h.add(vec, "w:"+w, 1)
		if i > 0 {
			h.add(vec, "b:"+words[i-1]+" "+w, 1)
		}
		runes := []rune("<" + w + ">")
		for j := 0; j+3 <= len(runes); j++ {
			h.add(vec, "c:"+string(runes[j:j+3]), 0.5)
		}
	}
	if n := floats.Norm(vec, 2); n > 0 {
		floats.Scale(1/n, vec)
	}
	return vec, nil
}

// EmbedBatch embeds each text independently.
func (h *Hashing) EmbedBatch(texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, err := h.Embed(t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Close is a no-op.
func (h *Hashing) Close() error {
	return nil
}

func (h *Hashing) add(vec []float64, feature string, weight float64) {
	f := fnv.New64a()
	f.Write([]byte(feature))
	sum := f.Sum64()
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[sum%uint64(h.dim)] += weight
}
