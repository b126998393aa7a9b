package model

// LexiconEntry is one label of a lexicon with its match terms.
type LexiconEntry struct {
	Label string
	Terms []string
}

// Lexicon maps labels to terms, in file order. Order matters: it breaks
// score ties and drives the non-hierarchy seniority scan.
type Lexicon []LexiconEntry

// Labels returns the lexicon's labels in order.
func (l Lexicon) Labels() []string {
	out := make([]string, len(l))
	for i, e := range l {
		out[i] = e.Label
	}
	return out
}

// Terms returns the terms for label, or nil.
func (l Lexicon) Terms(label string) []string {
	for _, e := range l {
		if e.Label == label {
			return e.Terms
		}
	}
	return nil
}

// EmbeddedLabel is a label with its pre-computed centroid vector.
type EmbeddedLabel struct {
	Label  string
	Vector []float64
	Count  int // training examples behind the centroid
}
