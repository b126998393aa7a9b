package roletag

// Sources reported in Prediction.Source.
const (
	SourceRule     = "Rule"
	SourceML       = "ML"
	SourceFallback = "Fallback"
	SourceEmpty    = "Empty"
)

// Prediction is one task's label for a title.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"` // Rule, ML, Fallback or Empty
}

// Result carries both task predictions for one title.
type Result struct {
	Position     string     `json:"position"`
	Organization string     `json:"organization,omitempty"`
	Department   Prediction `json:"department"`
	Seniority    Prediction `json:"seniority"`
}

// Experience is one entry of a profile's work history. Dates are "YYYY" or
// "YYYY-MM"; Status is typically "ACTIVE" or "INACTIVE".
type Experience struct {
	Position     string
	Organization string
	StartDate    string
	EndDate      string
	Status       string
}
