package model

// Source tags which stage of the hybrid cascade produced a prediction.
type Source string

const (
	SourceRule     Source = "Rule"
	SourceML       Source = "ML"
	SourceFallback Source = "Fallback"
	SourceEmpty    Source = "Empty"
)

// UnknownLabel is reported when there was no text to classify.
const UnknownLabel = "Unknown"

// Prediction is the outcome of classifying one text for one task.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
}

// EmptyPrediction is the placeholder used when no text is available.
func EmptyPrediction() Prediction {
	return Prediction{Label: UnknownLabel, Confidence: 0, Source: SourceEmpty}
}

// Labeled is one output row: a profile's current job with both task predictions.
type Labeled struct {
	ProfileID    string     `json:"profile_id"`
	Position     string     `json:"position"`
	Organization string     `json:"organization,omitempty"`
	Text         string     `json:"text"`
	Department   Prediction `json:"department"`
	Seniority    Prediction `json:"seniority"`

	TruthDepartment string `json:"truth_department,omitempty"`
	TruthSeniority  string `json:"truth_seniority,omitempty"`
}
