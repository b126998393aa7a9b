package model

// Experience is a single job record inside a profile. Empty strings mean the
// field was missing or null in the source document.
type Experience struct {
	Position     string `json:"position,omitempty"`
	Organization string `json:"organization,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	Status       string `json:"status,omitempty"`

	// Ground truth, present only in annotated datasets.
	Department string `json:"department,omitempty"`
	Seniority  string `json:"seniority,omitempty"`
}

// Profile is the set of experiences belonging to one person.
type Profile struct {
	ID          string
	Experiences []Experience
	Dropped     int // malformed experience entries discarded at load
}

// Example is one row of labeled training data.
type Example struct {
	Text  string
	Label string
}
