package output

import (
	"strconv"

	"github.com/crimson-sun/roletag/internal/model"
)

// Columns is the CSV output layout. The SQLite table uses the same names
// plus run_id and created_at.
var Columns = []string{
	"profile_id",
	"position",
	"organization",
	"text",
	"department",
	"department_confidence",
	"department_source",
	"seniority",
	"seniority_confidence",
	"seniority_source",
}

// Record flattens a row in Columns order.
func Record(row model.Labeled) []string {
	return []string{
		row.ProfileID,
		row.Position,
		row.Organization,
		row.Text,
		row.Department.Label,
		FormatConfidence(row.Department.Confidence),
		string(row.Department.Source),
		row.Seniority.Label,
		FormatConfidence(row.Seniority.Confidence),
		string(row.Seniority.Source),
	}
}

// FormatConfidence renders a confidence with the fewest digits that round-trip.
func FormatConfidence(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}
