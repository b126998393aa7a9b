// Package profile loads profile collections and selects each profile's
// current job.
package profile

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/crimson-sun/roletag/internal/model"
)

var (
	collectionKeys = []string{"profiles", "data", "items"}
	experienceKeys = []string{"experiences", "positions", "experience", "items"}
	jobFields      = []string{"position", "organization", "startDate", "endDate", "status"}
	idKeys         = []string{"id", "profileId", "profile_id"}
)

// Load reads and parses a profile collection from a JSON file.
func Load(path string) ([]model.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	profiles, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile: %s: %w", path, err)
	}
	return profiles, nil
}

// Parse decodes a profile collection. The document may be a list of
// profiles, an object holding that list under "profiles", "data" or
// "items", or a single profile.
func Parse(data []byte) ([]model.Profile, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	doc := gjson.ParseBytes(data)

	var elems []gjson.Result
	switch {
	case doc.IsArray():
		elems = doc.Array()
	case doc.IsObject():
		elems = []gjson.Result{doc}
		for _, k := range collectionKeys {
			if v := doc.Get(k); v.IsArray() {
				elems = v.Array()
				break
			}
		}
	default:
		return nil, nil
	}

	profiles := make([]model.Profile, 0, len(elems))
	for i, e := range elems {
		profiles = append(profiles, parseProfile(i, e))
	}
	return profiles, nil
}

func parseProfile(index int, v gjson.Result) model.Profile {
	p := model.Profile{ID: strconv.Itoa(index)}

	var list []gjson.Result
	switch {
	case v.IsArray():
		list = v.Array()
	case v.IsObject():
		if id := profileID(v); id != "" {
			p.ID = id
		}
		found := false
		for _, k := range experienceKeys {
			if e := v.Get(k); e.IsArray() {
				list = e.Array()
				found = true
				break
			}
		}
		if !found && hasJobFields(v) {
			list = []gjson.Result{v}
		}
	default:
		slog.Debug("profile is neither a list nor an object", "index", index, "type", v.Type.String())
	}

	for _, e := range list {
		if !e.IsObject() {
			p.Dropped++
			continue
		}
		p.Experiences = append(p.Experiences, parseExperience(e))
	}
	if p.Dropped > 0 {
		slog.Debug("dropped malformed experiences", "profile", p.ID, "count", p.Dropped)
	}
	return p
}

func parseExperience(v gjson.Result) model.Experience {
	return model.Experience{
		Position:     field(v, "position"),
		Organization: field(v, "organization"),
		StartDate:    field(v, "startDate"),
		EndDate:      field(v, "endDate"),
		Status:       field(v, "status"),
		Department:   field(v, "department"),
		Seniority:    field(v, "seniority"),
	}
}

// field returns a scalar field as text. Missing, null and structured values
// come back empty.
func field(v gjson.Result, name string) string {
	f := v.Get(name)
	switch f.Type {
	case gjson.String, gjson.Number:
		return f.String()
	default:
		return ""
	}
}

func profileID(v gjson.Result) string {
	for _, k := range idKeys {
		if id := field(v, k); id != "" {
			return id
		}
	}
	return ""
}

func hasJobFields(v gjson.Result) bool {
	for _, k := range jobFields {
		if v.Get(k).Exists() {
			return true
		}
	}
	return false
}
