package profile

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/crimson-sun/roletag/internal/model"
	"github.com/crimson-sun/roletag/internal/textnorm"
)

var dateRe = regexp.MustCompile(`^\d{4}(-\d{2})?$`)

// SelectOption configures SelectCurrent.
type SelectOption func(*selectConfig)

type selectConfig struct {
	roleStrength bool
}

// WithRoleStrength breaks start-date ties in favour of stronger titles
// (CEO over director over manager over lead).
func WithRoleStrength() SelectOption {
	return func(c *selectConfig) { c.roleStrength = true }
}

type candidate struct {
	exp      model.Experience
	start    time.Time
	dated    bool
	strength int
}

// SelectCurrent picks the experience that best represents the current job.
// Active experiences (explicit ACTIVE status, or no status and no end date)
// are preferred; within the pool, the most recent parseable start date wins
// and ties keep input order. Returns false only for an empty list.
func SelectCurrent(exps []model.Experience, opts ...SelectOption) (model.Experience, bool) {
	if len(exps) == 0 {
		return model.Experience{}, false
	}
	var cfg selectConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var active []model.Experience
	for _, e := range exps {
		if IsActive(e) {
			active = append(active, e)
		}
	}
	pool := exps
	if len(active) > 0 {
		pool = active
	}

	cands := make([]candidate, len(pool))
	for i, e := range pool {
		start, ok := ParseDate(e.StartDate)
		cands[i] = candidate{exp: e, start: start, dated: ok}
		if cfg.roleStrength {
			cands[i].strength = RoleStrength(e.Position)
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.dated != b.dated {
			return a.dated
		}
		if !a.start.Equal(b.start) {
			return a.start.After(b.start)
		}
		return a.strength > b.strength
	})
	return cands[0].exp, true
}

// IsActive reports whether the experience looks like a current position.
func IsActive(e model.Experience) bool {
	status := strings.TrimSpace(e.Status)
	if status != "" {
		return strings.EqualFold(status, "ACTIVE")
	}
	end := strings.TrimSpace(e.EndDate)
	return end == "" || end == "null"
}

// ParseDate parses YYYY or YYYY-MM. Anything else reports false.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if !dateRe.MatchString(s) {
		return time.Time{}, false
	}
	layout := "2006"
	if len(s) == 7 {
		layout = "2006-01"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

var strengthTiers = []struct {
	re    *regexp.Regexp
	score int
}{
	{regexp.MustCompile(`\b(ceo|cfo|cto|cio|coo|chief|founder|owner)\b`), 5},
	{regexp.MustCompile(`\b(vp|vice president|director|head|geschaftsfuhrer|geschaftsfuhrung|vorstand|prokurist)\b`), 4},
	{regexp.MustCompile(`\b(manager|leitung|leiter|teamleiter)\b`), 3},
	{regexp.MustCompile(`\b(lead|principal|staff)\b`), 2},
}

// RoleStrength scores a title from 1 (plain) to 5 (executive).
func RoleStrength(position string) int {
	p := textnorm.Normalize(position)
	for _, tier := range strengthTiers {
		if tier.re.MatchString(p) {
			return tier.score
		}
	}
	return 1
}
