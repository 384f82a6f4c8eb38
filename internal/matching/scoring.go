// Package matching scores job records against a user's stated preferences.
// The score is an additive, explainable heuristic, not a ranking model.
package matching

import (
	"strings"

	"github.com/jonathan/career-coach/internal/db"
	"github.com/jonathan/career-coach/internal/types"
)

// Score components
const (
	baseScore      = 0.5
	roleWeight     = 0.2
	locationWeight = 0.15
	remoteWeight   = 0.15
	maxScore       = 1.0
)

// Fallback reasons
const (
	ReasonNoPreferences = "Matches your search criteria"
	ReasonFallback      = "Relevant fractional executive opportunity"
	ReasonRemote        = "Remote opportunity"
)

// signals records which preference conditions a job satisfies
type signals struct {
	role     string // matched target role, "" if none
	location bool
	remote   bool
}

func evaluate(job *db.JobRecord, prefs *types.JobPreferences) signals {
	var s signals

	title := strings.ToLower(job.Title)
	for _, target := range prefs.TargetRoles {
		if strings.Contains(title, strings.ToLower(target)) {
			s.role = target
			break
		}
	}

	location := strings.ToLower(deref(job.Location))
	for _, pref := range prefs.Locations {
		if strings.Contains(location, strings.ToLower(pref)) {
			s.location = true
			break
		}
	}

	s.remote = prefs.WantsRemote() && job.Remote
	return s
}

// Score returns the match score in [0, 1] for job against profile.
func Score(job *db.JobRecord, profile *types.UserProfile) float64 {
	if profile == nil || profile.Preferences == nil {
		return baseScore
	}

	s := evaluate(job, profile.Preferences)
	score := baseScore
	if s.role != "" {
		score += roleWeight
	}
	if s.location {
		score += locationWeight
	}
	if s.remote {
		score += remoteWeight
	}
	return min(score, maxScore)
}

// Reasons returns human-readable reasons mirroring the conditions Score counts,
// in role, location, remote order.
func Reasons(job *db.JobRecord, profile *types.UserProfile) []string {
	if profile == nil || profile.Preferences == nil {
		return []string{ReasonNoPreferences}
	}

	s := evaluate(job, profile.Preferences)
	reasons := []string{}
	if s.role != "" {
		reasons = append(reasons, "Matches your target role: "+s.role)
	}
	if s.location {
		reasons = append(reasons, "Located in "+deref(job.Location))
	}
	if s.remote {
		reasons = append(reasons, ReasonRemote)
	}
	if len(reasons) == 0 {
		reasons = append(reasons, ReasonFallback)
	}
	return reasons
}

// BuildMatch converts a job record into a scored JobMatch
func BuildMatch(job *db.JobRecord, profile *types.UserProfile) types.JobMatch {
	company := types.DefaultCompany
	if job.Company != nil && *job.Company != "" {
		company = *job.Company
	}

	return types.JobMatch{
		JobID:         job.ID,
		Title:         job.Title,
		Company:       company,
		Location:      job.Location,
		Remote:        job.Remote,
		MatchScore:    Score(job, profile),
		MatchReasons:  Reasons(job, profile),
		MissingSkills: []string{},
		DayRate:       job.Salary,
		URL:           job.URL,
	}
}

// BuildMatches scores every record, preserving store order
func BuildMatches(jobs []db.JobRecord, profile *types.UserProfile) []types.JobMatch {
	matches := make([]types.JobMatch, 0, len(jobs))
	for i := range jobs {
		matches = append(matches, BuildMatch(&jobs[i], profile))
	}
	return matches
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
