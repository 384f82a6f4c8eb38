package types

// DefaultCompany is used when a job record carries no company name
const DefaultCompany = "Unknown"

// JobMatch is a job scored against the user's profile
type JobMatch struct {
	JobID         string   `json:"job_id"`
	Title         string   `json:"title"`
	Company       string   `json:"company"`
	Location      *string  `json:"location"`
	Remote        bool     `json:"remote"`
	MatchScore    float64  `json:"match_score"`
	MatchReasons  []string `json:"match_reasons"`
	MissingSkills []string `json:"missing_skills"` // reserved, never populated
	DayRate       *string  `json:"day_rate"`
	URL           *string  `json:"url"`
}
