package db

import "time"

// DefaultSearchLimit is used when a search is issued without a positive limit
const DefaultSearchLimit = 10

// JobRecord is a row of the jobs table
type JobRecord struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Company        *string    `json:"company"`
	Location       *string    `json:"location"`
	Remote         bool       `json:"remote"`
	Salary         *string    `json:"salary"`
	URL            *string    `json:"url"`
	Description    *string    `json:"description"`
	PostedDate     *time.Time `json:"posted_date"`
	IsFractional   bool       `json:"is_fractional"`
	IsInterim      bool       `json:"is_interim"`
	ExecutiveTitle *string    `json:"executive_title"`
	RoleCategory   *string    `json:"role_category"`
}

// JobSearchFilter holds optional filters for SearchJobs.
// Empty strings mean "no filter".
type JobSearchFilter struct {
	Role       string
	Location   string
	RemoteOnly bool
	Limit      int
}

// JobStats aggregates counts over the jobs table
type JobStats struct {
	TotalJobs  int            `json:"total_jobs"`
	RemoteJobs int            `json:"remote_jobs"`
	ByRole     map[string]int `json:"by_role"`
}

// EmptyJobStats is returned when the store cannot be queried
func EmptyJobStats() JobStats {
	return JobStats{ByRole: map[string]int{}}
}
