// Package tools implements the operations an orchestrator may invoke against a
// coaching session: job search, profile edits, onboarding and UI triggers.
//
// Every tool is a typed argument record implementing Request. Toolbox.Dispatch
// selects the operation with an explicit type switch and mutates the
// SessionState passed in by the caller.
package tools

// Tool names as exposed to the orchestrator
const (
	NameSearchJobs        = "search_jobs"
	NameUpdateUserProfile = "update_user_profile"
	NameAddSkill          = "add_skill"
	NameAddExperience     = "add_experience"
	NameAdvanceOnboarding = "advance_onboarding"
	NameShowVisualization = "show_visualization"
	NameGetJobStats       = "get_job_stats"
)

// Request is one tool invocation with its typed arguments
type Request interface {
	ToolName() string
}

// SearchJobsArgs are the arguments of search_jobs
type SearchJobsArgs struct {
	Role       *string `json:"role,omitempty"`
	Location   *string `json:"location,omitempty"`
	RemoteOnly bool    `json:"remote_only,omitempty"`
	Limit      *int    `json:"limit,omitempty"`
}

// UpdateProfileArgs are the arguments of update_user_profile.
// Nil fields leave the profile untouched.
type UpdateProfileArgs struct {
	Name             *string   `json:"name,omitempty"`
	TargetRoles      *[]string `json:"target_roles,omitempty"`
	Locations        *[]string `json:"locations,omitempty"`
	RemotePreference *string   `json:"remote_preference,omitempty"`
	DayRateMin       *int      `json:"day_rate_min,omitempty"`
	DayRateMax       *int      `json:"day_rate_max,omitempty"`
	AvailabilityDays *int      `json:"availability_days,omitempty"`
}

// AddSkillArgs are the arguments of add_skill
type AddSkillArgs struct {
	SkillName       string `json:"skill_name"`
	Category        string `json:"category"`
	Level           string `json:"level,omitempty"`
	YearsExperience *int   `json:"years_experience,omitempty"`
}

// AddExperienceArgs are the arguments of add_experience
type AddExperienceArgs struct {
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	StartYear    int      `json:"start_year"`
	EndYear      *int     `json:"end_year,omitempty"`
	IsExecutive  bool     `json:"is_executive,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// AdvanceOnboardingArgs are the arguments of advance_onboarding
type AdvanceOnboardingArgs struct {
	Step int `json:"step"`
}

// ShowVisualizationArgs are the arguments of show_visualization
type ShowVisualizationArgs struct {
	VisualizationType string `json:"visualization_type"`
}

// JobStatsArgs are the (empty) arguments of get_job_stats
type JobStatsArgs struct{}

func (SearchJobsArgs) ToolName() string        { return NameSearchJobs }
func (UpdateProfileArgs) ToolName() string     { return NameUpdateUserProfile }
func (AddSkillArgs) ToolName() string          { return NameAddSkill }
func (AddExperienceArgs) ToolName() string     { return NameAddExperience }
func (AdvanceOnboardingArgs) ToolName() string { return NameAdvanceOnboarding }
func (ShowVisualizationArgs) ToolName() string { return NameShowVisualization }
func (JobStatsArgs) ToolName() string          { return NameGetJobStats }
