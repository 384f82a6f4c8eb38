package tools

import "github.com/jonathan/career-coach/internal/types"

// Result statuses
const (
	StatusUpdated = "updated"
	StatusAdded   = "added"
)

// ProfileSummary is the post-update view returned by update_user_profile
type ProfileSummary struct {
	Name             *string                 `json:"name"`
	TargetRoles      []string                `json:"target_roles"`
	Locations        []string                `json:"locations"`
	RemotePreference *types.RemotePreference `json:"remote_preference"`
}

// UpdateProfileResult is returned by update_user_profile
type UpdateProfileResult struct {
	Status         string         `json:"status"`
	ProfileSummary ProfileSummary `json:"profile_summary"`
}

// AddSkillResult is returned by add_skill
type AddSkillResult struct {
	Status      string      `json:"status"`
	Skill       types.Skill `json:"skill"`
	TotalSkills int         `json:"total_skills"`
}

// AddExperienceResult is returned by add_experience
type AddExperienceResult struct {
	Status           string               `json:"status"`
	Experience       types.WorkExperience `json:"experience"`
	TotalExperiences int                  `json:"total_experiences"`
}

// OnboardingResult is returned by advance_onboarding
type OnboardingResult struct {
	Step     int  `json:"step"`
	Complete bool `json:"complete"`
}

// VisualizationResult is returned by show_visualization
type VisualizationResult struct {
	Showing string `json:"showing"`
}
