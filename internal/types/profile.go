// Package types provides type definitions for the profile, match and session
// data shared by the job store, the scorer and the coaching tools.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// DefaultUserID is assigned to profiles created without an identity.
const DefaultUserID = "anonymous"

// MaxOnboardingStep is the final onboarding step; reaching it completes onboarding.
const MaxOnboardingStep = 5

// SkillLevel represents a proficiency level
type SkillLevel string

// Skill levels
const (
	SkillLevelBeginner     SkillLevel = "beginner"
	SkillLevelIntermediate SkillLevel = "intermediate"
	SkillLevelAdvanced     SkillLevel = "advanced"
	SkillLevelExpert       SkillLevel = "expert"
)

// ParseSkillLevel converts free text into a SkillLevel.
// An empty string yields the intermediate default; unknown values are rejected.
func ParseSkillLevel(s string) (SkillLevel, error) {
	switch SkillLevel(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return SkillLevelIntermediate, nil
	case SkillLevelBeginner:
		return SkillLevelBeginner, nil
	case SkillLevelIntermediate:
		return SkillLevelIntermediate, nil
	case SkillLevelAdvanced:
		return SkillLevelAdvanced, nil
	case SkillLevelExpert:
		return SkillLevelExpert, nil
	}
	return "", &ValidationError{
		Field:   "level",
		Message: fmt.Sprintf("unknown skill level %q (want beginner, intermediate, advanced or expert)", s),
	}
}

// RemotePreference is the user's preferred working arrangement
type RemotePreference string

// Remote preferences
const (
	RemotePreferenceRemote   RemotePreference = "remote"
	RemotePreferenceHybrid   RemotePreference = "hybrid"
	RemotePreferenceOnsite   RemotePreference = "onsite"
	RemotePreferenceFlexible RemotePreference = "flexible"
)

// Skill is a user's skill with proficiency level
type Skill struct {
	Name            string     `json:"name" validate:"required"`
	Category        string     `json:"category"`
	Level           SkillLevel `json:"level" validate:"required,oneof=beginner intermediate advanced expert"`
	YearsExperience *int       `json:"years_experience" validate:"omitempty,min=0"`
}

// NewSkill builds a validated skill. level may be empty to use the default.
func NewSkill(name, category, level string, years *int) (Skill, error) {
	lvl, err := ParseSkillLevel(level)
	if err != nil {
		return Skill{}, err
	}
	s := Skill{
		Name:            strings.TrimSpace(name),
		Category:        category,
		Level:           lvl,
		YearsExperience: years,
	}
	if err := validateStruct(&s); err != nil {
		return Skill{}, err
	}
	return s, nil
}

// WorkExperience is a single work history entry
type WorkExperience struct {
	Company         string   `json:"company" validate:"required"`
	Role            string   `json:"role" validate:"required"`
	IsExecutive     bool     `json:"is_executive"`
	StartYear       int      `json:"start_year" validate:"required"`
	EndYear         *int     `json:"end_year"` // nil means current role
	KeyAchievements []string `json:"key_achievements"`
}

// NewWorkExperience builds a validated experience entry.
func NewWorkExperience(company, role string, startYear int, endYear *int, isExecutive bool, achievements []string) (WorkExperience, error) {
	if achievements == nil {
		achievements = []string{}
	}
	e := WorkExperience{
		Company:         company,
		Role:            role,
		IsExecutive:     isExecutive,
		StartYear:       startYear,
		EndYear:         endYear,
		KeyAchievements: achievements,
	}
	if err := validateStruct(&e); err != nil {
		return WorkExperience{}, err
	}
	return e, nil
}

// IsCurrent reports whether the role is ongoing
func (e *WorkExperience) IsCurrent() bool {
	return e.EndYear == nil
}

// JobPreferences holds the user's job search preferences.
// DayRateMin <= DayRateMax is deliberately not enforced.
type JobPreferences struct {
	TargetRoles             []string          `json:"target_roles"`
	Locations               []string          `json:"locations"`
	RemotePreference        *RemotePreference `json:"remote_preference" validate:"omitempty,oneof=remote hybrid onsite flexible"`
	DayRateMin              *int              `json:"day_rate_min"`
	DayRateMax              *int              `json:"day_rate_max"`
	Industries              []string          `json:"industries"`
	AvailabilityDaysPerWeek *int              `json:"availability_days_per_week" validate:"omitempty,min=1,max=5"`
}

// NewJobPreferences returns empty preferences with non-nil lists
func NewJobPreferences() *JobPreferences {
	return &JobPreferences{
		TargetRoles: []string{},
		Locations:   []string{},
		Industries:  []string{},
	}
}

// Clone returns a deep copy of the preferences
func (p *JobPreferences) Clone() *JobPreferences {
	if p == nil {
		return nil
	}
	c := *p
	c.TargetRoles = append([]string{}, p.TargetRoles...)
	c.Locations = append([]string{}, p.Locations...)
	c.Industries = append([]string{}, p.Industries...)
	c.RemotePreference = clonePtr(p.RemotePreference)
	c.DayRateMin = clonePtr(p.DayRateMin)
	c.DayRateMax = clonePtr(p.DayRateMax)
	c.AvailabilityDaysPerWeek = clonePtr(p.AvailabilityDaysPerWeek)
	return &c
}

// WantsRemote reports whether the remote preference is exactly "remote"
func (p *JobPreferences) WantsRemote() bool {
	return p != nil && p.RemotePreference != nil && *p.RemotePreference == RemotePreferenceRemote
}

// UserProfile is the complete user profile used for career matching
type UserProfile struct {
	UserID             string           `json:"user_id"`
	Name               *string          `json:"name"`
	Email              *string          `json:"email"`
	Skills             []Skill          `json:"skills" validate:"dive"`
	Experiences        []WorkExperience `json:"experiences" validate:"dive"`
	Preferences        *JobPreferences  `json:"preferences"`
	OnboardingComplete bool             `json:"onboarding_complete"`
	OnboardingStep     int              `json:"onboarding_step" validate:"min=0,max=5"`
}

// NewUserProfile returns a profile with defaults
func NewUserProfile() *UserProfile {
	return &UserProfile{
		UserID:      DefaultUserID,
		Skills:      []Skill{},
		Experiences: []WorkExperience{},
	}
}

// Validate checks the profile and its nested records
func (p *UserProfile) Validate() error {
	return validateStruct(p)
}

// UpsertSkill replaces a skill with the same case-insensitive name in place,
// or appends it. Returns true when an existing entry was replaced.
func (p *UserProfile) UpsertSkill(skill Skill) bool {
	for i := range p.Skills {
		if strings.EqualFold(p.Skills[i].Name, skill.Name) {
			p.Skills[i] = skill
			return true
		}
	}
	p.Skills = append(p.Skills, skill)
	return false
}

// AddExperience appends an experience entry
func (p *UserProfile) AddExperience(exp WorkExperience) {
	p.Experiences = append(p.Experiences, exp)
}

// EnsurePreferences lazily creates the preferences sub-object
func (p *UserProfile) EnsurePreferences() *JobPreferences {
	if p.Preferences == nil {
		p.Preferences = NewJobPreferences()
	}
	return p.Preferences
}

// Clone returns a deep copy of the profile
func (p *UserProfile) Clone() *UserProfile {
	c := *p
	c.Name = clonePtr(p.Name)
	c.Email = clonePtr(p.Email)
	c.Skills = make([]Skill, len(p.Skills))
	for i, s := range p.Skills {
		s.YearsExperience = clonePtr(s.YearsExperience)
		c.Skills[i] = s
	}
	c.Experiences = make([]WorkExperience, len(p.Experiences))
	for i, e := range p.Experiences {
		e.EndYear = clonePtr(e.EndYear)
		e.KeyAchievements = append([]string{}, e.KeyAchievements...)
		c.Experiences[i] = e
	}
	c.Preferences = p.Preferences.Clone()
	return &c
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
