package types

import "time"

// Tool log statuses
const (
	ToolStatusSearching = "searching"
	ToolStatusComplete  = "complete"
	ToolStatusError     = "error"
)

// Visualization tags accepted by show_visualization
const (
	VisualizationJobs    = "jobs"
	VisualizationProfile = "profile"
	VisualizationSkills  = "skills"
)

// ToolLog records one tool invocation for UI feedback
type ToolLog struct {
	Tool         string         `json:"tool"`
	Status       string         `json:"status"`
	Params       map[string]any `json:"params"`
	ResultsCount *int           `json:"results_count,omitempty"`
	Error        string         `json:"error,omitempty"`
	At           time.Time      `json:"at"`
}

// SessionState is the aggregate synchronized with the presentation layer
// after every tool call. The whole value is the unit of truth.
type SessionState struct {
	UserProfile *UserProfile `json:"user_profile"`
	JobMatches  []JobMatch   `json:"job_matches"`

	// Duplicated from UserProfile; both copies are written together.
	OnboardingStep     int  `json:"onboarding_step"`
	OnboardingComplete bool `json:"onboarding_complete"`

	ShowJobsPanel    bool `json:"show_jobs_panel"`
	ShowProfilePanel bool `json:"show_profile_panel"`
	ShowSkillsGraph  bool `json:"show_skills_graph"`

	LastSearchQuery    *string `json:"last_search_query"`
	LastSearchRole     *string `json:"last_search_role"`
	LastSearchLocation *string `json:"last_search_location"`

	ToolLogs []ToolLog `json:"tool_logs"`
}

// NewSessionState returns a session with a default profile
func NewSessionState() *SessionState {
	return &SessionState{
		UserProfile: NewUserProfile(),
		JobMatches:  []JobMatch{},
		ToolLogs:    []ToolLog{},
	}
}

// AppendToolLog appends a log entry and returns its index
func (s *SessionState) AppendToolLog(entry ToolLog) int {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	s.ToolLogs = append(s.ToolLogs, entry)
	return len(s.ToolLogs) - 1
}

// SetOnboardingStep clamps step to [0, MaxOnboardingStep] and writes it to the
// session and the nested profile. Reaching the final step marks onboarding
// complete on both. Moving backwards is permitted and does not clear completion.
func (s *SessionState) SetOnboardingStep(step int) {
	clamped := max(0, min(step, MaxOnboardingStep))
	s.OnboardingStep = clamped
	s.UserProfile.OnboardingStep = clamped
	if clamped >= MaxOnboardingStep {
		s.OnboardingComplete = true
		s.UserProfile.OnboardingComplete = true
	}
}

// ShowVisualization sets the visibility flag for tag. Unknown tags are ignored
// and false is returned.
func (s *SessionState) ShowVisualization(tag string) bool {
	switch tag {
	case VisualizationJobs:
		s.ShowJobsPanel = true
	case VisualizationProfile:
		s.ShowProfilePanel = true
	case VisualizationSkills:
		s.ShowSkillsGraph = true
	default:
		return false
	}
	return true
}

// Clone returns a deep copy suitable for handing to another goroutine
func (s *SessionState) Clone() *SessionState {
	c := *s
	c.UserProfile = s.UserProfile.Clone()
	c.JobMatches = make([]JobMatch, len(s.JobMatches))
	for i, m := range s.JobMatches {
		m.MatchReasons = append([]string{}, m.MatchReasons...)
		m.MissingSkills = append([]string{}, m.MissingSkills...)
		m.Location = clonePtr(m.Location)
		m.DayRate = clonePtr(m.DayRate)
		m.URL = clonePtr(m.URL)
		c.JobMatches[i] = m
	}
	c.LastSearchQuery = clonePtr(s.LastSearchQuery)
	c.LastSearchRole = clonePtr(s.LastSearchRole)
	c.LastSearchLocation = clonePtr(s.LastSearchLocation)
	c.ToolLogs = make([]ToolLog, len(s.ToolLogs))
	for i, l := range s.ToolLogs {
		if l.Params != nil {
			params := make(map[string]any, len(l.Params))
			for k, v := range l.Params {
				params[k] = v
			}
			l.Params = params
		}
		l.ResultsCount = clonePtr(l.ResultsCount)
		c.ToolLogs[i] = l
	}
	return &c
}
