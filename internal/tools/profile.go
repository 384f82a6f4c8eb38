package tools

import "github.com/jonathan/career-coach/internal/types"

// updateProfile applies the non-nil fields to a copy of the profile and
// commits it only when the result validates.
func updateProfile(state *types.SessionState, args UpdateProfileArgs) (UpdateProfileResult, error) {
	profile := state.UserProfile.Clone()
	prefs := profile.EnsurePreferences()

	if args.Name != nil {
		name := *args.Name
		profile.Name = &name
	}
	if args.TargetRoles != nil {
		prefs.TargetRoles = append([]string{}, (*args.TargetRoles)...)
	}
	if args.Locations != nil {
		prefs.Locations = append([]string{}, (*args.Locations)...)
	}
	if args.RemotePreference != nil {
		rp := types.RemotePreference(*args.RemotePreference)
		prefs.RemotePreference = &rp
	}
	if args.DayRateMin != nil {
		v := *args.DayRateMin
		prefs.DayRateMin = &v
	}
	if args.DayRateMax != nil {
		v := *args.DayRateMax
		prefs.DayRateMax = &v
	}
	if args.AvailabilityDays != nil {
		v := *args.AvailabilityDays
		prefs.AvailabilityDaysPerWeek = &v
	}

	if err := profile.Validate(); err != nil {
		return UpdateProfileResult{}, err
	}
	state.UserProfile = profile

	return UpdateProfileResult{
		Status: StatusUpdated,
		ProfileSummary: ProfileSummary{
			Name:             profile.Name,
			TargetRoles:      prefs.TargetRoles,
			Locations:        prefs.Locations,
			RemotePreference: prefs.RemotePreference,
		},
	}, nil
}

func addSkill(state *types.SessionState, args AddSkillArgs) (AddSkillResult, error) {
	skill, err := types.NewSkill(args.SkillName, args.Category, args.Level, args.YearsExperience)
	if err != nil {
		return AddSkillResult{}, err
	}
	state.UserProfile.UpsertSkill(skill)
	return AddSkillResult{
		Status:      StatusAdded,
		Skill:       skill,
		TotalSkills: len(state.UserProfile.Skills),
	}, nil
}

func addExperience(state *types.SessionState, args AddExperienceArgs) (AddExperienceResult, error) {
	exp, err := types.NewWorkExperience(args.Company, args.Role, args.StartYear, args.EndYear, args.IsExecutive, args.Achievements)
	if err != nil {
		return AddExperienceResult{}, err
	}
	state.UserProfile.AddExperience(exp)
	return AddExperienceResult{
		Status:           StatusAdded,
		Experience:       exp,
		TotalExperiences: len(state.UserProfile.Experiences),
	}, nil
}

func advanceOnboarding(state *types.SessionState, args AdvanceOnboardingArgs) OnboardingResult {
	state.SetOnboardingStep(args.Step)
	return OnboardingResult{
		Step:     state.OnboardingStep,
		Complete: state.OnboardingComplete,
	}
}

func showVisualization(state *types.SessionState, args ShowVisualizationArgs) VisualizationResult {
	state.ShowVisualization(args.VisualizationType)
	return VisualizationResult{Showing: args.VisualizationType}
}
