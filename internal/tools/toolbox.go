package tools

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/db"
	"github.com/jonathan/career-coach/internal/matching"
	"github.com/jonathan/career-coach/internal/metrics"
	"github.com/jonathan/career-coach/internal/types"
)

const (
	// DefaultSearchLimit is used when search_jobs is called without a limit
	DefaultSearchLimit = 5
	// DefaultMaxSearchLimit caps the limit accepted by search_jobs
	DefaultMaxSearchLimit = 50
)

// JobStore is the read side of the jobs database used by the tools
type JobStore interface {
	SearchJobs(ctx context.Context, filter db.JobSearchFilter) []db.JobRecord
	GetJobByID(ctx context.Context, id string) *db.JobRecord
	Stats(ctx context.Context) db.JobStats
}

// Toolbox executes tool requests against a session
type Toolbox struct {
	store    JobStore
	logger   *zap.Logger
	maxLimit int
}

// Option configures a Toolbox
type Option func(*Toolbox)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(t *Toolbox) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithMaxSearchLimit sets the upper bound for search_jobs limits
func WithMaxSearchLimit(n int) Option {
	return func(t *Toolbox) {
		if n > 0 {
			t.maxLimit = n
		}
	}
}

// New creates a Toolbox backed by store
func New(store JobStore, opts ...Option) *Toolbox {
	t := &Toolbox{
		store:    store,
		logger:   zap.NewNop(),
		maxLimit: DefaultMaxSearchLimit,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Store returns the job store the toolbox reads from
func (t *Toolbox) Store() JobStore {
	return t.store
}

// Dispatch runs req against state and returns the tool result. The caller
// must hold whatever lock guards state for the duration of the call.
func (t *Toolbox) Dispatch(ctx context.Context, state *types.SessionState, req Request) (any, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrUnknownTool)
	}
	if state == nil {
		return nil, fmt.Errorf("dispatch %s: nil session state", req.ToolName())
	}
	if state.UserProfile == nil {
		state.UserProfile = types.NewUserProfile()
	}

	name := req.ToolName()
	start := time.Now()

	var (
		result any
		err    error
	)
	switch r := req.(type) {
	case SearchJobsArgs:
		result = t.searchJobs(ctx, state, r)
	case UpdateProfileArgs:
		result, err = updateProfile(state, r)
	case AddSkillArgs:
		result, err = addSkill(state, r)
	case AddExperienceArgs:
		result, err = addExperience(state, r)
	case AdvanceOnboardingArgs:
		result = advanceOnboarding(state, r)
	case ShowVisualizationArgs:
		result = showVisualization(state, r)
	case JobStatsArgs:
		result = t.store.Stats(ctx)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownTool, req)
	}

	elapsed := time.Since(start)
	metrics.ToolDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	if err != nil {
		metrics.ToolCalls.WithLabelValues(name, metrics.OutcomeError).Inc()
		state.AppendToolLog(types.ToolLog{
			Tool:   name,
			Status: types.ToolStatusError,
			Error:  err.Error(),
		})
		t.logger.Warn("tool call failed",
			zap.String("tool", name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, err
	}

	metrics.ToolCalls.WithLabelValues(name, metrics.OutcomeOK).Inc()
	t.logger.Debug("tool call completed",
		zap.String("tool", name),
		zap.Duration("elapsed", elapsed))
	return result, nil
}

// clampLimit applies the default and upper bound to a requested search limit
func (t *Toolbox) clampLimit(limit *int) int {
	if limit == nil || *limit <= 0 {
		return min(DefaultSearchLimit, t.maxLimit)
	}
	return min(*limit, t.maxLimit)
}

func (t *Toolbox) searchJobs(ctx context.Context, state *types.SessionState, args SearchJobsArgs) []types.JobMatch {
	role := nonEmpty(args.Role)
	location := nonEmpty(args.Location)

	query := fmt.Sprintf("%s in %s", orDefault(role, "any role"), orDefault(location, "any location"))
	state.LastSearchQuery = &query
	state.LastSearchRole = role
	state.LastSearchLocation = location

	idx := state.AppendToolLog(types.ToolLog{
		Tool:   NameSearchJobs,
		Status: types.ToolStatusSearching,
		Params: map[string]any{
			"role":        derefOrNil(role),
			"location":    derefOrNil(location),
			"remote_only": args.RemoteOnly,
		},
	})

	records := t.store.SearchJobs(ctx, db.JobSearchFilter{
		Role:       orDefault(role, ""),
		Location:   orDefault(location, ""),
		RemoteOnly: args.RemoteOnly,
		Limit:      t.clampLimit(args.Limit),
	})
	matches := matching.BuildMatches(records, state.UserProfile)

	state.JobMatches = matches
	state.ShowJobsPanel = true

	count := len(matches)
	state.ToolLogs[idx].Status = types.ToolStatusComplete
	state.ToolLogs[idx].ResultsCount = &count
	metrics.SearchResults.Observe(float64(count))

	t.logger.Info("job search",
		zap.String("query", query),
		zap.Bool("remote_only", args.RemoteOnly),
		zap.Int("results", count))

	return matches
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func orDefault(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func derefOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
