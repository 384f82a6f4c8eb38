package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-coach/internal/a2ui"
	"github.com/jonathan/career-coach/internal/agent"
	"github.com/jonathan/career-coach/internal/config"
	"github.com/jonathan/career-coach/internal/db"
	"github.com/jonathan/career-coach/internal/schemas"
	"github.com/jonathan/career-coach/internal/server/ratelimit"
	"github.com/jonathan/career-coach/internal/session"
	"github.com/jonathan/career-coach/internal/tools"
	"github.com/jonathan/career-coach/internal/types"
)

type fakeStore struct {
	jobs  []db.JobRecord
	stats db.JobStats
}

func (f *fakeStore) SearchJobs(_ context.Context, filter db.JobSearchFilter) []db.JobRecord {
	if filter.Limit < len(f.jobs) {
		return f.jobs[:filter.Limit]
	}
	return f.jobs
}

func (f *fakeStore) GetJobByID(_ context.Context, id string) *db.JobRecord {
	for i := range f.jobs {
		if f.jobs[i].ID == id {
			return &f.jobs[i]
		}
	}
	return nil
}

func (f *fakeStore) Stats(context.Context) db.JobStats {
	return f.stats
}

// fakeCoach dispatches calls through the toolbox and echoes the message.
// Without calls it advances onboarding to step 2.
type fakeCoach struct {
	toolbox *tools.Toolbox
	calls   []tools.Request
	err     error
}

func (c *fakeCoach) Reply(ctx context.Context, sess *session.Session, message string, observe agent.ToolObserver) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	calls := c.calls
	if len(calls) == 0 {
		calls = []tools.Request{tools.AdvanceOnboardingArgs{Step: 2}}
	}
	for _, req := range calls {
		result, err := c.toolbox.Dispatch(ctx, sess.State, req)
		if observe != nil {
			ev := agent.ToolEvent{Tool: req.ToolName(), Result: result, State: sess.State.Clone()}
			if err != nil {
				ev.Error = err.Error()
			}
			observe(ev)
		}
	}
	return "echo: " + message, nil
}

func strPtr(s string) *string { return &s }

func testJobs() []db.JobRecord {
	return []db.JobRecord{
		{ID: "job-1", Title: "Fractional CFO", Company: strPtr("Acme"), Location: strPtr("London"), Remote: true, RoleCategory: strPtr("cfo")},
		{ID: "job-2", Title: "Interim CTO", Company: strPtr("Globex"), Location: strPtr("Berlin"), RoleCategory: strPtr("cto")},
	}
}

type testEnv struct {
	server   *Server
	handler  http.Handler
	sessions *session.Store
	toolbox  *tools.Toolbox
}

func newTestEnv(t *testing.T, coach Chatter, rl *ratelimit.Config) *testEnv {
	t.Helper()

	store := &fakeStore{
		jobs:  testJobs(),
		stats: db.JobStats{TotalJobs: 2, RemoteJobs: 1, ByRole: map[string]int{"cfo": 1, "cto": 1}},
	}
	tb := tools.New(store)
	sessions := session.NewStore()
	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}
	if fc, ok := coach.(*fakeCoach); ok && fc.toolbox == nil {
		fc.toolbox = tb
	}

	s, err := New(Config{
		Port:      0,
		Version:   "test",
		Toolbox:   tb,
		Sessions:  sessions,
		Coach:     coach,
		JWT:       &config.JWTConfig{Secret: testSecret, ExpirationHours: 1},
		RateLimit: rl,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return &testEnv{server: s, handler: s.Handler(), sessions: sessions, toolbox: tb}
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createSession(t *testing.T) createSessionResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/sessions", "", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp createSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEqual(t, uuid.Nil, resp.SessionID)
	require.NotEmpty(t, resp.Token)
	return resp
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	_, err = New(Config{Toolbox: tools.New(&fakeStore{})})
	assert.Error(t, err)

	_, err = New(Config{Toolbox: tools.New(&fakeStore{}), Sessions: session.NewStore()})
	assert.Error(t, err)
}

func TestHealthAndBanner(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	w := env.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, w)["status"])

	w = env.do(t, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	banner := decodeBody[map[string]string](t, w)
	assert.Equal(t, ServiceName, banner["service"])
	assert.Equal(t, "test", banner["version"])

	w = env.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	w := env.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "career_coach_")
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	w := env.do(t, http.MethodOptions, "/sessions", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestCreateSessionAndState(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	created := env.createSession(t)

	require.NotNil(t, created.State)
	assert.Equal(t, 0, created.State.OnboardingStep)
	assert.Equal(t, 1, env.sessions.Len())

	w := env.do(t, http.MethodGet, "/sessions/"+created.SessionID.String()+"/state", created.Token, "")
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeBody[types.SessionState](t, w)
	assert.False(t, state.OnboardingComplete)
	assert.NotNil(t, state.UserProfile)
}

func TestSessionAuthorization(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	a := env.createSession(t)
	b := env.createSession(t)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{name: "no token", path: "/sessions/" + a.SessionID.String() + "/state", status: http.StatusUnauthorized},
		{name: "garbage token", path: "/sessions/" + a.SessionID.String() + "/state", token: "garbage", status: http.StatusUnauthorized},
		{name: "other session token", path: "/sessions/" + a.SessionID.String() + "/state", token: b.Token, status: http.StatusForbidden},
		{name: "malformed id", path: "/sessions/not-a-uuid/state", token: a.Token, status: http.StatusBadRequest},
		{name: "own token", path: "/sessions/" + a.SessionID.String() + "/state", token: a.Token, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, tt.path, tt.token, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestToolEndpoint_SearchJobs(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	sess := env.createSession(t)
	path := "/sessions/" + sess.SessionID.String() + "/tools/search_jobs"

	w := env.do(t, http.MethodPost, path, sess.Token, `{"role": "cfo", "location": null, "limit": 5}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[struct {
		Result     []types.JobMatch   `json:"result"`
		State      types.SessionState `json:"state"`
		Summary    string             `json:"summary"`
		Components []map[string]any   `json:"components"`
	}](t, w)

	assert.Len(t, resp.Result, 2)
	assert.Len(t, resp.State.JobMatches, 2)
	assert.True(t, resp.State.ShowJobsPanel)
	require.NotNil(t, resp.State.LastSearchQuery)
	assert.Equal(t, "cfo in any location", *resp.State.LastSearchQuery)
	assert.Contains(t, resp.Summary, "Found 2 CFO opportunities")
	assert.Len(t, resp.Components, 2)
}

func TestToolEndpoint_EmptyBody(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	sess := env.createSession(t)

	w := env.do(t, http.MethodPost, "/sessions/"+sess.SessionID.String()+"/tools/get_job_stats", sess.Token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[map[string]any](t, w)
	result, ok := resp["result"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, result["total_jobs"])
	assert.Contains(t, resp["summary"], "Total Jobs: 2")
	assert.Len(t, resp["components"], 1)
}

func TestToolEndpoint_Errors(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	sess := env.createSession(t)
	base := "/sessions/" + sess.SessionID.String() + "/tools/"

	tests := []struct {
		name   string
		tool   string
		body   string
		status int
	}{
		{name: "unknown tool", tool: "book_flight", body: `{}`, status: http.StatusNotFound},
		{name: "missing required", tool: "add_skill", body: `{"skill_name": "Go"}`, status: http.StatusBadRequest},
		{name: "unexpected field", tool: "advance_onboarding", body: `{"step": 1, "extra": true}`, status: http.StatusBadRequest},
		{name: "not json", tool: "search_jobs", body: `not json`, status: http.StatusBadRequest},
		{name: "bad availability", tool: "update_user_profile", body: `{"availability_days": 9}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, base+tt.tool, sess.Token, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, decodeBody[errorBody](t, w).Error)
		})
	}
}

func TestToolEndpoint_ProfileFlow(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	sess := env.createSession(t)
	base := "/sessions/" + sess.SessionID.String() + "/tools/"

	w := env.do(t, http.MethodPost, base+"update_user_profile", sess.Token,
		`{"name": "Ada", "target_roles": ["CTO"], "remote_preference": "remote"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, base+"add_skill", sess.Token,
		`{"skill_name": "Go", "category": "technical", "level": "expert"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, base+"advance_onboarding", sess.Token, `{"step": 5}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	state, err := env.sessions.Get(sess.SessionID)
	require.NoError(t, err)
	require.NotNil(t, state.UserProfile.Name)
	assert.Equal(t, "Ada", *state.UserProfile.Name)
	require.Len(t, state.UserProfile.Skills, 1)
	assert.Equal(t, 5, state.OnboardingStep)
	assert.True(t, state.OnboardingComplete)
}

func TestToolEndpoint_IntegralFloatArguments(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	sess := env.createSession(t)
	base := "/sessions/" + sess.SessionID.String() + "/tools/"

	w := env.do(t, http.MethodPost, base+"search_jobs", sess.Token, `{"limit": 1.0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[struct {
		Result []types.JobMatch `json:"result"`
	}](t, w)
	assert.Len(t, resp.Result, 1)

	w = env.do(t, http.MethodPost, base+"advance_onboarding", sess.Token, `{"step": 1e20}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	state, err := env.sessions.Get(sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 5, state.OnboardingStep)
	assert.True(t, state.OnboardingComplete)

	w = env.do(t, http.MethodPost, base+"advance_onboarding", sess.Token, `{"step": 2.5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestDeleteSession(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	sess := env.createSession(t)
	path := "/sessions/" + sess.SessionID.String()

	w := env.do(t, http.MethodDelete, path, sess.Token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, env.sessions.Len())

	w = env.do(t, http.MethodGet, path+"/state", sess.Token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, path, sess.Token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChat_Unavailable(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	sess := env.createSession(t)

	w := env.do(t, http.MethodPost, "/sessions/"+sess.SessionID.String()+"/chat", sess.Token, `{"message": "hi"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestChat(t *testing.T) {
	env := newTestEnv(t, &fakeCoach{}, nil)
	sess := env.createSession(t)
	path := "/sessions/" + sess.SessionID.String() + "/chat"

	w := env.do(t, http.MethodPost, path, sess.Token, `{"message": "I am a CTO"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[chatResponse](t, w)
	assert.Equal(t, "echo: I am a CTO", resp.Reply)
	require.NotNil(t, resp.State)
	assert.Equal(t, 2, resp.State.OnboardingStep)

	w = env.do(t, http.MethodPost, path, sess.Token, `{"message": "   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, path, sess.Token, `{"message":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChat_AppendsComponents(t *testing.T) {
	env := newTestEnv(t, &fakeCoach{calls: []tools.Request{
		tools.SearchJobsArgs{Role: strPtr("cfo")},
		tools.JobStatsArgs{},
	}}, nil)
	sess := env.createSession(t)

	w := env.do(t, http.MethodPost, "/sessions/"+sess.SessionID.String()+"/chat", sess.Token, `{"message": "show me CFO roles"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[struct {
		Reply      string           `json:"reply"`
		Components []map[string]any `json:"components"`
	}](t, w)

	text, payload, found := strings.Cut(resp.Reply, a2ui.Delimiter)
	require.True(t, found, resp.Reply)
	assert.Equal(t, "echo: show me CFO roles", strings.TrimSpace(text))

	var doc a2ui.Payload
	require.NoError(t, json.Unmarshal([]byte(payload), &doc))
	require.Len(t, doc.Components, 3)
	assert.Equal(t, "Card", doc.Components[0].SurfaceUpdate.Component)
	assert.Equal(t, "Card", doc.Components[1].SurfaceUpdate.Component)
	assert.Equal(t, "Chart", doc.Components[2].SurfaceUpdate.Component)
	assert.Len(t, resp.Components, 3)
}

func TestChat_PlainReplyWithoutComponents(t *testing.T) {
	env := newTestEnv(t, &fakeCoach{calls: []tools.Request{tools.ShowVisualizationArgs{VisualizationType: "profile"}}}, nil)
	sess := env.createSession(t)

	w := env.do(t, http.MethodPost, "/sessions/"+sess.SessionID.String()+"/chat", sess.Token, `{"message": "hi"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, "echo: hi", resp["reply"])
	assert.NotContains(t, resp, "components")
}

func TestChat_ModelFailure(t *testing.T) {
	env := newTestEnv(t, &fakeCoach{err: errors.New("upstream exploded")}, nil)
	sess := env.createSession(t)

	w := env.do(t, http.MethodPost, "/sessions/"+sess.SessionID.String()+"/chat", sess.Token, `{"message": "hi"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "upstream exploded")
}

// readEvents parses an SSE body into event name and data pairs
func readEvents(t *testing.T, body string) [][2]string {
	t.Helper()
	var events [][2]string
	var name string
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			events = append(events, [2]string{name, strings.TrimPrefix(line, "data: ")})
		}
	}
	require.NoError(t, scanner.Err())
	return events
}

func TestChatStream(t *testing.T) {
	env := newTestEnv(t, &fakeCoach{}, nil)
	sess := env.createSession(t)

	w := env.do(t, http.MethodPost, "/sessions/"+sess.SessionID.String()+"/chat/stream", sess.Token, `{"message": "hello"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	events := readEvents(t, w.Body.String())
	require.Len(t, events, 2)

	assert.Equal(t, eventTool, events[0][0])
	var ev agent.ToolEvent
	require.NoError(t, json.Unmarshal([]byte(events[0][1]), &ev))
	assert.Equal(t, tools.NameAdvanceOnboarding, ev.Tool)
	require.NotNil(t, ev.State)
	assert.Equal(t, 2, ev.State.OnboardingStep)

	assert.Equal(t, eventComplete, events[1][0])
	var done chatResponse
	require.NoError(t, json.Unmarshal([]byte(events[1][1]), &done))
	assert.Equal(t, "echo: hello", done.Reply)
}

func TestChatStream_ErrorEvent(t *testing.T) {
	env := newTestEnv(t, &fakeCoach{err: fmt.Errorf("wrapped: %w", session.ErrNotFound)}, nil)
	sess := env.createSession(t)

	w := env.do(t, http.MethodPost, "/sessions/"+sess.SessionID.String()+"/chat/stream", sess.Token, `{"message": "hello"}`)
	require.Equal(t, http.StatusOK, w.Code)

	events := readEvents(t, w.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, eventError, events[0][0])
	var body errorBody
	require.NoError(t, json.Unmarshal([]byte(events[0][1]), &body))
	assert.Equal(t, http.StatusNotFound, body.Status)
}

func TestJobsEndpoints(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	w := env.do(t, http.MethodGet, "/api/stats", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody[statsResponse](t, w)
	assert.Equal(t, 2, stats.Stats.TotalJobs)
	assert.Equal(t, "Chart", stats.Chart.SurfaceUpdate.Component)
	assert.Contains(t, stats.Summary, "Remote Opportunities: 1")

	w = env.do(t, http.MethodGet, "/api/jobs/job-2", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	job := decodeBody[db.JobRecord](t, w)
	assert.Equal(t, "Interim CTO", job.Title)

	w = env.do(t, http.MethodGet, "/api/jobs/missing", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	env := newTestEnv(t, nil, &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Rules: []ratelimit.Rule{
			{Bucket: "create_session", Path: "/sessions", Method: "POST", Limit: 2, Window: time.Hour, Burst: 2},
		},
	})

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, "/sessions", "", "")
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := env.do(t, http.MethodPost, "/sessions", "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decodeBody[map[string]any](t, w)["error"])

	w = env.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware_ToolsPerSession(t *testing.T) {
	env := newTestEnv(t, nil, &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Rules: []ratelimit.Rule{
			{Bucket: "tools", Path: "/sessions/*/tools/*", Method: "POST", Scope: ratelimit.ScopeSession, Limit: 1, Window: time.Hour},
		},
	})
	first := env.createSession(t)
	second := env.createSession(t)
	toolPath := func(sess createSessionResponse) string {
		return "/sessions/" + sess.SessionID.String() + "/tools/get_job_stats"
	}

	w := env.do(t, http.MethodPost, toolPath(first), first.Token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = env.do(t, http.MethodPost, toolPath(first), first.Token, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = env.do(t, http.MethodPost, toolPath(second), second.Token, "")
	assert.Equal(t, http.StatusOK, w.Code, "sessions from one address are limited separately")

	w = env.do(t, http.MethodPost, toolPath(first), "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "unauthenticated calls are rejected before taking a token")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: &ErrValidation{Field: "id", Message: "bad"}, want: http.StatusBadRequest},
		{name: "wrapped validation", err: fmt.Errorf("outer: %w", &ErrValidation{}), want: http.StatusBadRequest},
		{name: "empty message", err: agent.ErrEmptyMessage, want: http.StatusBadRequest},
		{name: "domain validation", err: &types.ValidationError{}, want: http.StatusBadRequest},
		{name: "schema validation", err: &schemas.ValidationError{Schema: "search_jobs"}, want: http.StatusBadRequest},
		{name: "job not found", err: &ErrJobNotFound{ID: "x"}, want: http.StatusNotFound},
		{name: "session not found", err: session.ErrNotFound, want: http.StatusNotFound},
		{name: "unknown tool", err: fmt.Errorf("%w: x", tools.ErrUnknownTool), want: http.StatusNotFound},
		{name: "mismatch", err: ErrSessionMismatch, want: http.StatusForbidden},
		{name: "chat unavailable", err: ErrChatUnavailable, want: http.StatusServiceUnavailable},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
