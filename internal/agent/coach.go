// Package agent runs conversational turns of the career coach: the model
// reads the session, calls tools against it and answers the user.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/llm"
	"github.com/jonathan/career-coach/internal/logger"
	"github.com/jonathan/career-coach/internal/prompts"
	"github.com/jonathan/career-coach/internal/session"
	"github.com/jonathan/career-coach/internal/tools"
	"github.com/jonathan/career-coach/internal/types"
)

// DefaultMaxToolRounds bounds how many times the model may call tools in one turn
const DefaultMaxToolRounds = 6

// ErrEmptyMessage is returned when the user message is blank
var ErrEmptyMessage = errors.New("message is empty")

// ToolEvent describes one tool call made during a turn
type ToolEvent struct {
	Tool   string              `json:"tool"`
	Args   map[string]any      `json:"args"`
	Result any                 `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
	State  *types.SessionState `json:"state"`
}

// ToolObserver is notified after every tool call
type ToolObserver func(ToolEvent)

// Coach drives the conversation
type Coach struct {
	client    llm.Client
	toolbox   *tools.Toolbox
	logger    *zap.Logger
	maxRounds int
	tier      llm.ModelTier

	instructions string
	contextTmpl  string
	limitReply   string
	functions    []*genai.FunctionDeclaration
}

// Option configures a Coach
type Option func(*Coach)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coach) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxToolRounds overrides DefaultMaxToolRounds
func WithMaxToolRounds(n int) Option {
	return func(c *Coach) {
		if n > 0 {
			c.maxRounds = n
		}
	}
}

// WithTier selects the model tier used for chat
func WithTier(tier llm.ModelTier) Option {
	return func(c *Coach) {
		c.tier = tier
	}
}

// NewCoach creates a coach using the embedded coach prompts
func NewCoach(client llm.Client, toolbox *tools.Toolbox, opts ...Option) (*Coach, error) {
	p, err := prompts.LoadCoach()
	if err != nil {
		return nil, err
	}

	defs := tools.Definitions()
	functions := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, def := range defs {
		functions = append(functions, llm.FunctionDeclaration(def.Name, def.Description, def.Parameters))
	}

	c := &Coach{
		client:       client,
		toolbox:      toolbox,
		logger:       zap.NewNop(),
		maxRounds:    DefaultMaxToolRounds,
		tier:         llm.TierStandard,
		instructions: p.SystemInstructions,
		contextTmpl:  p.SessionContext,
		limitReply:   p.ToolLimitReached,
		functions:    functions,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Reply runs one user turn against sess and returns the coach's answer.
// The caller must hold the session lock; sess.State and sess.History are
// updated in place.
func (c *Coach) Reply(ctx context.Context, sess *session.Session, message string, observe ToolObserver) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if sess.State == nil {
		sess.State = types.NewSessionState()
	}

	log := c.logger.With(zap.String("session_id", sess.ID.String()))
	log.Info("chat turn", zap.String("message", logger.Truncate(message, 120)))

	chat, err := c.client.StartChat(llm.ChatRequest{
		Tier:              c.tier,
		SystemInstruction: c.systemInstruction(sess.State),
		Functions:         c.functions,
		History:           sess.History,
	})
	if err != nil {
		return "", err
	}

	resp, err := chat.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", err
	}

	for round := 0; ; round++ {
		calls := llm.FunctionCalls(resp)
		if len(calls) == 0 {
			reply, err := llm.ResponseText(resp)
			if err != nil {
				return "", err
			}
			sess.History = chat.History()
			log.Debug("chat turn completed", zap.Int("tool_rounds", round))
			return reply, nil
		}

		if round >= c.maxRounds {
			log.Warn("tool round limit reached", zap.Int("rounds", round))
			sess.History = closeHistory(chat.History(), c.limitReply)
			return c.limitReply, nil
		}

		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			event := c.runTool(ctx, sess.State, call)
			log.Debug("tool called",
				zap.String("tool", event.Tool),
				zap.String("error", event.Error))
			if observe != nil {
				observe(event)
			}
			parts = append(parts, genai.FunctionResponse{
				Name:     call.Name,
				Response: responsePayload(event),
			})
		}

		resp, err = chat.SendMessage(ctx, parts...)
		if err != nil {
			return "", err
		}
	}
}

func (c *Coach) runTool(ctx context.Context, state *types.SessionState, call genai.FunctionCall) ToolEvent {
	event := ToolEvent{Tool: call.Name, Args: call.Args}

	req, err := tools.DecodeMap(call.Name, call.Args)
	if err == nil {
		event.Result, err = c.toolbox.Dispatch(ctx, state, req)
	}
	if err != nil {
		event.Error = err.Error()
	}
	event.State = state.Clone()
	return event
}

func (c *Coach) systemInstruction(state *types.SessionState) string {
	return c.instructions + "\n\n" + prompts.Format(c.contextTmpl, sessionContext(state))
}

func sessionContext(state *types.SessionState) map[string]string {
	data := map[string]string{
		"OnboardingStep":     strconv.Itoa(state.OnboardingStep),
		"OnboardingComplete": strconv.FormatBool(state.OnboardingComplete),
		"Name":               "unknown",
		"TargetRoles":        "none",
		"Locations":          "none",
		"SkillCount":         "0",
		"ExperienceCount":    "0",
		"CurrentRole":        "none",
		"LastSearch":         "none",
	}
	if p := state.UserProfile; p != nil {
		if p.Name != nil && *p.Name != "" {
			data["Name"] = *p.Name
		}
		if p.Preferences != nil {
			if len(p.Preferences.TargetRoles) > 0 {
				data["TargetRoles"] = strings.Join(p.Preferences.TargetRoles, ", ")
			}
			if len(p.Preferences.Locations) > 0 {
				data["Locations"] = strings.Join(p.Preferences.Locations, ", ")
			}
		}
		data["SkillCount"] = strconv.Itoa(len(p.Skills))
		data["ExperienceCount"] = strconv.Itoa(len(p.Experiences))
		var current []string
		for i := range p.Experiences {
			if e := &p.Experiences[i]; e.IsCurrent() {
				current = append(current, e.Role+" at "+e.Company)
			}
		}
		if len(current) > 0 {
			data["CurrentRole"] = strings.Join(current, "; ")
		}
	}
	if state.LastSearchQuery != nil {
		data["LastSearch"] = *state.LastSearchQuery
	}
	return data
}

// responsePayload converts a tool outcome into the object Gemini expects as
// a function response
func responsePayload(event ToolEvent) map[string]any {
	if event.Error != "" {
		return map[string]any{"error": event.Error}
	}

	data, err := json.Marshal(event.Result)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to encode result: %v", err)}
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to encode result: %v", err)}
	}
	if obj, ok := decoded.(map[string]any); ok {
		return obj
	}
	return map[string]any{"result": decoded}
}

// closeHistory replaces a trailing model turn that still requests function
// calls with a plain text answer so the next turn starts from a valid history
func closeHistory(history []*genai.Content, reply string) []*genai.Content {
	if n := len(history); n > 0 && history[n-1].Role == "model" {
		history = history[:n-1]
	}
	return append(history, &genai.Content{
		Role:  "model",
		Parts: []genai.Part{genai.Text(reply)},
	})
}
