package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/a2ui"
	"github.com/jonathan/career-coach/internal/agent"
	"github.com/jonathan/career-coach/internal/db"
	"github.com/jonathan/career-coach/internal/server/middleware"
	"github.com/jonathan/career-coach/internal/session"
	"github.com/jonathan/career-coach/internal/tools"
	"github.com/jonathan/career-coach/internal/types"
)

// maxBodyBytes bounds tool and chat request bodies
const maxBodyBytes = 1 << 20

type createSessionResponse struct {
	SessionID uuid.UUID           `json:"session_id"`
	Token     string              `json:"token"`
	State     *types.SessionState `json:"state"`
}

type toolResponse struct {
	Result     any                 `json:"result"`
	State      *types.SessionState `json:"state"`
	Summary    string              `json:"summary,omitempty"`
	Components []a2ui.Component    `json:"components,omitempty"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply      string              `json:"reply"`
	State      *types.SessionState `json:"state"`
	Components []a2ui.Component    `json:"components,omitempty"`
}

// turnComponents collects the UI components produced by the tool calls of
// one chat turn. A later search replaces the cards of an earlier one.
type turnComponents struct {
	cards []a2ui.Component
	chart []a2ui.Component
}

func (tc *turnComponents) observe(ev agent.ToolEvent) {
	if ev.Error != "" {
		return
	}
	switch result := ev.Result.(type) {
	case []types.JobMatch:
		tc.cards = a2ui.JobCards(result)
	case db.JobStats:
		tc.chart = []a2ui.Component{a2ui.StatsChart(result)}
	}
}

func (tc *turnComponents) all() []a2ui.Component {
	out := make([]a2ui.Component, 0, len(tc.cards)+len(tc.chart))
	out = append(out, tc.cards...)
	return append(out, tc.chart...)
}

// respond builds the chat response, appending the turn's components to the
// reply text
func (tc *turnComponents) respond(reply string, state *types.SessionState) (chatResponse, error) {
	components := tc.all()
	text, err := a2ui.Render(reply, components...)
	if err != nil {
		return chatResponse{}, err
	}
	resp := chatResponse{Reply: text, State: state}
	if len(components) > 0 {
		resp.Components = components
	}
	return resp, nil
}

// handleCreateSession creates a session and the token that grants access to it
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, state := s.sessions.Create()

	token, err := s.jwtService.GenerateToken(id)
	if err != nil {
		_ = s.sessions.Delete(id)
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("session created", zap.String("session_id", id.String()))
	s.jsonResponse(w, http.StatusCreated, createSessionResponse{
		SessionID: id,
		Token:     token,
		State:     state,
	})
}

// authorizedSession returns the session named in the path once the bearer
// token has been checked against it
func (s *Server) authorizedSession(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}

	tokenID, err := middleware.GetSessionID(r)
	if err != nil || tokenID != id {
		return uuid.Nil, ErrSessionMismatch
	}
	return id, nil
}

// handleGetState returns the full session state
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	id, err := s.authorizedSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	state, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, state)
}

// handleDeleteSession ends a session
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.authorizedSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.sessions.Delete(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTool decodes and dispatches a single tool call
func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	id, err := s.authorizedSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}

	req, err := tools.Decode(r.PathValue("tool"), body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var resp toolResponse
	err = s.sessions.Update(id, func(sess *session.Session) error {
		result, err := s.toolbox.Dispatch(r.Context(), sess.State, req)
		if err != nil {
			return err
		}
		resp = toolResponse{Result: result, State: sess.State.Clone()}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	decorate(&resp, req)
	s.jsonResponse(w, http.StatusOK, resp)
}

// decorate attaches the UI components that accompany search and stats results
func decorate(resp *toolResponse, req tools.Request) {
	switch r := req.(type) {
	case tools.SearchJobsArgs:
		matches := resp.State.JobMatches
		resp.Summary = a2ui.SearchSummary(deref(r.Role), deref(r.Location), matches)
		resp.Components = a2ui.JobCards(matches)
	case tools.JobStatsArgs:
		if stats, ok := resp.Result.(db.JobStats); ok {
			resp.Summary = a2ui.StatsSummary(stats)
			resp.Components = []a2ui.Component{a2ui.StatsChart(stats)}
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// readChatRequest parses and checks the chat body before any output is written
func (s *Server) readChatRequest(r *http.Request) (chatRequest, error) {
	if s.coach == nil {
		return chatRequest{}, ErrChatUnavailable
	}

	var req chatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return chatRequest{}, &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if strings.TrimSpace(req.Message) == "" {
		return chatRequest{}, agent.ErrEmptyMessage
	}
	return req, nil
}

// handleChat runs one conversational turn
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	id, err := s.authorizedSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := s.readChatRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var resp chatResponse
	err = s.sessions.Update(id, func(sess *session.Session) error {
		var tc turnComponents
		reply, err := s.coach.Reply(r.Context(), sess, req.Message, tc.observe)
		if err != nil {
			return err
		}
		resp, err = tc.respond(reply, sess.State.Clone())
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleChatStream runs one conversational turn and streams every tool call
// with the state it produced, followed by the final reply
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	id, err := s.authorizedSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := s.readChatRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.sessions.Get(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	var resp chatResponse
	err = s.sessions.Update(id, func(sess *session.Session) error {
		var tc turnComponents
		observe := func(ev agent.ToolEvent) {
			tc.observe(ev)
			if err := sse.WriteEvent(eventTool, ev); err != nil {
				s.logger.Debug("failed to write tool event", zap.Error(err))
			}
		}
		reply, err := s.coach.Reply(r.Context(), sess, req.Message, observe)
		if err != nil {
			return err
		}
		resp, err = tc.respond(reply, sess.State.Clone())
		return err
	})
	if err != nil {
		if r.Context().Err() != nil {
			// client went away
			return
		}
		status := HTTPStatus(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			s.logger.Error("chat turn failed", zap.String("session_id", id.String()), zap.Error(err))
			msg = "internal server error"
		}
		sse.WriteError(status, msg)
		return
	}
	sse.WriteComplete(resp)
}
