// Package server provides the HTTP API for the career coach.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/career-coach/internal/agent"
	"github.com/jonathan/career-coach/internal/session"
	"github.com/jonathan/career-coach/internal/tools"
)

var (
	// ErrSessionMismatch indicates the bearer token belongs to another session
	ErrSessionMismatch = errors.New("token does not grant access to this session")

	// ErrChatUnavailable indicates the server runs without a model client
	ErrChatUnavailable = errors.New("chat is not configured on this server")
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrJobNotFound indicates no job has the requested ID
type ErrJobNotFound struct {
	ID string
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job not found: %s", e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		notFound   *ErrJobNotFound
	)
	switch {
	case errors.As(err, &validation),
		tools.IsInvalidArguments(err),
		errors.Is(err, agent.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.As(err, &notFound),
		errors.Is(err, session.ErrNotFound),
		errors.Is(err, tools.ErrUnknownTool):
		return http.StatusNotFound
	case errors.Is(err, ErrSessionMismatch):
		return http.StatusForbidden
	case errors.Is(err, ErrChatUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
