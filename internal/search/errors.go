package search

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when a provider is called without a key.
	ErrMissingAPIKey = errors.New("api key not configured")
	// ErrUpstream marks failures reported by Groq, Duffel or a remote
	// travelchat server.
	ErrUpstream = errors.New("upstream request failed")
	// ErrEmptyQuery is returned for blank queries.
	ErrEmptyQuery = errors.New("query is empty")
)

// UpstreamError carries the status and body of a failed upstream call.
type UpstreamError struct {
	Service string
	Status  int
	Body    string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Service, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// maxErrorBody bounds how much of an upstream error body is kept.
const maxErrorBody = 512

func truncateBody(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody]) + "..."
	}
	return string(b)
}
