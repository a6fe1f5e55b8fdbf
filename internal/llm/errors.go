package llm

import "errors"

// The completion client surfaces each failure class as a distinguishable
// sentinel so the orchestrator's fallback policy can act on it.
var (
	ErrTimeout            = errors.New("llm: request timed out")
	ErrInvalidCredentials = errors.New("llm: invalid credentials")
	ErrRateLimited        = errors.New("llm: rate limited")
	ErrServiceUnavailable = errors.New("llm: service unavailable")
	ErrRequestFailed      = errors.New("llm: request failed")
	ErrTransport          = errors.New("llm: transport failure")
	ErrEmptyCompletion    = errors.New("llm: empty completion")
)
