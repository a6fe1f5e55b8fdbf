package processor

import "fmt"

// ConfigurationError is fatal: AI analysis is required but not configured,
// and fallback was explicitly disabled.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("analysis not configured: %s", e.Reason)
}

// AnalysisFailed carries the subject ("team" or an employee name) and the
// underlying cause when AI-only mode fails without fallback.
type AnalysisFailed struct {
	Subject string
	Cause   error
}

func (e *AnalysisFailed) Error() string {
	return fmt.Sprintf("analysis failed for %s: %v", e.Subject, e.Cause)
}

func (e *AnalysisFailed) Unwrap() error {
	return e.Cause
}
