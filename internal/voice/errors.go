// Package voice turns a user's blog corpus into a structured style profile,
// either by local heuristics or by delegating to the external generator.
package voice

import "fmt"

// EmptyCorpusError indicates there was no text to analyze.
type EmptyCorpusError struct{}

func (e *EmptyCorpusError) Error() string {
	return "corpus is empty: nothing to analyze"
}

// StyleAnalysisError indicates synthesis produced unusable output.
// It is non-retryable at this layer; the caller decides whether to re-invoke.
type StyleAnalysisError struct {
	Message string
	Cause   error
}

func (e *StyleAnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("style analysis error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("style analysis error: %s", e.Message)
}

func (e *StyleAnalysisError) Unwrap() error {
	return e.Cause
}
