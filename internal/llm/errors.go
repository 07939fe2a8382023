package llm

import (
	"fmt"
	"time"

	"menulens/internal/schema"
)

var (
	ErrMissingAPIKey = fmt.Errorf("missing GEMINI_API_KEY")
	ErrEmptyResponse = fmt.Errorf("empty response from model")
	ErrInvalidJSON   = fmt.Errorf("model did not return valid JSON")
)

// RateLimitError signals the completion service asked us to slow down.
// RetryAfter is zero when the server gave no hint.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// ValidationError carries the per-field issues plus the raw model text
// for diagnosis. It is an expected outcome, never retried.
type ValidationError struct {
	Issues []schema.Issue
	Raw    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("menu validation failed with %d issue(s)", len(e.Issues))
}
