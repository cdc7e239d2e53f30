// Package providers implements schema.LLMProvider over raw HTTP for
// OpenAI-compatible chat-completion endpoints and the Anthropic Messages API.
package providers

import (
	"fmt"
	"strings"
)

// HTTPError is a non-2xx answer from the LLM endpoint.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.StatusCode == 429 {
		return fmt.Sprintf("HTTP %d: rate limit exceeded", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

func newHTTPError(code int, raw []byte) *HTTPError {
	s := strings.TrimSpace(string(raw))
	if len(s) > 300 {
		s = s[:300]
	}
	return &HTTPError{StatusCode: code, Body: s}
}
