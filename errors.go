package slacknet

import (
	"fmt"
	"strings"
	"time"
)

// RateLimitError is returned when Slack answers with HTTP 429. RetryAfter
// is nil when the response carried no usable Retry-After header.
type RateLimitError struct {
	RetryAfter *time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter == nil {
		return "rate limited by Slack"
	}
	return fmt.Sprintf("rate limited by Slack, retry after %s", *e.RetryAfter)
}

// RequestFailedError is returned for any non-2xx response other than 429.
type RequestFailedError struct {
	StatusCode int
	Reason     string
	Body       string
}

func (e *RequestFailedError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		body = "(empty error body)"
	}
	return fmt.Sprintf("request failed with status %d %s: %s", e.StatusCode, e.Reason, body)
}

// SlackError is returned when a call succeeds at the HTTP level but the
// response has "ok": false.
type SlackError struct {
	Method   string
	Code     string
	Messages []string
	Warnings []string

	// Needed and Provided list scopes for missing_scope errors.
	Needed   string
	Provided string
}

func (e *SlackError) Error() string {
	msg := fmt.Sprintf("slack API error calling %s: %s", e.Method, e.Code)
	if len(e.Messages) > 0 {
		msg += " (" + strings.Join(e.Messages, "; ") + ")"
	}
	return msg
}
