package slacknet

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"
)

// DefaultRetryPolicy reports whether a call that failed with err is worth
// repeating. [Client] never retries on its own; callers that want retries
// can use this together with [RetryAfter].
//
// Rate limits, 5xx responses, Slack's transient error codes and connection
// errors are retryable. Context cancellation, deadline exceeded and DNS
// resolution failures are not.
func DefaultRetryPolicy(err error) bool {
	if err == nil {
		return false
	}

	// Don't retry on context cancellation or deadline exceeded
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Don't retry on DNS resolution errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return false
	}

	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return true
	}

	var requestErr *RequestFailedError
	if errors.As(err, &requestErr) {
		return requestErr.StatusCode >= 500
	}

	var slackErr *SlackError
	if errors.As(err, &slackErr) {
		switch slackErr.Code {
		case "ratelimited", "internal_error", "fatal_error", "service_unavailable", "request_timeout":
			return true
		}
		return false
	}

	// Retry on other connection errors
	var urlErr *url.Error
	var netErr net.Error
	return errors.As(err, &urlErr) || errors.As(err, &netErr)
}

// RetryAfter returns how long Slack asked the caller to wait, if err is a
// *RateLimitError carrying a Retry-After value.
func RetryAfter(err error) (time.Duration, bool) {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) && rateLimitErr.RetryAfter != nil {
		return *rateLimitErr.RetryAfter, true
	}
	return 0, false
}
