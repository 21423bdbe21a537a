package microsoft

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
)

// StatusError is a non-success response from Microsoft Graph.
// It unwraps to the domain sentinel chosen by Classify.
type StatusError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Code is the Graph error code, e.g. "Request_UnsupportedQuery".
	Code string
	// Message is the Graph error message.
	Message string
	// RetryAfter is the server-requested delay, zero if none was sent.
	RetryAfter time.Duration

	kind error
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "graph: %s: status %d", e.kind, e.StatusCode)
	if e.Code != "" {
		fmt.Fprintf(&b, " (%s)", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Unwrap returns the domain sentinel.
func (e *StatusError) Unwrap() error {
	return e.kind
}

// RequestError is a failure to obtain any response from Microsoft Graph:
// a network error, a timeout, or a cancelled context.
// It always unwraps to domain.ErrTransient as well as the cause.
type RequestError struct {
	Err error
	// Retryable is false when the caller's context ended.
	Retryable bool
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("graph: %s: %v", domain.ErrTransient, e.Err)
}

// Unwrap returns the transient sentinel and the underlying cause.
func (e *RequestError) Unwrap() []error {
	return []error{domain.ErrTransient, e.Err}
}

// Classify converts an HTTP status code to a domain sentinel.
// Returns nil for non-error statuses.
func Classify(statusCode int) error {
	switch {
	case statusCode < http.StatusBadRequest:
		return nil
	case IsUnauthorised(statusCode):
		return domain.ErrAuth
	case IsNotFound(statusCode):
		return domain.ErrNotFound
	case IsRetryable(statusCode):
		return domain.ErrTransient
	default:
		return domain.ErrUpstream
	}
}

// IsUnauthorised checks if the status code indicates an authentication failure.
func IsUnauthorised(statusCode int) bool {
	return statusCode == http.StatusUnauthorized
}

// IsRateLimited checks if the status code indicates rate limiting.
func IsRateLimited(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests
}

// IsNotFound checks if the status code indicates a missing resource.
func IsNotFound(statusCode int) bool {
	return statusCode == http.StatusNotFound
}

// IsRetryable checks if the status code is potentially transient and can be retried.
func IsRetryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusBadGateway ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout
}

// IsBadRequest reports whether err is a Graph 400 response. Graph answers
// 400 when an advanced query such as $search is unsupported for a request.
func IsBadRequest(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusBadRequest
}

// newStatusError builds a StatusError from a failed response.
func newStatusError(statusCode int, header http.Header, body []byte) *StatusError {
	se := &StatusError{
		StatusCode: statusCode,
		RetryAfter: parseRetryAfter(header.Get("Retry-After"), time.Now()),
		kind:       Classify(statusCode),
	}
	if se.kind == nil {
		se.kind = domain.ErrUpstream
	}

	var graphErr struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &graphErr); err == nil {
		se.Code = graphErr.Error.Code
		se.Message = graphErr.Error.Message
	}
	return se
}

// parseRetryAfter reads a Retry-After value in delta-seconds or HTTP-date form.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
