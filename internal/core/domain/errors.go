package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for directory operations.
// Every failure returned by the engine wraps exactly one of these.
var (
	// ErrAuth indicates the credential is invalid, expired, or could not be obtained.
	ErrAuth = errors.New("authentication failed")

	// ErrNotFound indicates an identifier resolved to no directory object.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous indicates an identifier resolved to several objects
	// where exactly one was required.
	ErrAmbiguous = errors.New("ambiguous identifier")

	// ErrUpstream indicates the directory rejected the request with a
	// non-retriable status.
	ErrUpstream = errors.New("upstream error")

	// ErrTransient indicates a timeout, cancellation, or rate limiting that
	// persisted after retries.
	ErrTransient = errors.New("transient error")

	// ErrInvalidInput indicates caller-supplied parameters are unusable.
	ErrInvalidInput = errors.New("invalid input")
)

// ErrorKind is the stable, machine-readable name of an error class.
type ErrorKind string

// Error kinds reported to tool callers.
const (
	KindAuth         ErrorKind = "auth_error"
	KindNotFound     ErrorKind = "not_found"
	KindAmbiguous    ErrorKind = "ambiguous"
	KindUpstream     ErrorKind = "upstream_error"
	KindTransient    ErrorKind = "transient_error"
	KindInvalidInput ErrorKind = "invalid_input"
	KindInternal     ErrorKind = "internal_error"
)

// KindOf maps an error onto the taxonomy. Unclassified errors are internal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuth):
		return KindAuth
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAmbiguous):
		return KindAmbiguous
	case errors.Is(err, ErrTransient):
		return KindTransient
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindInternal
	}
}

// Candidate is one of several objects an ambiguous identifier matched.
type Candidate struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// AmbiguousError reports every candidate an identifier matched.
type AmbiguousError struct {
	Identifier string
	Kind       ObjectKind
	Candidates []Candidate
}

// Error implements the error interface.
func (e *AmbiguousError) Error() string {
	names := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		names = append(names, fmt.Sprintf("%s (%s)", c.DisplayName, c.ID))
	}
	return fmt.Sprintf("%s: %s %q matches %d objects: %s",
		ErrAmbiguous, e.Kind, e.Identifier, len(e.Candidates), strings.Join(names, ", "))
}

// Is reports whether target is ErrAmbiguous.
func (e *AmbiguousError) Is(target error) bool {
	return target == ErrAmbiguous
}
