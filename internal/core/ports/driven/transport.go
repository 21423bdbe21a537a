package driven

import (
	"context"
	"net/http"
	"net/url"
)

// Request is a single call against the directory API.
type Request struct {
	// Method is the HTTP method. Empty means GET.
	Method string
	// Path is appended to the transport's base URL, e.g. "/users".
	Path string
	// Query holds URL query parameters for Path.
	Query url.Values
	// URL, when set, is used verbatim instead of Path and Query.
	// Continuation links are replayed through this field.
	URL string
	// Header holds extra request headers such as ConsistencyLevel.
	Header http.Header
}

// Response is a successful directory response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport issues authenticated requests against the directory API.
// Non-success statuses are returned as errors already classified into
// the domain taxonomy. Implementations must be safe for concurrent use.
type Transport interface {
	Do(ctx context.Context, req Request) (*Response, error)
}
