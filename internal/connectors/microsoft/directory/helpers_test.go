package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/custodia-labs/entra-directory/internal/connectors/microsoft"
	"github.com/custodia-labs/entra-directory/internal/core/ports/driven"
)

// fakeTransport implements driven.Transport and records every request.
type fakeTransport struct {
	mu       sync.Mutex
	requests []driven.Request
	respond  func(call int, req driven.Request) (*driven.Response, error)
}

func (f *fakeTransport) Do(_ context.Context, req driven.Request) (*driven.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	call := len(f.requests)
	f.mu.Unlock()
	return f.respond(call, req)
}

func (f *fakeTransport) Requests() []driven.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]driven.Request(nil), f.requests...)
}

// listingBody encodes a Graph collection page. A negative count omits @odata.count.
func listingBody(values []map[string]any, nextLink string, count int) []byte {
	body := map[string]any{"value": values}
	if nextLink != "" {
		body["@odata.nextLink"] = nextLink
	}
	if count >= 0 {
		body["@odata.count"] = count
	}
	data, _ := json.Marshal(body)
	return data
}

func okResponse(body []byte) *driven.Response {
	return &driven.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: body}
}

func users(prefix string, n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = map[string]any{
			"id":                fmt.Sprintf("%s-%d", prefix, i),
			"displayName":       fmt.Sprintf("User %s %d", prefix, i),
			"userPrincipalName": fmt.Sprintf("%s%d@example.com", prefix, i),
		}
	}
	return out
}

func typed(odataType string, obj map[string]any) map[string]any {
	obj["@odata.type"] = odataType
	return obj
}

// staticToken implements driven.TokenProvider.
type staticToken string

func (s staticToken) GetToken(context.Context) (string, error) { return string(s), nil }

// graphFake is an httptest Microsoft Graph reached through a real client.
type graphFake struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []*http.Request
}

func newGraphFake(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, path string)) *graphFake {
	t.Helper()
	g := &graphFake{}
	g.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.requests = append(g.requests, r.Clone(context.Background()))
		g.mu.Unlock()
		handler(w, r, strings.TrimPrefix(r.URL.Path, "/v1.0"))
	}))
	t.Cleanup(g.server.Close)
	return g
}

func (g *graphFake) link(path string, query url.Values) string {
	return g.server.URL + "/v1.0" + path + "?" + query.Encode()
}

func (g *graphFake) Requests() []*http.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*http.Request(nil), g.requests...)
}

func (g *graphFake) Paths() []string {
	var paths []string
	for _, r := range g.Requests() {
		paths = append(paths, strings.TrimPrefix(r.URL.Path, "/v1.0"))
	}
	return paths
}

func (g *graphFake) client() *microsoft.Client {
	return microsoft.NewClient(staticToken("test-token"), microsoft.ClientConfig{
		BaseURL:    g.server.URL + "/v1.0",
		HTTPClient: g.server.Client(),
		Retry: microsoft.RetryConfig{
			MaxAttempts:       2,
			InitialBackoff:    time.Millisecond,
			MaxBackoff:        2 * time.Millisecond,
			BackoffMultiplier: 2.0,
			MaxRetryAfter:     5 * time.Millisecond,
		},
		RateLimiter: microsoft.NewRateLimiterWithConfig(microsoft.RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 100}),
	})
}

func writeListing(w http.ResponseWriter, values []map[string]any, nextLink string, count int) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(listingBody(values, nextLink, count))
}

func writeGraphError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
