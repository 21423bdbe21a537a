package microsoft

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
	"github.com/custodia-labs/entra-directory/internal/core/ports/driven"
	"github.com/custodia-labs/entra-directory/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Transport = (*Client)(nil)

// GraphBaseURL is the Microsoft Graph v1.0 endpoint.
const GraphBaseURL = "https://graph.microsoft.com/v1.0"

// MaxResponseSize is the largest response body read from Graph (10MB).
const MaxResponseSize = 10 * 1024 * 1024

// ClientConfig configures a Graph client.
type ClientConfig struct {
	// BaseURL overrides GraphBaseURL, e.g. for national clouds.
	BaseURL string
	// HTTPClient overrides the default client with a 30 second timeout.
	HTTPClient *http.Client
	// Retry is the retry policy. Zero value uses DefaultRetryConfig.
	Retry RetryConfig
	// RateLimiter is shared by every request. Nil creates a default one.
	RateLimiter *RateLimiter
}

// Client issues authenticated requests against Microsoft Graph.
// It is safe for concurrent use.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
	retry         RetryConfig
}

// NewClient creates a Graph client authenticated by tokenProvider.
func NewClient(tokenProvider driven.TokenProvider, cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = GraphBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryConfig()
	}

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimiter = NewRateLimiter()
	}

	return &Client{
		baseURL:       baseURL,
		httpClient:    httpClient,
		tokenProvider: tokenProvider,
		rateLimiter:   rateLimiter,
		retry:         retry,
	}
}

// Do performs req, retrying throttled and unavailable responses.
// Failures are classified once, here, into the domain taxonomy.
func (c *Client) Do(ctx context.Context, req driven.Request) (*driven.Response, error) {
	target := c.buildURL(req)

	var lastErr error
	attempts := 0
	for attempts < max(c.retry.MaxAttempts, 1) {
		attempts++

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, &RequestError{Err: err}
		}

		resp, err := c.doOnce(ctx, req, target)
		if err == nil {
			return resp, nil
		}
		if !retryable(err) {
			return nil, err
		}
		lastErr = err

		if attempts >= c.retry.MaxAttempts {
			break
		}

		var retryAfter time.Duration
		var se *StatusError
		if errors.As(err, &se) {
			retryAfter = se.RetryAfter
		}
		delay := c.retry.delay(attempts, retryAfter)
		if se != nil && IsRateLimited(se.StatusCode) {
			c.rateLimiter.RecordRateLimitError(delay)
		}

		logger.Debug("graph: attempt %d for %s failed, retrying in %s: %v", attempts, req.Path, delay, err)
		if err := sleep(ctx, delay); err != nil {
			return nil, &RequestError{Err: err}
		}
	}

	logger.Warn("graph: giving up on %s after %d attempts: %v", req.Path, attempts, lastErr)
	return nil, &RetryExhaustedError{Attempts: attempts, LastError: lastErr}
}

// doOnce performs a single attempt.
func (c *Client) doOnce(ctx context.Context, req driven.Request, target string) (*driven.Response, error) {
	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &RequestError{Err: ctxErr}
		}
		if errors.Is(err, domain.ErrAuth) || errors.Is(err, domain.ErrTransient) {
			return nil, fmt.Errorf("get token: %w", err)
		}
		return nil, fmt.Errorf("%w: get token: %w", domain.ErrAuth, err)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrUpstream, err)
	}

	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &RequestError{Err: err, Retryable: ctx.Err() == nil}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("read response: %w", err), Retryable: ctx.Err() == nil}
	}

	if classified := Classify(resp.StatusCode); classified != nil {
		return nil, newStatusError(resp.StatusCode, resp.Header, body)
	}

	return &driven.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// buildURL resolves the request target. Continuation links are used verbatim.
func (c *Client) buildURL(req driven.Request) string {
	if req.URL != "" {
		return req.URL
	}
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		// OData system query options keep their literal "$" prefix.
		target += "?" + strings.ReplaceAll(req.Query.Encode(), "%24", "$")
	}
	return target
}

// retryable reports whether err may succeed on another attempt.
func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return IsRetryable(se.StatusCode)
	}
	var re *RequestError
	if errors.As(err, &re) {
		return re.Retryable
	}
	return false
}
