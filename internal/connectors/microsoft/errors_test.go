package microsoft

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   error
	}{
		{name: "unauthorised", statusCode: http.StatusUnauthorized, expected: domain.ErrAuth},
		{name: "forbidden is upstream", statusCode: http.StatusForbidden, expected: domain.ErrUpstream},
		{name: "not found", statusCode: http.StatusNotFound, expected: domain.ErrNotFound},
		{name: "rate limited", statusCode: http.StatusTooManyRequests, expected: domain.ErrTransient},
		{name: "bad request", statusCode: http.StatusBadRequest, expected: domain.ErrUpstream},
		{name: "internal server error", statusCode: http.StatusInternalServerError, expected: domain.ErrUpstream},
		{name: "bad gateway", statusCode: http.StatusBadGateway, expected: domain.ErrTransient},
		{name: "service unavailable", statusCode: http.StatusServiceUnavailable, expected: domain.ErrTransient},
		{name: "gateway timeout", statusCode: http.StatusGatewayTimeout, expected: domain.ErrTransient},
		{name: "success returns nil", statusCode: http.StatusOK, expected: nil},
		{name: "no content returns nil", statusCode: http.StatusNoContent, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.statusCode))
		})
	}
}

func TestIsUnauthorised(t *testing.T) {
	assert.True(t, IsUnauthorised(http.StatusUnauthorized))
	assert.False(t, IsUnauthorised(http.StatusOK))
	assert.False(t, IsUnauthorised(http.StatusForbidden))
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(http.StatusTooManyRequests))
	assert.False(t, IsRateLimited(http.StatusOK))
	assert.False(t, IsRateLimited(http.StatusUnauthorized))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(http.StatusNotFound))
	assert.False(t, IsNotFound(http.StatusOK))
	assert.False(t, IsNotFound(http.StatusUnauthorized))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   bool
	}{
		{name: "rate limited is retryable", statusCode: http.StatusTooManyRequests, expected: true},
		{name: "bad gateway is retryable", statusCode: http.StatusBadGateway, expected: true},
		{name: "service unavailable is retryable", statusCode: http.StatusServiceUnavailable, expected: true},
		{name: "gateway timeout is retryable", statusCode: http.StatusGatewayTimeout, expected: true},
		{name: "unauthorised is not retryable", statusCode: http.StatusUnauthorized, expected: false},
		{name: "not found is not retryable", statusCode: http.StatusNotFound, expected: false},
		{name: "internal server error is not retryable", statusCode: http.StatusInternalServerError, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryable(tt.statusCode))
		})
	}
}

func TestNewStatusError_ParsesGraphBody(t *testing.T) {
	body := []byte(`{"error":{"code":"Request_UnsupportedQuery","message":"Unsupported query.","innerError":{"date":"x"}}}`)
	header := http.Header{}
	header.Set("Retry-After", "7")

	err := newStatusError(http.StatusBadRequest, header, body)

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "Request_UnsupportedQuery", err.Code)
	assert.Equal(t, "Unsupported query.", err.Message)
	assert.Equal(t, 7*time.Second, err.RetryAfter)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "status 400 (Request_UnsupportedQuery): Unsupported query.")
}

func TestNewStatusError_NonJSONBody(t *testing.T) {
	err := newStatusError(http.StatusServiceUnavailable, http.Header{}, []byte("<html>busy</html>"))

	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.Empty(t, err.Code)
	assert.Zero(t, err.RetryAfter)
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, 3*time.Second, parseRetryAfter("3", now))
	assert.Zero(t, parseRetryAfter("", now))
	assert.Zero(t, parseRetryAfter("-1", now))
	assert.Zero(t, parseRetryAfter("soon", now))
	assert.Equal(t, 10*time.Second, parseRetryAfter(now.Add(10*time.Second).Format(http.TimeFormat), now))
	assert.Zero(t, parseRetryAfter(now.Add(-time.Minute).Format(http.TimeFormat), now))
}

func TestIsBadRequest(t *testing.T) {
	bad := newStatusError(http.StatusBadRequest, http.Header{}, nil)
	forbidden := newStatusError(http.StatusForbidden, http.Header{}, nil)

	assert.True(t, IsBadRequest(bad))
	assert.True(t, IsBadRequest(fmt.Errorf("search users: %w", bad)))
	assert.False(t, IsBadRequest(forbidden))
	assert.False(t, IsBadRequest(errors.New("boom")))
}

func TestRequestError_Unwrap(t *testing.T) {
	err := &RequestError{Err: context.DeadlineExceeded}

	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, domain.KindTransient, domain.KindOf(err))
}
