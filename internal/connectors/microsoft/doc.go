// Package microsoft provides the Microsoft Graph transport used by the
// directory engine.
//
// This package provides:
//   - Client, an authenticated Graph HTTP client with retry and rate limiting
//   - Status classification of Graph responses into the domain taxonomy
//   - ClientCredentials, an OAuth2 client-credentials token provider
//
// # Authentication
//
// The engine runs as a daemon application, so tokens are acquired with the
// client-credentials grant against the tenant-specific endpoint:
//   - Token URL: https://login.microsoftonline.com/{tenant}/oauth2/v2.0/token
//   - Scope: https://graph.microsoft.com/.default
//
// # Advanced Queries
//
// Directory $search and $count require the ConsistencyLevel: eventual header.
// Listing responses carry @odata.nextLink for the next page and, when
// requested, @odata.count with the total number of matches. Continuation
// links are opaque and are replayed verbatim.
//
// # Rate Limits
//
// Graph throttles with 429 Too Many Requests and a Retry-After header.
// Throttled and unavailable responses are retried a bounded number of times
// with exponential backoff; the shared rate limiter pauses every caller
// while a Retry-After window is open.
package microsoft
