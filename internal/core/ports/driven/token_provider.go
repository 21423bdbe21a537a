package driven

import "context"

// TokenProvider supplies bearer tokens for directory requests.
// Implementations may block while refreshing and must be safe for
// concurrent use.
type TokenProvider interface {
	// GetToken returns a valid access token.
	// Unrecoverable credential failures wrap domain.ErrAuth.
	GetToken(ctx context.Context) (string, error)
}
