package microsoft

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
	"github.com/custodia-labs/entra-directory/internal/core/ports/driven"
)

// Ensure ClientCredentials implements the interface.
var _ driven.TokenProvider = (*ClientCredentials)(nil)

// Microsoft identity platform constants.
const (
	// DefaultAuthorityURL is the public-cloud login endpoint.
	DefaultAuthorityURL = "https://login.microsoftonline.com"
	// GraphDefaultScope requests every application permission granted to the app.
	GraphDefaultScope = "https://graph.microsoft.com/.default"
)

// ClientCredentialsConfig holds the app registration used to call Graph.
type ClientCredentialsConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	// AuthorityURL overrides DefaultAuthorityURL, e.g. for national clouds.
	AuthorityURL string
	// Scopes overrides the Graph default scope.
	Scopes []string
	// HTTPClient is used for token requests. Nil uses a 30 second timeout client.
	HTTPClient *http.Client
}

// TokenURL returns the tenant-specific token endpoint.
func (c ClientCredentialsConfig) TokenURL() string {
	authority := strings.TrimRight(c.AuthorityURL, "/")
	if authority == "" {
		authority = DefaultAuthorityURL
	}
	return authority + "/" + c.TenantID + "/oauth2/v2.0/token"
}

// ClientCredentials acquires and caches app-only tokens using the OAuth2
// client-credentials grant. Tokens are refreshed shortly before expiry.
type ClientCredentials struct {
	source oauth2.TokenSource
}

// NewClientCredentials creates a token provider for the app registration.
func NewClientCredentials(cfg ClientCredentialsConfig) (*ClientCredentials, error) {
	var missing []string
	if cfg.TenantID == "" {
		missing = append(missing, "tenant ID")
	}
	if cfg.ClientID == "" {
		missing = append(missing, "client ID")
	}
	if cfg.ClientSecret == "" {
		missing = append(missing, "client secret")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", domain.ErrAuth, strings.Join(missing, ", "))
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{GraphDefaultScope}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	oauthCfg := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL(),
		Scopes:       scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	// The context only carries the HTTP client; token refreshes outlive any request.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)

	return &ClientCredentials{source: oauthCfg.TokenSource(ctx)}, nil
}

// GetToken returns a cached access token, fetching a new one when needed.
func (c *ClientCredentials) GetToken(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &RequestError{Err: err}
	}

	// The token source has no context of its own, so a stalled fetch is
	// abandoned when ctx ends. It keeps running until the HTTP client
	// timeout and its token, if any, is cached for the next caller.
	type fetched struct {
		token *oauth2.Token
		err   error
	}
	done := make(chan fetched, 1)
	go func() {
		token, err := c.source.Token()
		done <- fetched{token: token, err: err}
	}()

	var token *oauth2.Token
	select {
	case <-ctx.Done():
		return "", &RequestError{Err: fmt.Errorf("token request: %w", ctx.Err())}
	case f := <-done:
		if f.err != nil {
			return "", classifyTokenError(f.err)
		}
		token = f.token
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: token endpoint returned an empty access token", domain.ErrAuth)
	}
	return token.AccessToken, nil
}

// classifyTokenError maps token acquisition failures onto the taxonomy.
func classifyTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		code := retrieveErr.ErrorCode
		if code == "" && retrieveErr.Response != nil {
			code = retrieveErr.Response.Status
		}
		return fmt.Errorf("%w: token request rejected: %s", domain.ErrAuth, code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &RequestError{Err: fmt.Errorf("token request: %w", err)}
	}

	return fmt.Errorf("%w: token request: %w", domain.ErrAuth, err)
}
