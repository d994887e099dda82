package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikisync-cli/internal/logger"
)

// Ensure OAuthTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*OAuthTokenProvider)(nil)

// AtlassianEndpoint is the OAuth2 endpoint for Atlassian Cloud.
var AtlassianEndpoint = oauth2.Endpoint{
	AuthURL:  "https://auth.atlassian.com/authorize",
	TokenURL: "https://auth.atlassian.com/oauth/token",
}

// OAuthTokenProvider provides OAuth access tokens backed by the
// credentials store. Token returns the stored token without network
// calls; refresh happens only through RefreshOnUnauthorized, at most
// once per failed request, driven by the caller.
type OAuthTokenProvider struct {
	credentialsID    string
	credentialsStore driven.CredentialsStore
	oauthConfig      *oauth2.Config

	mu sync.Mutex
}

// NewOAuthTokenProvider creates a token provider for OAuth-based
// authentication.
func NewOAuthTokenProvider(
	credentialsID string,
	credentialsStore driven.CredentialsStore,
	oauthConfig *oauth2.Config,
) *OAuthTokenProvider {
	return &OAuthTokenProvider{
		credentialsID:    credentialsID,
		credentialsStore: credentialsStore,
		oauthConfig:      oauthConfig,
	}
}

// Token returns the stored access token. No validity probe is made;
// a stale token surfaces as a 401 and flows back through
// RefreshOnUnauthorized.
func (p *OAuthTokenProvider) Token(ctx context.Context) (string, error) {
	creds, err := p.credentialsStore.Get(ctx, p.credentialsID)
	if err != nil {
		return "", fmt.Errorf("get credentials: %w", err)
	}
	if creds.OAuth == nil || creds.OAuth.AccessToken == "" {
		return "", fmt.Errorf("credentials %s have no OAuth tokens", p.credentialsID)
	}
	return creds.OAuth.AccessToken, nil
}

// RefreshOnUnauthorized exchanges the refresh token for a new access
// token and persists it. Returns false when no refresh token exists or
// the exchange fails; the caller then treats the 401 as fatal.
func (p *OAuthTokenProvider) RefreshOnUnauthorized(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	creds, err := p.credentialsStore.Get(ctx, p.credentialsID)
	if err != nil {
		logger.Warn("Token refresh: get credentials %s: %v", p.credentialsID, err)
		return false
	}
	if creds.OAuth == nil || creds.OAuth.RefreshToken == "" {
		logger.Debug("Token refresh: no refresh token for credentials %s", p.credentialsID)
		return false
	}

	// Force the exchange by presenting an already-expired token.
	stale := &oauth2.Token{
		RefreshToken: creds.OAuth.RefreshToken,
		Expiry:       time.Now().Add(-time.Minute),
	}
	fresh, err := p.oauthConfig.TokenSource(ctx, stale).Token()
	if err != nil {
		logger.Warn("Token refresh failed for credentials %s: %v", p.credentialsID, err)
		return false
	}

	creds.OAuth.AccessToken = fresh.AccessToken
	if fresh.RefreshToken != "" {
		creds.OAuth.RefreshToken = fresh.RefreshToken
	}
	creds.OAuth.TokenType = fresh.TokenType
	creds.OAuth.Expiry = fresh.Expiry
	creds.UpdatedAt = time.Now()

	if err := p.credentialsStore.Save(ctx, *creds); err != nil {
		logger.Warn("Save refreshed credentials %s: %v", p.credentialsID, err)
		return false
	}

	logger.Info("Refreshed OAuth token for credentials %s", p.credentialsID)
	return true
}

// IsAuthenticated returns true if the credentials hold an access token.
func (p *OAuthTokenProvider) IsAuthenticated() bool {
	creds, err := p.credentialsStore.Get(context.Background(), p.credentialsID)
	if err != nil {
		return false
	}
	return creds.OAuth != nil && creds.OAuth.AccessToken != ""
}
