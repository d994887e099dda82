package auth

import (
	"context"
	"fmt"

	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
)

// Ensure StaticTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*StaticTokenProvider)(nil)

// StaticTokenProvider provides a fixed API token from the credentials
// store. Static tokens don't expire and can't be refreshed; a 401 with
// one is always fatal.
type StaticTokenProvider struct {
	credentialsID    string
	credentialsStore driven.CredentialsStore
}

// NewStaticTokenProvider creates a token provider for API-token
// authentication.
func NewStaticTokenProvider(credentialsID string, credentialsStore driven.CredentialsStore) *StaticTokenProvider {
	return &StaticTokenProvider{
		credentialsID:    credentialsID,
		credentialsStore: credentialsStore,
	}
}

// Token returns the stored API token.
func (p *StaticTokenProvider) Token(ctx context.Context) (string, error) {
	creds, err := p.credentialsStore.Get(ctx, p.credentialsID)
	if err != nil {
		return "", fmt.Errorf("get credentials: %w", err)
	}
	if creds.APIToken == "" {
		return "", fmt.Errorf("credentials %s have no API token", p.credentialsID)
	}
	return creds.APIToken, nil
}

// RefreshOnUnauthorized always returns false. There is nothing to refresh.
func (p *StaticTokenProvider) RefreshOnUnauthorized(_ context.Context) bool {
	return false
}

// IsAuthenticated returns true if a non-empty API token is stored.
func (p *StaticTokenProvider) IsAuthenticated() bool {
	creds, err := p.credentialsStore.Get(context.Background(), p.credentialsID)
	if err != nil {
		return false
	}
	return creds.APIToken != ""
}
