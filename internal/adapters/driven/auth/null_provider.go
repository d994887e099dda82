package auth

import (
	"context"

	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
)

// Ensure NullTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*NullTokenProvider)(nil)

// NullTokenProvider is for sources that require no authentication.
type NullTokenProvider struct{}

// NewNullTokenProvider creates a token provider for no-auth sources.
func NewNullTokenProvider() *NullTokenProvider {
	return &NullTokenProvider{}
}

// Token returns an empty string since no authentication is needed.
func (p *NullTokenProvider) Token(_ context.Context) (string, error) {
	return "", nil
}

// RefreshOnUnauthorized returns false. Nothing to refresh.
func (p *NullTokenProvider) RefreshOnUnauthorized(_ context.Context) bool {
	return false
}

// IsAuthenticated always returns true since no-auth is always "authenticated".
func (p *NullTokenProvider) IsAuthenticated() bool {
	return true
}
