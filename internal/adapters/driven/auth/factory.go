package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
)

// Factory creates TokenProviders for sources with credentials.
type Factory struct {
	credentialsStore driven.CredentialsStore
	oauthConfig      *oauth2.Config
}

// NewFactory creates a token provider factory. The oauth config carries
// the OAuth app's client id and secret; it may be nil when only static
// tokens are in use.
func NewFactory(credentialsStore driven.CredentialsStore, oauthConfig *oauth2.Config) *Factory {
	return &Factory{
		credentialsStore: credentialsStore,
		oauthConfig:      oauthConfig,
	}
}

// CreateTokenProvider creates the appropriate TokenProvider for a source.
// Sources without a linked credentials ID fall back to a lookup by
// source ID; with no credentials at all, a NullTokenProvider is returned.
func (f *Factory) CreateTokenProvider(ctx context.Context, source domain.Source) (driven.TokenProvider, error) {
	var creds *domain.Credentials
	var err error

	if source.CredentialsID != "" {
		creds, err = f.credentialsStore.Get(ctx, source.CredentialsID)
		if err != nil {
			return nil, fmt.Errorf("get credentials %s: %w", source.CredentialsID, err)
		}
	} else {
		creds, err = f.credentialsStore.GetBySourceID(ctx, source.ID)
		if err != nil {
			return nil, fmt.Errorf("get credentials for source %s: %w", source.ID, err)
		}
		if creds == nil {
			return NewNullTokenProvider(), nil
		}
	}

	switch {
	case creds.OAuth != nil:
		if f.oauthConfig == nil {
			return nil, fmt.Errorf("OAuth credentials require an OAuth app config")
		}
		return NewOAuthTokenProvider(creds.ID, f.credentialsStore, f.oauthConfig), nil

	case creds.APIToken != "":
		return NewStaticTokenProvider(creds.ID, f.credentialsStore), nil

	default:
		return NewNullTokenProvider(), nil
	}
}
