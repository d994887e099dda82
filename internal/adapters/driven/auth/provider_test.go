package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
)

// fakeCredentialsStore is an in-memory CredentialsStore for tests.
type fakeCredentialsStore struct {
	creds map[string]domain.Credentials
}

func newFakeCredentialsStore() *fakeCredentialsStore {
	return &fakeCredentialsStore{creds: make(map[string]domain.Credentials)}
}

func (s *fakeCredentialsStore) Save(_ context.Context, creds domain.Credentials) error {
	s.creds[creds.ID] = creds
	return nil
}

func (s *fakeCredentialsStore) Get(_ context.Context, id string) (*domain.Credentials, error) {
	creds, ok := s.creds[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &creds, nil
}

func (s *fakeCredentialsStore) GetBySourceID(_ context.Context, sourceID string) (*domain.Credentials, error) {
	for _, creds := range s.creds {
		if creds.SourceID == sourceID {
			return &creds, nil
		}
	}
	return nil, nil
}

func (s *fakeCredentialsStore) Delete(_ context.Context, id string) error {
	delete(s.creds, id)
	return nil
}

func TestStaticTokenProvider(t *testing.T) {
	t.Run("returns stored token", func(t *testing.T) {
		store := newFakeCredentialsStore()
		store.creds["c1"] = domain.Credentials{ID: "c1", APIToken: "secret"}

		provider := NewStaticTokenProvider("c1", store)

		token, err := provider.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "secret", token)
		assert.True(t, provider.IsAuthenticated())
	})

	t.Run("never refreshes", func(t *testing.T) {
		store := newFakeCredentialsStore()
		store.creds["c1"] = domain.Credentials{ID: "c1", APIToken: "secret"}

		provider := NewStaticTokenProvider("c1", store)

		assert.False(t, provider.RefreshOnUnauthorized(context.Background()))
	})

	t.Run("fails without a stored token", func(t *testing.T) {
		store := newFakeCredentialsStore()
		store.creds["c1"] = domain.Credentials{ID: "c1"}

		provider := NewStaticTokenProvider("c1", store)

		_, err := provider.Token(context.Background())
		assert.Error(t, err)
		assert.False(t, provider.IsAuthenticated())
	})

	t.Run("fails for missing credentials", func(t *testing.T) {
		provider := NewStaticTokenProvider("nope", newFakeCredentialsStore())

		_, err := provider.Token(context.Background())
		assert.Error(t, err)
		assert.False(t, provider.IsAuthenticated())
	})
}

func TestOAuthTokenProvider(t *testing.T) {
	oauthCreds := func(access, refresh string) domain.Credentials {
		return domain.Credentials{
			ID:    "c1",
			OAuth: &domain.OAuthCredentials{AccessToken: access, RefreshToken: refresh},
		}
	}

	t.Run("returns stored access token without network calls", func(t *testing.T) {
		store := newFakeCredentialsStore()
		store.creds["c1"] = oauthCreds("access-1", "refresh-1")

		provider := NewOAuthTokenProvider("c1", store, &oauth2.Config{})

		token, err := provider.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "access-1", token)
		assert.True(t, provider.IsAuthenticated())
	})

	t.Run("refresh exchanges and persists the new token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
			assert.Equal(t, "refresh-1", r.Form.Get("refresh_token"))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"access-2","refresh_token":"refresh-2","token_type":"Bearer","expires_in":3600}`)
		}))
		defer server.Close()

		store := newFakeCredentialsStore()
		store.creds["c1"] = oauthCreds("access-1", "refresh-1")

		cfg := &oauth2.Config{
			ClientID: "app", ClientSecret: "shh",
			Endpoint: oauth2.Endpoint{TokenURL: server.URL},
		}
		provider := NewOAuthTokenProvider("c1", store, cfg)

		require.True(t, provider.RefreshOnUnauthorized(context.Background()))

		saved := store.creds["c1"]
		assert.Equal(t, "access-2", saved.OAuth.AccessToken)
		assert.Equal(t, "refresh-2", saved.OAuth.RefreshToken)
		assert.False(t, saved.OAuth.Expiry.IsZero())

		token, err := provider.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "access-2", token)
	})

	t.Run("refresh keeps old refresh token when none returned", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"access-2","token_type":"Bearer","expires_in":3600}`)
		}))
		defer server.Close()

		store := newFakeCredentialsStore()
		store.creds["c1"] = oauthCreds("access-1", "refresh-1")

		cfg := &oauth2.Config{Endpoint: oauth2.Endpoint{TokenURL: server.URL}}
		provider := NewOAuthTokenProvider("c1", store, cfg)

		require.True(t, provider.RefreshOnUnauthorized(context.Background()))
		assert.Equal(t, "refresh-1", store.creds["c1"].OAuth.RefreshToken)
	})

	t.Run("refresh fails without a refresh token", func(t *testing.T) {
		store := newFakeCredentialsStore()
		store.creds["c1"] = oauthCreds("access-1", "")

		provider := NewOAuthTokenProvider("c1", store, &oauth2.Config{})

		assert.False(t, provider.RefreshOnUnauthorized(context.Background()))
	})

	t.Run("refresh fails when the exchange fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "bad refresh token", http.StatusBadRequest)
		}))
		defer server.Close()

		store := newFakeCredentialsStore()
		store.creds["c1"] = oauthCreds("access-1", "refresh-1")

		cfg := &oauth2.Config{Endpoint: oauth2.Endpoint{TokenURL: server.URL}}
		provider := NewOAuthTokenProvider("c1", store, cfg)

		assert.False(t, provider.RefreshOnUnauthorized(context.Background()))
		// Stored credentials are untouched on failure.
		assert.Equal(t, "access-1", store.creds["c1"].OAuth.AccessToken)
	})
}

func TestNullTokenProvider(t *testing.T) {
	provider := NewNullTokenProvider()

	token, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.False(t, provider.RefreshOnUnauthorized(context.Background()))
	assert.True(t, provider.IsAuthenticated())
}

func TestFactory_CreateTokenProvider(t *testing.T) {
	t.Run("no credentials id yields null provider", func(t *testing.T) {
		factory := NewFactory(newFakeCredentialsStore(), nil)

		provider, err := factory.CreateTokenProvider(context.Background(), domain.Source{})

		require.NoError(t, err)
		assert.IsType(t, &NullTokenProvider{}, provider)
	})

	t.Run("oauth credentials yield oauth provider", func(t *testing.T) {
		store := newFakeCredentialsStore()
		store.creds["c1"] = domain.Credentials{ID: "c1", OAuth: &domain.OAuthCredentials{AccessToken: "a"}}

		factory := NewFactory(store, &oauth2.Config{})

		provider, err := factory.CreateTokenProvider(context.Background(), domain.Source{CredentialsID: "c1"})

		require.NoError(t, err)
		assert.IsType(t, &OAuthTokenProvider{}, provider)
	})

	t.Run("oauth credentials without app config fail", func(t *testing.T) {
		store := newFakeCredentialsStore()
		store.creds["c1"] = domain.Credentials{ID: "c1", OAuth: &domain.OAuthCredentials{AccessToken: "a"}}

		factory := NewFactory(store, nil)

		_, err := factory.CreateTokenProvider(context.Background(), domain.Source{CredentialsID: "c1"})

		assert.Error(t, err)
	})

	t.Run("api token yields static provider", func(t *testing.T) {
		store := newFakeCredentialsStore()
		store.creds["c1"] = domain.Credentials{ID: "c1", APIToken: "secret"}

		factory := NewFactory(store, nil)

		provider, err := factory.CreateTokenProvider(context.Background(), domain.Source{CredentialsID: "c1"})

		require.NoError(t, err)
		assert.IsType(t, &StaticTokenProvider{}, provider)
	})

	t.Run("falls back to lookup by source id", func(t *testing.T) {
		store := newFakeCredentialsStore()
		store.creds["c1"] = domain.Credentials{ID: "c1", SourceID: "src-1", APIToken: "secret"}

		factory := NewFactory(store, nil)

		provider, err := factory.CreateTokenProvider(context.Background(), domain.Source{ID: "src-1"})

		require.NoError(t, err)
		assert.IsType(t, &StaticTokenProvider{}, provider)

		token, err := provider.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "secret", token)
	})

	t.Run("unknown credentials id fails", func(t *testing.T) {
		factory := NewFactory(newFakeCredentialsStore(), nil)

		_, err := factory.CreateTokenProvider(context.Background(), domain.Source{CredentialsID: "nope"})

		assert.Error(t, err)
	})
}
