package confluence

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTokenProvider implements driven.TokenProvider for testing.
type mockTokenProvider struct {
	token        string
	refreshed    string
	refreshOK    bool
	refreshCalls atomic.Int32
	tokenErr     error
}

func (p *mockTokenProvider) Token(_ context.Context) (string, error) {
	if p.tokenErr != nil {
		return "", p.tokenErr
	}
	if p.refreshCalls.Load() > 0 && p.refreshed != "" {
		return p.refreshed, nil
	}
	return p.token, nil
}

func (p *mockTokenProvider) RefreshOnUnauthorized(_ context.Context) bool {
	p.refreshCalls.Add(1)
	return p.refreshOK
}

func (p *mockTokenProvider) IsAuthenticated() bool {
	return p.token != ""
}

func newTestClient(serverURL string, provider *mockTokenProvider) *Client {
	c := NewClient(provider)
	c.SetInstance(serverURL, "cloud-123")
	return c
}

func TestClient_Get(t *testing.T) {
	t.Run("returns body on success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))
			assert.Equal(t, "no-check", r.Header.Get("X-Atlassian-Token"))
			assert.Equal(t, "cloud-123", r.Header.Get("X-Cloud-ID"))
			w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL, &mockTokenProvider{token: "good-token"})

		body, err := client.Get(context.Background(), server.URL+"/x")

		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(body))
	})

	t.Run("refreshes once on 401 and retries", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				assert.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"token expired"}`))
				return
			}
			assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
			w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		provider := &mockTokenProvider{token: "stale", refreshed: "fresh", refreshOK: true}
		client := newTestClient(server.URL, provider)

		body, err := client.Get(context.Background(), server.URL+"/x")

		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(body))
		assert.Equal(t, int32(1), provider.refreshCalls.Load())
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("second 401 after refresh is fatal", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"still invalid"}`))
		}))
		defer server.Close()

		provider := &mockTokenProvider{token: "stale", refreshed: "fresh", refreshOK: true}
		client := newTestClient(server.URL, provider)

		_, err := client.Get(context.Background(), server.URL+"/x")

		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
		// Exactly one refresh, exactly one retry. Never a loop.
		assert.Equal(t, int32(1), provider.refreshCalls.Load())
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("failed refresh surfaces the original 401", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		provider := &mockTokenProvider{token: "stale", refreshOK: false}
		client := newTestClient(server.URL, provider)

		_, err := client.Get(context.Background(), server.URL+"/x")

		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
		assert.Equal(t, int32(1), provider.refreshCalls.Load())
	})

	t.Run("scope mention in body skips refresh entirely", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Insufficient OAuth scope for this resource"}`))
		}))
		defer server.Close()

		provider := &mockTokenProvider{token: "tok", refreshOK: true}
		client := newTestClient(server.URL, provider)

		_, err := client.Get(context.Background(), server.URL+"/x")

		require.Error(t, err)
		assert.True(t, IsScope(err))
		assert.Equal(t, int32(0), provider.refreshCalls.Load())
	})

	t.Run("SCOPE failure-category header skips refresh", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set(headerFailureCategory, "SCOPE_MISSING")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		provider := &mockTokenProvider{token: "tok", refreshOK: true}
		client := newTestClient(server.URL, provider)

		_, err := client.Get(context.Background(), server.URL+"/x")

		require.Error(t, err)
		assert.True(t, IsScope(err))
		assert.Equal(t, int32(0), provider.refreshCalls.Load())
	})

	t.Run("non-2xx returns APIError with diagnostics", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`slow down`))
		}))
		defer server.Close()

		client := newTestClient(server.URL, &mockTokenProvider{token: "tok"})

		_, err := client.Get(context.Background(), server.URL+"/x")

		require.Error(t, err)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
		assert.Equal(t, "30", apiErr.Header.Get("Retry-After"))
		assert.Equal(t, "slow down", apiErr.Body)
		assert.True(t, IsRateLimited(err))
	})

	t.Run("token provider error fails before any request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			t.Fatal("request should not reach the server")
		}))
		defer server.Close()

		client := newTestClient(server.URL, &mockTokenProvider{tokenErr: assert.AnError})

		_, err := client.Get(context.Background(), server.URL+"/x")

		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestClient_GetPage(t *testing.T) {
	t.Run("decodes results and next link", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"results":[{"id":"1"},{"id":"2"}],"_links":{"next":"/wiki/api/v2/spaces?cursor=abc"}}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL, &mockTokenProvider{token: "tok"})

		env, err := client.GetPage(context.Background(), server.URL+"/wiki/api/v2/spaces")

		require.NoError(t, err)
		assert.Len(t, env.Results, 2)
		assert.Equal(t, "/wiki/api/v2/spaces?cursor=abc", env.Links.Next)
	})

	t.Run("missing _links means last page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"results":[]}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL, &mockTokenProvider{token: "tok"})

		env, err := client.GetPage(context.Background(), server.URL+"/wiki/api/v2/spaces")

		require.NoError(t, err)
		assert.Empty(t, env.Results)
		assert.Empty(t, env.Links.Next)
	})
}

func TestClient_NextURL(t *testing.T) {
	client := NewClient(&mockTokenProvider{token: "tok"})
	client.SetInstance("https://api.atlassian.com/ex/confluence/abc", "abc")

	t.Run("empty link terminates pagination", func(t *testing.T) {
		assert.Empty(t, client.NextURL(""))
	})

	t.Run("relative link resolves against instance root", func(t *testing.T) {
		got := client.NextURL("/wiki/api/v2/spaces?cursor=x")

		assert.Equal(t, "https://api.atlassian.com/ex/confluence/abc/wiki/api/v2/spaces?cursor=x", got)
	})

	t.Run("absolute link passes through", func(t *testing.T) {
		got := client.NextURL("https://other.example.com/next")

		assert.Equal(t, "https://other.example.com/next", got)
	})
}

func TestClient_ValidateCredentials(t *testing.T) {
	t.Run("probes the spaces endpoint with limit 1", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/wiki/api/v2/spaces", r.URL.Path)
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			w.Write([]byte(`{"results":[]}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL, &mockTokenProvider{token: "tok"})

		assert.NoError(t, client.ValidateCredentials(context.Background()))
	})

	t.Run("propagates auth failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newTestClient(server.URL, &mockTokenProvider{token: "tok"})

		err := client.ValidateCredentials(context.Background())

		assert.True(t, IsUnauthorized(err))
	})
}

func TestClient_ResolveCloudID(t *testing.T) {
	t.Run("returns first resource id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`[{"id":"cloud-1","url":"https://one.atlassian.net"},{"id":"cloud-2"}]`))
		}))
		defer server.Close()

		client := NewClient(&mockTokenProvider{token: "tok"})
		client.resourcesURL = server.URL

		id, err := client.ResolveCloudID(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "cloud-1", id)
	})

	t.Run("empty listing resolves to empty id without error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := NewClient(&mockTokenProvider{token: "tok"})
		client.resourcesURL = server.URL

		id, err := client.ResolveCloudID(context.Background())

		require.NoError(t, err)
		assert.Empty(t, id)
	})
}
