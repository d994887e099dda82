package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikisync-cli/internal/logger"
)

const (
	// DefaultTimeout is the per-request deadline. Expiry is a transient
	// transport fault, never a permission fault.
	DefaultTimeout = 30 * time.Second

	// apiRoot is the Atlassian Cloud API gateway.
	apiRoot = "https://api.atlassian.com"

	// headerFailureCategory carries Atlassian's failure classification.
	// A SCOPE category on a 401 means the grant is missing, not expired.
	headerFailureCategory = "X-Failure-Category"

	// Conservative token bucket, well below Atlassian's limits.
	requestsPerSecond = 5.0
	burstSize         = 10
)

// Client issues authenticated GET requests against the Confluence REST
// API and decodes its paginated JSON envelopes. All requests of one
// connector instance flow through one Client; it owns the retry-on-401
// policy and the rate limiter. Not shared across connector instances.
type Client struct {
	http          *http.Client
	tokenProvider driven.TokenProvider
	limiter       *rate.Limiter

	// baseURL is the workspace instance root, e.g.
	// https://api.atlassian.com/ex/confluence/<cloud-id>.
	baseURL string

	// cloudID is sent as X-Cloud-ID when known.
	cloudID string

	// resourcesURL is the accessible-resources endpoint. Only tests
	// point it elsewhere.
	resourcesURL string
}

// NewClient creates an API client with a token provider.
// The base URL is set later, once the cloud id is resolved.
func NewClient(tokenProvider driven.TokenProvider) *Client {
	return &Client{
		http:          &http.Client{Timeout: DefaultTimeout},
		tokenProvider: tokenProvider,
		limiter:       rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
		resourcesURL:  accessibleResourcesURL,
	}
}

// SetInstance configures the workspace instance the client talks to.
func (c *Client) SetInstance(baseURL, cloudID string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	c.cloudID = cloudID
}

// BaseURL returns the workspace instance root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// pageEnvelope is the paginated response envelope: items under
// "results", the next cursor nested under "_links".
type pageEnvelope struct {
	Results []json.RawMessage `json:"results"`
	Links   struct {
		Next string `json:"next"`
	} `json:"_links"`
}

// Get performs an authenticated GET and returns the response body.
//
// On 401 it first checks for a scope-failure indicator (scope mention
// in the body message, or a SCOPE failure-category header) and fails
// with *ScopeError without retrying - refreshing cannot fix a missing
// grant. Otherwise it asks the token provider for one refresh and
// reissues the identical request once; a second 401 is fatal. Any
// other non-2xx status fails with *APIError carrying status, headers
// and body for diagnostics.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	token, err := c.tokenProvider.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	status, header, body, err := c.do(ctx, url, token)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		if scopeErr := scopeFailure(header, body, url); scopeErr != nil {
			logger.Warn("OAuth scope error for %s: token lacks required permissions", url)
			return nil, scopeErr
		}

		logger.Info("Received 401 for %s, attempting token refresh", url)
		if !c.tokenProvider.RefreshOnUnauthorized(ctx) {
			return nil, &APIError{StatusCode: status, Header: header, Body: string(body), URL: url}
		}

		token, err = c.tokenProvider.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("get refreshed token: %w", err)
		}

		logger.Info("Retrying request with refreshed token")
		status, header, body, err = c.do(ctx, url, token)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			if scopeErr := scopeFailure(header, body, url); scopeErr != nil {
				return nil, scopeErr
			}
			return nil, &APIError{StatusCode: status, Header: header, Body: string(body), URL: url}
		}
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		logger.Warn("Request to %s failed with status %d", url, status)
		return nil, &APIError{StatusCode: status, Header: header, Body: string(body), URL: url}
	}

	return body, nil
}

// GetJSON performs an authenticated GET and decodes the body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	return nil
}

// GetPage fetches one page of a paginated listing.
func (c *Client) GetPage(ctx context.Context, url string) (*pageEnvelope, error) {
	var env pageEnvelope
	if err := c.GetJSON(ctx, url, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// NextURL resolves a next-link from a response envelope into an
// absolute URL. Returns empty string when pagination is complete.
func (c *Client) NextURL(next string) string {
	if next == "" {
		return ""
	}
	if strings.HasPrefix(next, "http://") || strings.HasPrefix(next, "https://") {
		return next
	}
	return c.baseURL + next
}

// ValidateCredentials checks the token by making a minimal API call.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	_, err := c.Get(ctx, fmt.Sprintf("%s/wiki/api/v2/spaces?limit=1", c.baseURL))
	return err
}

// do issues a single GET with the given token. Returns the status,
// headers and fully-read body; the response is always closed here so
// no connection outlives the call.
func (c *Client) do(ctx context.Context, url, token string) (int, http.Header, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("build request for %s: %w", url, err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	// Required for CSRF protection.
	req.Header.Set("X-Atlassian-Token", "no-check")
	if c.cloudID != "" {
		req.Header.Set("X-Cloud-ID", c.cloudID)
	}

	logger.Debug("GET %s", url)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("read response from %s: %w", url, err)
	}

	return resp.StatusCode, resp.Header, body, nil
}

// scopeFailure inspects a 401 response for a scope-failure indicator.
// Returns nil when the failure looks like an expired token instead.
func scopeFailure(header http.Header, body []byte, url string) *ScopeError {
	var errBody struct {
		Message string `json:"message"`
	}
	if len(body) > 0 {
		// Body may not be JSON at all; the header check still applies.
		_ = json.Unmarshal(body, &errBody)
	}

	if strings.Contains(strings.ToLower(errBody.Message), "scope") ||
		strings.Contains(header.Get(headerFailureCategory), "SCOPE") {
		return &ScopeError{Message: errBody.Message, URL: url}
	}
	return nil
}
