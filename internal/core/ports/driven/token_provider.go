package driven

import "context"

// TokenProvider supplies bearer tokens for authenticated API calls.
// It is the engine's only recovery path for authorization failures;
// the engine performs no credential logic itself.
type TokenProvider interface {
	// Token returns the last-known-valid access token without any
	// network call. Returns empty string for no-auth sources.
	Token(ctx context.Context) (string, error)

	// RefreshOnUnauthorized performs one refresh attempt after a 401
	// and reports whether a new token is now available. Callers invoke
	// it at most once per failed request.
	RefreshOnUnauthorized(ctx context.Context) bool

	// IsAuthenticated returns true if valid authentication is available.
	IsAuthenticated() bool
}
