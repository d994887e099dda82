package domain

import "time"

// OAuthCredentials holds OAuth tokens for a source.
type OAuthCredentials struct {
	// AccessToken is the current bearer token.
	AccessToken string

	// RefreshToken is the long-lived refresh token, empty when the
	// provider does not rotate tokens.
	RefreshToken string

	// TokenType is the token type, normally "Bearer".
	TokenType string

	// Expiry is when the access token expires. Zero means unknown.
	Expiry time.Time
}

// IsExpired reports whether the access token is past its expiry.
// Tokens without a known expiry are never considered expired here;
// the 401-driven refresh path handles those.
func (c *OAuthCredentials) IsExpired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().After(c.Expiry)
}

// Credentials ties authentication material to a source.
type Credentials struct {
	// ID is the unique identifier for the credentials.
	ID string

	// SourceID links to the Source using these credentials.
	SourceID string

	// AccountIdentifier is the upstream account (email/username) for display.
	AccountIdentifier string

	// OAuth holds OAuth tokens. Nil for static-token credentials.
	OAuth *OAuthCredentials

	// APIToken is a static API token. Empty for OAuth credentials.
	APIToken string

	// CreatedAt is when the credentials were stored.
	CreatedAt time.Time

	// UpdatedAt is when the credentials were last updated.
	UpdatedAt time.Time
}
