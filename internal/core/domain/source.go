package domain

import (
	"fmt"
	"strings"
	"time"
)

// Source represents a configured workspace source.
// Each source produces records via a connector and belongs to one
// workspace instance.
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// Type identifies the connector type (e.g., "confluence").
	Type string

	// Name is the human-readable name for this source.
	Name string

	// Config contains connector-specific configuration.
	Config map[string]string

	// CredentialsID references this source's Credentials (tokens + account info).
	// Empty string for no-auth sources.
	CredentialsID string

	// CreatedAt is when the source was created.
	CreatedAt time.Time

	// UpdatedAt is when the source was last updated.
	UpdatedAt time.Time
}

// DisplayName returns the source name with account identifier if provided.
// If the account identifier is already present in the name, it is not
// appended again.
func (s *Source) DisplayName(accountIdentifier string) string {
	if accountIdentifier != "" && !strings.Contains(s.Name, accountIdentifier) {
		return fmt.Sprintf("%s - %s", s.Name, accountIdentifier)
	}
	return s.Name
}

// SyncState tracks the traversal progress for a source.
type SyncState struct {
	// SourceID links to the Source being synced.
	SourceID string

	// Cursor is an opaque token describing the completed traversal.
	Cursor string

	// LastSync is when the last successful sync completed.
	LastSync time.Time
}
