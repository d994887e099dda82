package driven

import (
	"context"
	"errors"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
)

// Connector streams records from a workspace source.
// Each connector type implements this interface.
type Connector interface {
	// Type returns the connector type identifier.
	Type() string

	// SourceID returns the configured source ID.
	SourceID() string

	// Capabilities returns what this connector supports.
	Capabilities() ConnectorCapabilities

	// Validate checks if the connector is properly configured and
	// authenticated. For API connectors this makes a test API call.
	// Returns nil if ready to sync, error describing the problem otherwise.
	Validate(ctx context.Context) error

	// FullSync streams every record from the source in traversal order.
	// Returns channels for records and errors. The record channel is
	// unbuffered: the producer suspends until the consumer demands the
	// next record, and exits when ctx is cancelled. Connectors that
	// support cursor return send SyncComplete on the error channel upon
	// successful completion.
	FullSync(ctx context.Context) (<-chan domain.Record, <-chan error)

	// Close releases resources.
	Close() error
}

// ConnectorCapabilities describes what a connector supports.
type ConnectorCapabilities struct {
	// SupportsHierarchy indicates the source has nested structure.
	SupportsHierarchy bool

	// RequiresAuth indicates the connector needs authentication.
	RequiresAuth bool

	// SupportsValidation indicates Validate() performs actual validation.
	SupportsValidation bool

	// SupportsCursorReturn indicates FullSync can return a completion
	// cursor via the SyncComplete sentinel on the error channel.
	SupportsCursorReturn bool

	// SupportsRateLimiting indicates the connector handles rate limiting
	// internally.
	SupportsRateLimiting bool

	// SupportsPagination indicates the connector handles paginated APIs.
	// Connectors handle pagination internally; this is informational.
	SupportsPagination bool
}

// SyncComplete is sent on the error channel when sync completes successfully.
// Carries the completion cursor.
type SyncComplete struct {
	NewCursor string
}

// Error implements the error interface.
// This allows SyncComplete to be sent on the error channel.
func (SyncComplete) Error() string {
	return "sync complete"
}

// IsSyncComplete checks if an error is actually a successful completion.
// Returns the SyncComplete and true if it is, nil and false otherwise.
func IsSyncComplete(err error) (*SyncComplete, bool) {
	var sc *SyncComplete
	if errors.As(err, &sc) {
		return sc, true
	}
	return nil, false
}
