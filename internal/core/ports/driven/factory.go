package driven

import (
	"context"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
)

// ConnectorBuilder creates a Connector from a Source with auth support.
// TokenProvider may be nil for connectors that don't require authentication.
type ConnectorBuilder func(ctx context.Context, source domain.Source, tokenProvider TokenProvider) (Connector, error)

// ConnectorFactory creates connectors from source configuration.
// It maintains a registry of connector types and their builders.
type ConnectorFactory interface {
	// Create returns a Connector for the given source.
	// Resolves the TokenProvider from source.CredentialsID internally.
	// Returns ErrUnsupportedType if the source type is unknown.
	Create(ctx context.Context, source domain.Source) (Connector, error)

	// Register adds a connector builder for the given type.
	Register(connectorType string, builder ConnectorBuilder)

	// SupportedTypes returns all registered connector types.
	SupportedTypes() []string
}
