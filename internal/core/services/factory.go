package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
)

// Ensure ConnectorFactory implements the interface.
var _ driven.ConnectorFactory = (*ConnectorFactory)(nil)

// TokenProviderFactory resolves a source's credentials into a token
// provider. Implemented by the auth adapter.
type TokenProviderFactory interface {
	CreateTokenProvider(ctx context.Context, source domain.Source) (driven.TokenProvider, error)
}

// ConnectorFactory creates connectors from source configuration.
// Builders are registered per connector type at wiring time.
type ConnectorFactory struct {
	mu             sync.RWMutex
	builders       map[string]driven.ConnectorBuilder
	tokenProviders TokenProviderFactory
}

// NewConnectorFactory creates a connector factory.
func NewConnectorFactory(tokenProviders TokenProviderFactory) *ConnectorFactory {
	return &ConnectorFactory{
		builders:       make(map[string]driven.ConnectorBuilder),
		tokenProviders: tokenProviders,
	}
}

// Register adds a connector builder for the given type.
func (f *ConnectorFactory) Register(connectorType string, builder driven.ConnectorBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[connectorType] = builder
}

// Create returns a Connector for the given source.
// Resolves the TokenProvider from source.CredentialsID internally.
func (f *ConnectorFactory) Create(ctx context.Context, source domain.Source) (driven.Connector, error) {
	f.mu.RLock()
	builder, ok := f.builders[source.Type]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, source.Type)
	}

	tokenProvider, err := f.tokenProviders.CreateTokenProvider(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("create token provider: %w", err)
	}

	return builder(ctx, source, tokenProvider)
}

// SupportedTypes returns all registered connector types, sorted.
func (f *ConnectorFactory) SupportedTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	types := make([]string, 0, len(f.builders))
	for t := range f.builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
