package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driving"
	"github.com/custodia-labs/wikisync-cli/internal/logger"
)

// Ensure SourceManager implements the interface.
var _ driving.SourceManager = (*SourceManager)(nil)

// SourceManager manages workspace source configuration.
type SourceManager struct {
	sourceStore      driven.SourceStore
	syncStore        driven.SyncStateStore
	recordStore      driven.RecordStore
	credentialsStore driven.CredentialsStore
	factory          driven.ConnectorFactory
}

// NewSourceManager creates a new source manager.
func NewSourceManager(
	sourceStore driven.SourceStore,
	syncStore driven.SyncStateStore,
	recordStore driven.RecordStore,
	credentialsStore driven.CredentialsStore,
	factory driven.ConnectorFactory,
) *SourceManager {
	return &SourceManager{
		sourceStore:      sourceStore,
		syncStore:        syncStore,
		recordStore:      recordStore,
		credentialsStore: credentialsStore,
		factory:          factory,
	}
}

// Add registers a new source and returns it with a generated ID.
func (m *SourceManager) Add(ctx context.Context, sourceType, name string, config map[string]string) (*domain.Source, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: source name required", domain.ErrInvalidInput)
	}
	if !slices.Contains(m.factory.SupportedTypes(), sourceType) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, sourceType)
	}

	source := domain.Source{
		ID:        uuid.NewString(),
		Type:      sourceType,
		Name:      name,
		Config:    config,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := m.sourceStore.Save(ctx, source); err != nil {
		return nil, fmt.Errorf("save source: %w", err)
	}

	logger.Info("Added source %s (%s)", source.ID, sourceType)
	return &source, nil
}

// Get retrieves a source by ID.
func (m *SourceManager) Get(ctx context.Context, id string) (*domain.Source, error) {
	return m.sourceStore.Get(ctx, id)
}

// List returns all configured sources.
func (m *SourceManager) List(ctx context.Context) ([]domain.Source, error) {
	return m.sourceStore.List(ctx)
}

// Remove deletes a source together with its sync state, stored records
// and credentials.
func (m *SourceManager) Remove(ctx context.Context, id string) error {
	source, err := m.sourceStore.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}

	if err := m.recordStore.DeleteBySource(ctx, id); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}
	if err := m.syncStore.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete sync state: %w", err)
	}
	if source.CredentialsID != "" {
		if err := m.credentialsStore.Delete(ctx, source.CredentialsID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete credentials: %w", err)
		}
	}

	if err := m.sourceStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete source: %w", err)
	}

	logger.Info("Removed source %s", id)
	return nil
}
